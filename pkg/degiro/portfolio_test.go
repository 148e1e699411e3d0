package degiro

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, size any) map[string]any {
	return map[string]any{
		"id":           id,
		"positionType": "PRODUCT",
		"value": []any{
			map[string]any{"name": "id", "value": id},
			map[string]any{"name": "size", "value": size},
			map[string]any{"name": "breakEvenPrice"},
		},
	}
}

func TestOpenPositions_DropsNonPositiveSize(t *testing.T) {
	entries := []any{
		entry("1", json.Number("0")),
		entry("2", json.Number("5")),
		entry("3", json.Number("-2")),
		entry("4", json.Number("0.0001")),
	}

	positions, err := openPositions(entries)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, Record{"id": "2", "size": json.Number("5")}, positions[0])
	assert.Equal(t, Record{"id": "4", "size": json.Number("0.0001")}, positions[1])
}

func TestOpenPositions_MissingSize(t *testing.T) {
	entries := []any{map[string]any{"value": []any{map[string]any{"name": "id", "value": "1"}}}}

	_, err := openPositions(entries)
	assert.ErrorIs(t, err, ErrEnvelope)
}

func TestOpenPositions_NoValueList(t *testing.T) {
	_, err := openPositions([]any{map[string]any{"id": "1"}})
	assert.ErrorIs(t, err, ErrEnvelope)
}

func TestUnpack(t *testing.T) {
	pairs := []any{
		map[string]any{"name": "id", "value": "331868", "isAdded": true},
		map[string]any{"name": "size", "value": json.Number("10")},
		map[string]any{"name": "plBase", "isAdded": true},
		map[string]any{"name": "value", "value": json.Number("718.0")},
	}

	got, err := unpack(pairs)
	require.NoError(t, err)
	assert.Equal(t, Record{
		"id":    "331868",
		"size":  json.Number("10"),
		"value": json.Number("718.0"),
	}, got)
}

func TestUnpack_PairWithoutName(t *testing.T) {
	_, err := unpack([]any{map[string]any{"value": 1}})
	assert.ErrorIs(t, err, ErrEnvelope)
}
