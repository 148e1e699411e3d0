package degiro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const (
	dataPath      = "$.data"
	portfolioPath = "$.portfolio.value"
)

// decode parses body keeping numbers as json.Number, so account and product
// ids never go through float64.
func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return doc, nil
}

// unwrap returns the value at path inside the JSON document body.
func unwrap(body []byte, path string) (any, error) {
	doc, err := decode(body)
	if err != nil {
		return nil, err
	}

	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEnvelope, path, err)
	}
	return v, nil
}

func unwrapObject(body []byte, path string) (map[string]any, error) {
	v, err := unwrap(body, path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want object", ErrEnvelope, path, v)
	}
	return m, nil
}

func unwrapList(body []byte, path string) ([]any, error) {
	v, err := unwrap(body, path)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want list", ErrEnvelope, path, v)
	}
	return l, nil
}

// productKey renders a product id the way the products response keys it.
func productKey(v any) (string, error) {
	switch id := v.(type) {
	case json.Number:
		return id.String(), nil
	case string:
		return id, nil
	case int:
		return strconv.Itoa(id), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: product id %v has type %T", ErrEnvelope, v, v)
}

// int64Value converts a JSON number or numeric string to int64.
func int64Value(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("%w: %v has type %T, want integer", ErrEnvelope, v, v)
}

func decimalValue(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %v has type %T, want number", ErrEnvelope, v, v)
}
