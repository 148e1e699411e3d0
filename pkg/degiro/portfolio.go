package degiro

import (
	"context"
	"fmt"
)

// Portfolio fetches the open positions of the account and joins each with its
// product info. Positions with a size of zero or less are left out.
//
// DeGiro returns every position as a list of {name, value} pairs; they are
// flattened into one Record per position before filtering.
func (c *Client) Portfolio(ctx context.Context, hc Doer, sessionID string, accountID int64) ([]Record, error) {
	ep := mustEndpoint(EndpointPortfolio)
	resp, err := c.exec.Execute(ctx, hc, ep, ep.Resolve(c.baseURL, sessionID, accountID), Args{
		"portfolio":      0,
		"totalPortfolio": 0,
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(ep, resp); err != nil {
		return nil, err
	}

	entries, err := unwrapList(resp.Body, portfolioPath)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	positions, err := openPositions(entries)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}

	ids, err := productIDs(positions, "id")
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	products, err := c.Products(ctx, hc, sessionID, accountID, ids)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	if err := joinProducts(positions, "id", products); err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}

	c.log.Debug().
		Int("entries", len(entries)).
		Int("open", len(positions)).
		Msg("Fetched portfolio")
	return positions, nil
}

// openPositions flattens the raw portfolio entries and keeps those with size > 0.
func openPositions(entries []any) ([]Record, error) {
	out := make([]Record, 0, len(entries))
	for i, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is %T, want object", ErrEnvelope, i, entry)
		}
		pairs, ok := m["value"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has no value list", ErrEnvelope, i)
		}

		pos, err := unpack(pairs)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		raw, ok := pos["size"]
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has no size", ErrEnvelope, i)
		}
		size, err := decimalValue(raw)
		if err != nil {
			return nil, fmt.Errorf("entry %d: parsing size: %w", i, err)
		}
		if !size.IsPositive() {
			continue
		}
		out = append(out, pos)
	}
	return out, nil
}

// unpack turns [{"name": "size", "value": 5}, ...] into {"size": 5, ...}.
// Pairs without a value are skipped.
func unpack(pairs []any) (Record, error) {
	out := make(Record, len(pairs))
	for _, p := range pairs {
		pair, ok := p.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: pair is %T, want object", ErrEnvelope, p)
		}
		name, ok := pair["name"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: pair has no name", ErrEnvelope)
		}
		v, ok := pair["value"]
		if !ok {
			continue
		}
		out[name] = v
	}
	return out, nil
}
