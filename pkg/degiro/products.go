package degiro

import (
	"context"
	"fmt"
)

// Products fetches product info for ids in one call. The result is keyed by
// the product id as a string and holds DeGiro's product info untouched.
func (c *Client) Products(ctx context.Context, hc Doer, sessionID string, accountID int64, ids []int64) (Products, error) {
	if len(ids) == 0 {
		return Products{}, nil
	}

	ep := mustEndpoint(EndpointProducts)
	resp, err := c.exec.ExecuteRaw(ctx, hc, ep, ep.Resolve(c.baseURL, sessionID, accountID), ids)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(ep, resp); err != nil {
		return nil, err
	}

	data, err := unwrapObject(resp.Body, dataPath)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return Products(data), nil
}

// joinProducts replaces the id field of every record with a "product" field
// holding the matching product info. It stops at the first record whose
// product is missing and leaves the remaining records untouched.
func joinProducts(records []Record, field string, products Products) error {
	for _, rec := range records {
		key, err := productKey(rec[field])
		if err != nil {
			return err
		}
		info, ok := products[key]
		if !ok {
			return &MissingProductError{ProductID: key}
		}
		rec["product"] = info
		delete(rec, field)
	}
	return nil
}

// productIDs collects the distinct product ids of records in first seen order.
func productIDs(records []Record, field string) ([]int64, error) {
	seen := make(map[int64]bool, len(records))
	ids := make([]int64, 0, len(records))
	for i, rec := range records {
		raw, ok := rec[field]
		if !ok {
			return nil, fmt.Errorf("%w: record %d has no %s", ErrEnvelope, i, field)
		}
		id, err := int64Value(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: parsing %s: %w", i, field, err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
