package degiro

import (
	"context"
	"fmt"
	"time"
)

// Transactions fetches the transactions between from and to (inclusive days)
// and joins each with its product info. The productId field is replaced by product.
func (c *Client) Transactions(ctx context.Context, hc Doer, sessionID string, accountID int64, from, to time.Time) ([]Record, error) {
	ep := mustEndpoint(EndpointTransactions)
	resp, err := c.exec.Execute(ctx, hc, ep, ep.Resolve(c.baseURL, sessionID, accountID), Args{
		"sessionId":  sessionID,
		"intAccount": accountID,
		"fromDate":   FormatDate(from),
		"toDate":     FormatDate(to),
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(ep, resp); err != nil {
		return nil, err
	}

	list, err := unwrapList(resp.Body, dataPath)
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}
	transactions, err := records(list)
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	ids, err := productIDs(transactions, "productId")
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}
	products, err := c.Products(ctx, hc, sessionID, accountID, ids)
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}
	if err := joinProducts(transactions, "productId", products); err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	c.log.Debug().Int("count", len(transactions)).Msg("Fetched transactions")
	return transactions, nil
}

func records(list []any) ([]Record, error) {
	out := make([]Record, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, want object", ErrEnvelope, i, item)
		}
		out = append(out, Record(m))
	}
	return out, nil
}
