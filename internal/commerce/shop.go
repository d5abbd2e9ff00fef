package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// OrderQuery filters the order listing.
type OrderQuery struct {
	Status string // "any" when empty
	After  string // ISO 8601 lower bound on creation date
}

// Customers lists every customer, page by page.
func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	raw, err := paginate[wcCustomer](ctx, c, c.baseURL+wcPath+"/customers", nil)
	out := make([]Customer, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toCustomer())
	}
	c.log.Info("customers fetched", "count", len(out), "complete", err == nil)
	return out, err
}

// Orders lists orders newest first.
func (c *Client) Orders(ctx context.Context, q OrderQuery) ([]Order, error) {
	params := url.Values{}
	status := q.Status
	if status == "" {
		status = "any"
	}
	params.Set("status", status)
	params.Set("orderby", "date")
	params.Set("order", "desc")
	if q.After != "" {
		params.Set("after", q.After)
	}

	raw, err := paginate[wcOrder](ctx, c, c.baseURL+wcPath+"/orders", params)
	out := make([]Order, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toOrder())
	}
	c.log.Info("orders fetched", "count", len(out), "status", status, "complete", err == nil)
	return out, err
}

// SalesStats is the shop-wide sales summary.
type SalesStats struct {
	TotalSales  float64
	TotalOrders int
}

// Sales reads the sales report. The endpoint answers with an object or a
// one-element list.
func (c *Client) Sales(ctx context.Context) (SalesStats, error) {
	type report struct {
		TotalSales  amount `json:"total_sales"`
		TotalOrders amount `json:"total_orders"`
	}
	var raw json.RawMessage
	if _, err := c.getJSON(ctx, c.baseURL+wcPath+"/reports/sales", nil, &raw); err != nil {
		return SalesStats{}, err
	}
	var list []report
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return SalesStats{}, fmt.Errorf("decode sales report: %w", err)
		}
	} else {
		var single report
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return SalesStats{}, fmt.Errorf("decode sales report: %w", err)
		}
		list = []report{single}
	}
	if len(list) == 0 {
		return SalesStats{}, nil
	}
	return SalesStats{TotalSales: float64(list[0].TotalSales), TotalOrders: int(list[0].TotalOrders)}, nil
}
