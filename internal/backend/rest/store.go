package rest

import (
	"context"
	"net/http"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/restapi"
)

func storePath(table, op string) string {
	return "/api/store/" + table + "/" + op
}

func (c *Client) Select(ctx context.Context, table string, filter backend.Filter, order *backend.Order) ([]backend.Row, error) {
	req := restapi.SelectRequest{Filter: filter}
	if order != nil {
		req.Order = &restapi.Order{Column: order.Column, Descending: order.Descending}
	}

	var resp restapi.RowsResponse
	if err := c.do(ctx, http.MethodPost, storePath(table, "select"), req, &resp); err != nil {
		return nil, err
	}

	rows := make([]backend.Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, backend.Row(r))
	}
	return rows, nil
}

func (c *Client) Insert(ctx context.Context, table string, row backend.Row) (backend.Row, error) {
	var resp restapi.RowResponse
	if err := c.do(ctx, http.MethodPost, storePath(table, "insert"), restapi.InsertRequest{Row: row}, &resp); err != nil {
		return nil, err
	}
	return backend.Row(resp.Row), nil
}

func (c *Client) Update(ctx context.Context, table string, patch backend.Row, filter backend.Filter) ([]backend.Row, error) {
	req := restapi.UpdateRequest{Patch: patch, Filter: filter}

	var resp restapi.RowsResponse
	if err := c.do(ctx, http.MethodPost, storePath(table, "update"), req, &resp); err != nil {
		return nil, err
	}

	rows := make([]backend.Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, backend.Row(r))
	}
	return rows, nil
}

func (c *Client) Upsert(ctx context.Context, table string, row backend.Row, conflictKey string) error {
	req := restapi.UpsertRequest{Row: row, ConflictKey: conflictKey}
	return c.do(ctx, http.MethodPost, storePath(table, "upsert"), req, nil)
}

func (c *Client) Delete(ctx context.Context, table string, filter backend.Filter) error {
	return c.do(ctx, http.MethodPost, storePath(table, "delete"), restapi.DeleteRequest{Filter: filter}, nil)
}
