package rest

import (
	"context"
	"encoding/json"
	"fmt"
)

// QueryResult is one page of SOQL query results. Records are left raw so
// callers can decode them into their own object shapes.
type QueryResult struct {
	TotalSize      int               `json:"totalSize"`
	Done           bool              `json:"done"`
	NextRecordsURL string            `json:"nextRecordsUrl"`
	Records        []json.RawMessage `json:"records"`
}

// queryParams carries the SOQL statement as the q query parameter.
type queryParams struct {
	Q string `url:"q"`
}

// Query executes a SOQL query and returns the first page of results.
func (c *Client) Query(ctx context.Context, soql string, opts Options) (*QueryResult, error) {
	res := Resource{
		Path:   fmt.Sprintf("/services/data/%s/query", c.apiVersion),
		Params: queryParams{Q: soql},
	}

	var result QueryResult
	if err := c.Load(ctx, res, opts, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryNext fetches the next page of a query using the nextRecordsUrl of a
// previous result.
func (c *Client) QueryNext(ctx context.Context, nextRecordsURL string, opts Options) (*QueryResult, error) {
	if nextRecordsURL == "" {
		return nil, fmt.Errorf("no next records URL")
	}

	var result QueryResult
	if err := c.Load(ctx, Resource{Path: nextRecordsURL}, opts, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
