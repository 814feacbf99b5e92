package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

// Resource describes one REST endpoint invocation. Path-based resources are
// resolved against the authorization's instance URL; URL-based resources
// (such as the identity endpoint, which lives on a different host) are used
// verbatim.
type Resource struct {
	// Method is the HTTP method; defaults to GET.
	Method string

	// Path is the resource path under the instance URL, e.g.
	// /services/data/v46.0/query.
	Path string

	// URL, when set, is an absolute URL that overrides Path.
	URL string

	// Query holds explicit query parameters.
	Query url.Values

	// Params is an optional struct whose url-tagged fields are encoded as
	// query parameters and merged into Query.
	Params interface{}

	// Body is JSON-encoded as the request body when non-nil.
	Body interface{}

	// Headers holds extra request headers.
	Headers map[string]string
}

// request builds the authenticated HTTP request for the resource.
func (r Resource) request(ctx context.Context, baseURL, accessToken string) (*http.Request, error) {
	target, err := r.targetURL(baseURL)
	if err != nil {
		return nil, err
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// targetURL resolves the resource against the instance URL and encodes its
// query parameters.
func (r Resource) targetURL(baseURL string) (string, error) {
	raw := r.URL
	if raw == "" {
		raw = strings.TrimRight(baseURL, "/") + r.Path
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid resource URL: %w", err)
	}

	values := u.Query()
	for k, vs := range r.Query {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	if r.Params != nil {
		encoded, err := query.Values(r.Params)
		if err != nil {
			return "", fmt.Errorf("failed to encode query parameters: %w", err)
		}
		for k, vs := range encoded {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
	}
	u.RawQuery = values.Encode()

	return u.String(), nil
}
