package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
)

func TestResource_TargetURL(t *testing.T) {
	cases := []struct {
		name     string
		resource Resource
		baseURL  string
		want     string
	}{
		{
			name:     "path against instance",
			resource: Resource{Path: "/services/data/v46.0/limits"},
			baseURL:  "https://na1.salesforce.com",
			want:     "https://na1.salesforce.com/services/data/v46.0/limits",
		},
		{
			name:     "trailing slash trimmed",
			resource: Resource{Path: "/services/data/v46.0/limits"},
			baseURL:  "https://na1.salesforce.com/",
			want:     "https://na1.salesforce.com/services/data/v46.0/limits",
		},
		{
			name:     "absolute url overrides path",
			resource: Resource{URL: "https://login.salesforce.com/id/org/user", Path: "/ignored"},
			baseURL:  "https://na1.salesforce.com",
			want:     "https://login.salesforce.com/id/org/user",
		},
		{
			name: "explicit query parameters",
			resource: Resource{
				Path:  "/services/data/v46.0/query",
				Query: url.Values{"q": {"SELECT Id FROM Account"}},
			},
			baseURL: "https://na1.salesforce.com",
			want:    "https://na1.salesforce.com/services/data/v46.0/query?q=SELECT+Id+FROM+Account",
		},
		{
			name: "params struct encoded",
			resource: Resource{
				Path:   "/services/data/v46.0/query",
				Params: queryParams{Q: "SELECT Id FROM Account"},
			},
			baseURL: "https://na1.salesforce.com",
			want:    "https://na1.salesforce.com/services/data/v46.0/query?q=SELECT+Id+FROM+Account",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.resource.targetURL(tc.baseURL)
			if err != nil {
				t.Fatalf("Failed to resolve target URL: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResource_Request(t *testing.T) {
	res := Resource{
		Path:    "/services/data/v46.0/sobjects/Account",
		Method:  http.MethodPost,
		Body:    map[string]string{"Name": "Acme"},
		Headers: map[string]string{"Sforce-Query-Options": "batchSize=200"},
	}

	req, err := res.request(context.Background(), "https://na1.salesforce.com", "secret-token")
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if req.Method != http.MethodPost {
		t.Errorf("Expected POST, got %s", req.Method)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer secret-token" {
		t.Errorf("Expected bearer authorization header, got %q", got)
	}
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Errorf("Expected JSON accept header, got %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected JSON content type for body-carrying request, got %q", got)
	}
	if got := req.Header.Get("Sforce-Query-Options"); got != "batchSize=200" {
		t.Errorf("Expected custom header to pass through, got %q", got)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("Failed to read request body: %v", err)
	}
	if string(body) != `{"Name":"Acme"}` {
		t.Errorf("Expected JSON-encoded body, got %s", body)
	}
}

func TestResource_RequestDefaults(t *testing.T) {
	req, err := Resource{Path: "/services/data/v46.0/limits"}.request(context.Background(), "https://na1.salesforce.com", "tok")
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}

	if req.Method != http.MethodGet {
		t.Errorf("Expected GET by default, got %s", req.Method)
	}
	if got := req.Header.Get("Content-Type"); got != "" {
		t.Errorf("Expected no content type without a body, got %q", got)
	}
}
