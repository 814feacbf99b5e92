package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"forcectl/internal/auth"
)

// DefaultAPIVersion is the REST API version used when none is configured.
const DefaultAPIVersion = "v46.0"

// Store is the credential lookup surface the pipeline needs.
type Store interface {
	Retrieve(key auth.Key) *auth.Authorization
	LastKey() (auth.Key, bool)
}

// Authorizer obtains a fresh Authorization, interactively if necessary.
type Authorizer interface {
	Authorize(ctx context.Context) (*auth.Authorization, error)
}

// Options adjust how the pipeline executes a single request.
type Options struct {
	// SuppressAuthentication surfaces unauthorized failures immediately
	// instead of triggering interactive authorization. Used for
	// login-probe calls that must never open a browser.
	SuppressAuthentication bool
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// ConsumerKey is the connected app's client identifier; it is part of
	// the credential store key.
	ConsumerKey string

	// APIVersion selects the REST API version, e.g. v46.0.
	APIVersion string

	// User pins the client to an explicit user and organization. When
	// nil, the store's last-used credentials are consulted.
	User *auth.User

	// HTTPClient overrides the transport. Defaults to a retrying client
	// that handles transient network and 5xx failures; authorization
	// failures are never retried at this layer.
	HTTPClient *http.Client
}

// Client is the authenticated request pipeline. It resolves credentials
// from the store, executes validated requests against the instance URL, and
// recovers from a single unauthorized failure by re-authorizing through the
// coordinator and retrying exactly once.
type Client struct {
	consumerKey string
	apiVersion  string
	user        *auth.User
	store       Store
	authorizer  Authorizer
	httpClient  *http.Client
}

// NewClient creates a request pipeline over the given store and authorizer.
func NewClient(cfg ClientConfig, store Store, authorizer Authorizer) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := retryablehttp.NewClient()
		rc.RetryMax = 3
		rc.Logger = nil
		httpClient = rc.StandardClient()
	}

	return &Client{
		consumerKey: cfg.ConsumerKey,
		apiVersion:  apiVersion,
		user:        cfg.User,
		store:       store,
		authorizer:  authorizer,
		httpClient:  httpClient,
	}
}

// Do executes the resource and returns the validated response body.
func (c *Client) Do(ctx context.Context, res Resource, opts Options) ([]byte, error) {
	return c.execute(ctx, opts, func(*auth.Authorization) Resource {
		return res
	})
}

// Load executes the resource and decodes the validated response body into
// target. Decode failures surface as *DecodingError.
func (c *Client) Load(ctx context.Context, res Resource, opts Options, target interface{}) error {
	data, err := c.Do(ctx, res, opts)
	if err != nil {
		return err
	}
	return decode(data, target)
}

// execute runs the pipeline. The resource is built from the effective
// Authorization so resources derived from it (such as the identity
// endpoint) pick up the record obtained by re-authorization.
func (c *Client) execute(ctx context.Context, opts Options, build func(*auth.Authorization) Resource) ([]byte, error) {
	rec := c.authorization()
	if rec == nil {
		if opts.SuppressAuthentication {
			return nil, ErrUnauthorized
		}
		fresh, err := c.authorizer.Authorize(ctx)
		if err != nil {
			return nil, err
		}
		return c.attempt(ctx, build(fresh), fresh)
	}

	data, err := c.attempt(ctx, build(rec), rec)
	if errors.Is(err, ErrUnauthorized) && !opts.SuppressAuthentication {
		slog.Debug("request unauthorized, re-authorizing",
			"user_id", rec.UserID(),
			"org_id", rec.OrgID(),
		)
		fresh, authErr := c.authorizer.Authorize(ctx)
		if authErr != nil {
			return nil, authErr
		}
		// Exactly one retry. A second unauthorized failure is
		// surfaced to the caller unmodified.
		return c.attempt(ctx, build(fresh), fresh)
	}
	return data, err
}

// attempt performs one HTTP round trip and validates the response.
func (c *Client) attempt(ctx context.Context, res Resource, rec *auth.Authorization) ([]byte, error) {
	req, err := res.request(ctx, rec.InstanceURL, rec.AccessToken)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := Validate(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// authorization resolves the current Authorization record: the bound user's
// entry when the client was constructed for an explicit user, otherwise the
// store's last-used entry.
func (c *Client) authorization() *auth.Authorization {
	key, ok := c.key()
	if !ok {
		return nil
	}
	return c.store.Retrieve(key)
}

func (c *Client) key() (auth.Key, bool) {
	if c.user != nil {
		return auth.Key{
			UserID:      c.user.UserID,
			OrgID:       c.user.OrgID,
			ConsumerKey: c.consumerKey,
		}, true
	}
	return c.store.LastKey()
}
