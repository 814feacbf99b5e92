package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// User pins a client to an explicit user and organization instead of the
// store's last-used credentials.
type User struct {
	UserID string
	OrgID  string
}

// CoordinatorConfig configures an authorization Coordinator.
type CoordinatorConfig struct {
	// ConsumerKey is the connected app's client identifier.
	ConsumerKey string

	// AuthorizationURL is the authorization endpoint, e.g.
	// https://login.salesforce.com/services/oauth2/authorize.
	AuthorizationURL string

	// TokenURL is the token endpoint used for the refresh grant.
	TokenURL string

	// CallbackURL is the connected app's registered redirect URL.
	CallbackURL string

	// Scopes requested during interactive authorization. Include
	// refresh_token to receive offline access.
	Scopes []string

	// User, when set, selects whose stored credentials the refresh grant
	// starts from. Defaults to the store's last-used credentials.
	User *User

	// Session overrides the interactive browser session. Defaults to a
	// LoopbackSession on the callback URL.
	Session Session

	// HTTPClient is an optional custom HTTP client for the refresh grant.
	HTTPClient *http.Client
}

// Coordinator drives authorization for one client instance. Concurrent
// Authorize calls are single-flighted: at most one interactive browser
// session is outstanding at a time, and every waiter receives the result of
// that one session.
type Coordinator struct {
	cfg     CoordinatorConfig
	store   *Store
	session Session
	group   singleflight.Group
}

// NewCoordinator creates a Coordinator persisting results into store.
func NewCoordinator(cfg CoordinatorConfig, store *Store) (*Coordinator, error) {
	if cfg.ConsumerKey == "" {
		return nil, fmt.Errorf("consumer key is required")
	}

	session := cfg.Session
	if session == nil {
		var err error
		session, err = NewLoopbackSession(cfg.CallbackURL)
		if err != nil {
			return nil, err
		}
	}

	return &Coordinator{
		cfg:     cfg,
		store:   store,
		session: session,
	}, nil
}

// Authorize obtains a fresh Authorization, trying the refresh grant first
// and falling back to the interactive browser session. The session runs on
// its own deadline: cancelling one waiter's context abandons that caller's
// wait without aborting the session other waiters share.
func (c *Coordinator) Authorize(ctx context.Context) (*Authorization, error) {
	ch := c.group.DoChan("authorize", func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.Background(), SessionTimeout)
		defer cancel()
		return c.authorize(flightCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Authorization), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// authorize performs one authorization attempt end to end.
func (c *Coordinator) authorize(ctx context.Context) (*Authorization, error) {
	if rec := c.current(); rec != nil && rec.RefreshToken != "" {
		fresh, err := c.refresh(ctx, rec)
		if err == nil {
			return fresh, nil
		}
		slog.Debug("refresh grant failed, falling back to interactive authorization",
			"error", err.Error(),
		)
	}

	state := uuid.NewString()
	authURL, err := c.buildAuthorizationURL(state)
	if err != nil {
		return nil, err
	}

	redirect, err := c.session.Authenticate(ctx, authURL)
	if err != nil {
		return nil, err
	}

	values, err := payloadValues(redirect)
	if err != nil {
		return nil, &MalformedResponseError{Reason: "authorization payload does not parse as query parameters"}
	}
	if errCode := values.Get("error"); errCode != "" {
		if errCode == "access_denied" {
			return nil, ErrAuthorizationCanceled
		}
		return nil, fmt.Errorf("authorization failed: %s: %s", errCode, values.Get("error_description"))
	}
	if values.Get("state") != state {
		return nil, &MalformedResponseError{Reason: "state mismatch"}
	}

	rec, err := ParseAuthorizationURL(redirect.String())
	if err != nil {
		return nil, err
	}

	return rec, c.persist(rec)
}

// persist saves the record under its derived key. A persistence failure is
// logged but does not fail authorization: the record is still valid for the
// current process.
func (c *Coordinator) persist(rec *Authorization) error {
	key := Key{UserID: rec.UserID(), OrgID: rec.OrgID(), ConsumerKey: c.cfg.ConsumerKey}
	if err := c.store.Save(key, rec); err != nil {
		slog.Warn("failed to persist authorization",
			"user_id", key.UserID,
			"org_id", key.OrgID,
			"error", err.Error(),
		)
	}
	return nil
}

// current returns the stored record the coordinator would refresh, if any.
func (c *Coordinator) current() *Authorization {
	key, ok := c.currentKey()
	if !ok {
		return nil
	}
	return c.store.Retrieve(key)
}

func (c *Coordinator) currentKey() (Key, bool) {
	if c.cfg.User != nil {
		return Key{
			UserID:      c.cfg.User.UserID,
			OrgID:       c.cfg.User.OrgID,
			ConsumerKey: c.cfg.ConsumerKey,
		}, true
	}
	return c.store.LastKey()
}

// buildAuthorizationURL constructs the user-agent flow authorization URL.
func (c *Coordinator) buildAuthorizationURL(state string) (string, error) {
	u, err := url.Parse(c.cfg.AuthorizationURL)
	if err != nil {
		return "", fmt.Errorf("invalid authorization URL: %w", err)
	}

	params := url.Values{
		"response_type": {"token"},
		"client_id":     {c.cfg.ConsumerKey},
		"redirect_uri":  {c.cfg.CallbackURL},
		"state":         {state},
	}
	if len(c.cfg.Scopes) > 0 {
		params.Set("scope", strings.Join(c.cfg.Scopes, " "))
	}

	u.RawQuery = params.Encode()
	return u.String(), nil
}
