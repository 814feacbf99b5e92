package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// SessionTimeout bounds how long an interactive session waits for the user
// to complete authentication in the browser.
const SessionTimeout = 10 * time.Minute

// Session drives the interactive portion of the user-agent flow. Given an
// authorization URL it returns the redirect URL carrying the authorization
// payload, or an error when the user abandoned or cancelled the session.
type Session interface {
	Authenticate(ctx context.Context, authURL string) (*url.URL, error)
}

// relayPage re-submits the redirect's fragment as query parameters. The
// user-agent flow returns tokens in the fragment, which browsers never send
// over the wire, so a relay is the only way a local process can observe them.
const relayPage = `<!DOCTYPE html>
<html>
<head><title>Signing in</title></head>
<body>
<script>
(function () {
	var h = window.location.hash;
	if (h && h.length > 1) {
		window.location.replace(window.location.pathname + "?" + h.substring(1));
	} else {
		window.location.replace(window.location.pathname + "?error=invalid_request&error_description=empty+fragment");
	}
})();
</script>
</body>
</html>`

// completePage is shown once the payload has been captured.
const completePage = `<!DOCTYPE html>
<html>
<head><title>Signed in</title></head>
<body>
<p>Authentication complete. You can close this window and return to the terminal.</p>
</body>
</html>`

// LoopbackSession is the default Session implementation: it opens the system
// browser at the authorization URL and serves the connected app's callback
// URL from a loopback HTTP server until the redirect arrives.
type LoopbackSession struct {
	callbackURL *url.URL
	openURL     func(string) error
}

// LoopbackOption customizes a LoopbackSession.
type LoopbackOption func(*LoopbackSession)

// WithOpenURL replaces the browser launcher. Used by tests and by callers
// that want to print the URL instead of opening a browser.
func WithOpenURL(open func(string) error) LoopbackOption {
	return func(s *LoopbackSession) {
		s.openURL = open
	}
}

// NewLoopbackSession creates a session bound to the connected app's callback
// URL, which must point at a loopback host so the local server can receive
// the redirect.
func NewLoopbackSession(callbackURL string, opts ...LoopbackOption) (*LoopbackSession, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}
	if u.Scheme != "http" || u.Hostname() == "" {
		return nil, fmt.Errorf("callback URL must be an http loopback address, got %q", callbackURL)
	}

	s := &LoopbackSession{
		callbackURL: u,
		openURL:     OpenBrowser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Authenticate opens the browser and blocks until the redirect arrives, the
// context is cancelled, or the session times out. The returned URL carries
// the authorization payload in its fragment, matching what the authorization
// server sent to the browser.
func (s *LoopbackSession) Authenticate(ctx context.Context, authURL string) (*url.URL, error) {
	listener, err := net.Listen("tcp", s.callbackURL.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on callback address %s: %w", s.callbackURL.Host, err)
	}

	resultCh := make(chan string, 1)
	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc(s.callbackURL.Path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		// First request has no query: the payload is still in the
		// fragment, so serve the relay page. The relayed request
		// carries the payload as query parameters.
		if r.URL.RawQuery == "" {
			_, _ = w.Write([]byte(relayPage))
			return
		}

		_, _ = w.Write([]byte(completePage))
		once.Do(func() {
			resultCh <- r.URL.RawQuery
		})
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := s.openURL(authURL); err != nil {
		return nil, err
	}

	select {
	case payload := <-resultCh:
		// Reassemble the redirect as the browser saw it, with the
		// payload back in the fragment.
		redirect, err := url.Parse(s.callbackURL.String() + "#" + payload)
		if err != nil {
			return nil, &MalformedResponseError{Reason: "relayed payload does not parse"}
		}
		return redirect, nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrAuthorizationCanceled
		}
		return nil, ctx.Err()
	}
}
