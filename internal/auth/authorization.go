package auth

import (
	"net/url"
	"path"
)

// Authorization holds the result of a successful OAuth2 user-agent flow.
// All four fields are produced by a single authorization event; the user and
// organization IDs are derived from the identity URL rather than stored.
type Authorization struct {
	// AccessToken is the bearer credential for API calls.
	AccessToken string `json:"access_token"`

	// InstanceURL is the base endpoint for API requests.
	InstanceURL string `json:"instance_url"`

	// IdentityURL encodes the user ID (last path segment) and the
	// organization ID (second-to-last path segment).
	IdentityURL string `json:"id"`

	// RefreshToken is present only if the connected app's scope grants
	// offline access.
	RefreshToken string `json:"refresh_token,omitempty"`
}

// UserID returns the user ID encoded in the identity URL.
func (a Authorization) UserID() string {
	u, err := url.Parse(a.IdentityURL)
	if err != nil {
		return ""
	}
	return path.Base(u.Path)
}

// OrgID returns the organization ID encoded in the identity URL.
func (a Authorization) OrgID() string {
	u, err := url.Parse(a.IdentityURL)
	if err != nil {
		return ""
	}
	return path.Base(path.Dir(u.Path))
}

// ParseAuthorizationURL builds an Authorization from the redirect URL
// produced by the user-agent flow. The authorization payload is carried in
// the URL fragment; when a relay has already re-submitted the fragment as a
// query string, the query is used instead. Returns a *MalformedResponseError
// unless access_token, a parseable instance_url and a parseable id are all
// present. When a parameter is duplicated, the first occurrence wins.
func ParseAuthorizationURL(redirect string) (*Authorization, error) {
	u, err := url.Parse(redirect)
	if err != nil {
		return nil, &MalformedResponseError{Reason: "redirect URL does not parse"}
	}

	values, err := payloadValues(u)
	if err != nil {
		return nil, &MalformedResponseError{Reason: "authorization payload does not parse as query parameters"}
	}

	accessToken := values.Get("access_token")
	if accessToken == "" {
		return nil, &MalformedResponseError{Reason: "missing access_token"}
	}

	instanceURL := values.Get("instance_url")
	if parsed, err := url.Parse(instanceURL); err != nil || !parsed.IsAbs() {
		return nil, &MalformedResponseError{Reason: "missing or invalid instance_url"}
	}

	identityURL := values.Get("id")
	if parsed, err := url.Parse(identityURL); err != nil || !parsed.IsAbs() {
		return nil, &MalformedResponseError{Reason: "missing or invalid id"}
	}

	return &Authorization{
		AccessToken:  accessToken,
		InstanceURL:  instanceURL,
		IdentityURL:  identityURL,
		RefreshToken: values.Get("refresh_token"),
	}, nil
}

// payloadValues extracts the authorization parameters from a redirect URL,
// preferring the fragment over the query string.
func payloadValues(u *url.URL) (url.Values, error) {
	if u.EscapedFragment() != "" {
		return url.ParseQuery(u.EscapedFragment())
	}
	return url.ParseQuery(u.RawQuery)
}
