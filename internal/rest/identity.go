package rest

import (
	"context"

	"forcectl/internal/auth"
)

// Identity is the identity endpoint's description of the authenticated
// user. Date fields use both the legacy and current server encodings
// depending on org configuration.
type Identity struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	OrgID            string  `json:"organization_id"`
	Username         string  `json:"username"`
	DisplayName      string  `json:"display_name"`
	Email            string  `json:"email"`
	UserType         string  `json:"user_type"`
	Language         *string `json:"language"`
	Locale           *string `json:"locale"`
	MobilePhone      *string `json:"mobile_phone"`
	Photos           *Photos `json:"photos"`
	LastModifiedDate Time    `json:"last_modified_date"`
}

// Photos holds the profile photo URLs from the identity endpoint.
type Photos struct {
	Picture   string `json:"picture"`
	Thumbnail string `json:"thumbnail"`
}

// Identity fetches the authenticated user's identity. The identity endpoint
// lives at the record's identity URL, not under the instance URL, so the
// resource is rebuilt from whichever record the pipeline ends up using.
func (c *Client) Identity(ctx context.Context, opts Options) (*Identity, error) {
	data, err := c.execute(ctx, opts, func(rec *auth.Authorization) Resource {
		return Resource{URL: rec.IdentityURL}
	})
	if err != nil {
		return nil, err
	}

	var identity Identity
	if err := decode(data, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}
