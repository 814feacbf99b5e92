package auth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
)

// refresh exchanges the record's refresh token for a new access token. The
// token endpoint also returns instance_url and id, which may have moved
// since the original authorization, so both are taken from the response when
// present. The refresh token itself is not rotated by the platform; the
// existing one is carried forward unless the response supplies a new one.
func (c *Coordinator) refresh(ctx context.Context, rec *Authorization) (*Authorization, error) {
	if c.cfg.TokenURL == "" {
		return nil, fmt.Errorf("no token endpoint configured")
	}

	if c.cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.cfg.HTTPClient)
	}

	conf := &oauth2.Config{
		ClientID: c.cfg.ConsumerKey,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// An expired placeholder token forces the source to use the refresh
	// grant immediately.
	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: rec.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh grant failed: %w", err)
	}

	fresh := &Authorization{
		AccessToken:  tok.AccessToken,
		InstanceURL:  rec.InstanceURL,
		IdentityURL:  rec.IdentityURL,
		RefreshToken: rec.RefreshToken,
	}
	if v, ok := tok.Extra("instance_url").(string); ok && v != "" {
		fresh.InstanceURL = v
	}
	if v, ok := tok.Extra("id").(string); ok && v != "" {
		fresh.IdentityURL = v
	}
	if tok.RefreshToken != "" {
		fresh.RefreshToken = tok.RefreshToken
	}

	slog.Debug("access token refreshed",
		"user_id", fresh.UserID(),
		"org_id", fresh.OrgID(),
	)

	return fresh, c.persist(fresh)
}
