// Package auth implements the client side of the OAuth2 user-agent flow:
// parsing authorization redirects, persisting credentials per
// (user, organization, connected app), and coordinating interactive and
// refresh-based re-authorization.
//
// The Coordinator is the package's entry point for obtaining credentials.
// It single-flights authorization so that concurrent callers discovering an
// expired session share one browser interaction, and it persists every
// successful authorization into the Store, which is the system of record
// between processes.
//
// Credential files are written with 0600 permissions and token values are
// never logged.
package auth
