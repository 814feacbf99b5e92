// Package rest implements the authenticated request pipeline: it turns a
// Resource descriptor into validated, decoded data while transparently
// handling credential lookup, token expiry and the platform's error
// taxonomy.
//
// A Client resolves the current Authorization from the credential store,
// executes the request against the instance URL, and classifies the
// response through Validate. When the server rejects the credential, the
// pipeline re-authorizes through its Authorizer and retries exactly once;
// callers that must never trigger interactive authentication set
// Options.SuppressAuthentication.
package rest
