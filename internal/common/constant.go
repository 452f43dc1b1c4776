// Package common contains constants, sentinel errors and small helpers shared
// by the client and the dev server.
package common

const (
	// RequestIDHeaderName carries the per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// AuthorizationHeaderName carries the bearer access token on /invoke.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
)
