// Package httpapi exposes the two-factor authentication service as a JSON
// HTTP API. All endpoints except the login challenge require an
// authenticated session, presented as a cookie or a bearer token.
package httpapi
