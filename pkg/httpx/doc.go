// Package httpx provides the JSON response envelope and HTTP error type used
// by the transport layer. Error responses carry a stable kind and a safe
// message; unclassified errors collapse to a generic internal_error so
// internal details never leak to callers.
package httpx
