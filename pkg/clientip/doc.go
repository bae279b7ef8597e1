// Package clientip extracts the originating client IP from HTTP requests,
// looking through common proxy headers before falling back to the socket
// address. Used to key rate limiting of verification attempts.
package clientip
