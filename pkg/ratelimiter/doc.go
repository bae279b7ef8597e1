// Package ratelimiter implements token bucket rate limiting with pluggable
// storage. It is used to throttle second-factor verification attempts, where
// an unthrottled endpoint would allow online guessing of 6-digit codes.
package ratelimiter
