// Package redis provides Redis connection establishment with retry and a
// health check closure. The service uses Redis for the ephemeral
// pending-setup store, where key TTLs enforce enrollment expiry.
package redis
