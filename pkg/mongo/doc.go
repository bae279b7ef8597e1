// Package mongo provides MongoDB connection establishment with retry and a
// health check closure. It backs the document-store implementation of the
// two-factor settings repository.
package mongo
