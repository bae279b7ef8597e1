// Package memory provides in-memory implementations of the storage
// contracts for tests and local development.
package memory
