// Package mongo implements the two-factor settings store on MongoDB.
// Backup-code consumption uses findOneAndUpdate with $pull so the removal
// and the success decision are one atomic document operation.
package mongo
