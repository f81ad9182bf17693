// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
//
// The `db:"..."` tags are read by sqlx when scanning rows; the `json:"..."`
// tags shape the HTTP API.
package model

import "time"

// User represents a registered account.
//
// Email is stored lower-cased and is UNIQUE in the users table.
// PasswordHash holds the full bcrypt output and is never serialised: the
// `json:"-"` tag keeps it out of every API response.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Owned is implemented by every row that belongs to a user.
// The service layer's access guard compares OwnerID to the caller.
type Owned interface {
	OwnerID() string
}
