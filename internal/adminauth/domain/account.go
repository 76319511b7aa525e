package domain

import "time"

// Account is an administrator record. Email is the login identifier; NameHash
// is the sha256 of the lowercased email and keys every cache entry and token
// payload so raw addresses never appear in Redis or token material.
type Account struct {
	ID                    string
	Email                 string
	NameHash              string // sha256 hex of lowercased email
	PasswordHash          string // bcrypt encoded
	SecondaryPasswordHash string // bcrypt encoded, step-up credential
	AccountLocked         bool
	TwoFactorEnabled      bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
