package domain

import (
	"strings"
	"time"
)

type ID string

type User struct {
	ID           ID
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// NormalizeEmail is applied before every store write and lookup so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
