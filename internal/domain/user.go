package domain

import "time"

// User is the domain entity for a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	JoinedAt     time.Time
}
