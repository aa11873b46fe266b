package models

import "time"

// User is an account able to own files. It is immutable after registration.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
