package model

import (
	"context"
	"time"
)

// UserCreator validates a decoded request payload and builds the user record
// returned to the client.
type UserCreator interface {
	Create(ctx context.Context, payload any) (CreatedUser, error)
}

// ValidatedUser is a POST /users payload that passed validation, with email trimmed and
// lower-cased and name trimmed.
type ValidatedUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreatedUser is the record echoed back after a successful create.
type CreatedUser struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
