package service

import (
	"context"
	"time"

	"github.com/dtroode/userintake/internal/apierror"
	"github.com/dtroode/userintake/internal/logger"
	"github.com/dtroode/userintake/internal/model"
	"github.com/dtroode/userintake/internal/validation"
)

// createdUserID is returned for every created user; records are not stored.
const createdUserID = 1

// User validates user payloads and builds the created-user response.
type User struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewUser creates User service. A nil clock defaults to time.Now.
func NewUser(logger *logger.Logger, now func() time.Time) *User {
	if now == nil {
		now = time.Now
	}
	return &User{
		logger: logger,
		now:    now,
	}
}

// Create validates payload, a decoded JSON document, and returns the
// normalized user. Client mistakes are reported as *apierror.APIError.
func (s *User) Create(ctx context.Context, payload any) (model.CreatedUser, error) {
	if payload == nil {
		s.logger.WarnContext(ctx, "request received with no JSON body")
		return model.CreatedUser{}, apierror.NewErrBodyRequired()
	}

	valid, reason, user := validation.ValidateUserData(payload)
	if !valid {
		s.logger.WarnContext(ctx, "user validation failed", "reason", reason)
		return model.CreatedUser{}, apierror.NewErrValidation(reason)
	}

	created := model.CreatedUser{
		ID:        createdUserID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: s.now().UTC(),
	}

	s.logger.InfoContext(ctx, "user created", "email", created.Email)

	return created, nil
}
