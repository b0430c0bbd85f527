package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/userintake/internal/model"
)

// UserCreator is a mock of model.UserCreator.
type UserCreator struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, payload
func (m *UserCreator) Create(ctx context.Context, payload any) (model.CreatedUser, error) {
	args := m.Called(ctx, payload)

	var user model.CreatedUser
	if v := args.Get(0); v != nil {
		user = v.(model.CreatedUser)
	}
	return user, args.Error(1)
}

// NewUserCreator creates a new UserCreator mock and asserts its expectations
// when the test ends.
func NewUserCreator(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserCreator {
	m := &UserCreator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
