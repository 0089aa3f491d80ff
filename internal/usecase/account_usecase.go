// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"eventhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string      `json:"name" validate:"omitempty,min=3"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     entity.Role `json:"role" validate:"required,oneof=ORGANIZER ATTENDEE"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateInput carries the account's key (email) plus any subset of mutable
// fields. Nil fields are left untouched.
type UpdateInput struct {
	Email    string       `json:"email" validate:"required,email"`
	Name     *string      `json:"name" validate:"omitempty,min=3"`
	NewEmail *string      `json:"newEmail" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=6"`
	Role     *entity.Role `json:"role" validate:"omitempty,oneof=ORGANIZER ATTENDEE"`
}

// DeleteInput identifies the account to remove.
type DeleteInput struct {
	Email string `json:"email" validate:"required,email"`
}

// --- Output DTOs ---

// UserView is the safe projection of a user returned to clients.
// The password digest never appears here.
type UserView struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name,omitempty"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewUserView maps a domain user to its client-facing projection.
func NewUserView(user *entity.User) *UserView {
	return &UserView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// RegisterOutput returns the newly created account.
type RegisterOutput struct {
	User *UserView
}

// LoginOutput returns the bearer token issued after a successful login.
type LoginOutput struct {
	Token string `json:"token"`
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Update(ctx context.Context, input *UpdateInput) (*UserView, error)
	Delete(ctx context.Context, input *DeleteInput) error
	Profile(ctx context.Context, userID uuid.UUID) (*UserView, error)
}
