// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"eventhub/internal/domain/entity"
	"eventhub/internal/errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// Query is an equality predicate over user fields. A nil field does not
// constrain the match, so the zero Query matches every user.
type Query struct {
	ID    *uuid.UUID
	Email *string
	Name  *string
	Role  *entity.Role
}

// ByID builds a predicate matching a single user by id.
func ByID(id uuid.UUID) Query {
	return Query{ID: &id}
}

// ByEmail builds a predicate matching a single user by email.
func ByEmail(email string) Query {
	return Query{Email: &email}
}

// Matches reports whether the user satisfies every constrained field.
func (q Query) Matches(user *entity.User) bool {
	if q.ID != nil && *q.ID != user.ID {
		return false
	}
	if q.Email != nil && *q.Email != user.Email {
		return false
	}
	if q.Name != nil && *q.Name != user.Name {
		return false
	}
	if q.Role != nil && *q.Role != user.Role {
		return false
	}

	return true
}

// Patch carries the mutable user fields for an update. There is deliberately
// no ID field: the id of a record can never be rewritten through an update.
type Patch struct {
	Name         *string
	Email        *string
	Role         *entity.Role
	PasswordHash *string
}

// Apply merges the patch into the user in place.
func (p Patch) Apply(user *entity.User) {
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.Role != nil {
		user.Role = *p.Role
	}
	if p.PasswordHash != nil {
		user.PasswordHash = *p.PasswordHash
	}
}

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, never on a concrete backend,
// so the in-memory and relational stores are interchangeable.
//
// Uniqueness of the email column is enforced by the backend itself: Create
// fails with domainerrors.ErrEmailTaken when the email is already present,
// atomically with the insert. Callers must not pre-check.
type UserRepository interface {
	// Create persists a new user. A zero ID and zero timestamps are filled in
	// by the store before the insert.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindOne retrieves the first user matching the predicate, or ErrUserNotFound.
	FindOne(ctx context.Context, query Query) (*entity.User, error)

	// Update merges the patch into the first user matching the predicate and
	// bumps UpdatedAt. Returns the updated user, or ErrUserNotFound.
	Update(ctx context.Context, query Query, patch Patch) (*entity.User, error)

	// Delete removes the first user matching the predicate along with any
	// dependent records (event registrations, participant list entries).
	// Returns the deleted user, or ErrUserNotFound.
	Delete(ctx context.Context, query Query) (*entity.User, error)

	// List returns every user matching the predicate; all users for the zero Query.
	List(ctx context.Context, query Query) ([]*entity.User, error)

	// Count returns the number of users matching the predicate.
	Count(ctx context.Context, query Query) (int64, error)

	// Exists reports whether at least one user matches the predicate.
	Exists(ctx context.Context, query Query) (bool, error)
}
