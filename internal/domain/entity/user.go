// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a single account.
// Email is the natural business key and is unique across all users.
type User struct {
	ID           uuid.UUID // The unique identifier for the user. Assigned at creation, never reassigned.
	Name         string    // The user's display name. Optional.
	Email        string    // The user's email address, used as the login identifier.
	PasswordHash string    // The bcrypt-hashed password. Plaintext never lives here.
	Role         Role      // The user's role on the platform.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}
