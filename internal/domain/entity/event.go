package entity

import (
	"time"

	"github.com/google/uuid"
)

// Event is an event hosted by an organizer. Participants holds the IDs of
// users currently taking part; deleting a user strips them from this list.
type Event struct {
	ID           uuid.UUID
	Title        string
	OrganizerID  uuid.UUID
	Participants []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration records that a user signed up for an event. Registrations are
// dependent records: they are removed when the referenced user is deleted.
type Registration struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}
