package memory

import (
	"context"
	"slices"
	"time"

	"eventhub/internal/domain/entity"
	"eventhub/internal/errors"

	"github.com/google/uuid"
)

// ErrEventNotFound is returned when an event id has no record in the store.
var ErrEventNotFound = errors.New("event not found")

// Event and registration records are the dependent data the user cascade
// operates on. The accessors below mirror the user operations: locked,
// linear-scan, copies out.

// AddEvent stores an event, assigning an id and timestamps when missing.
func (s *Store) AddEvent(ctx context.Context, event *entity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	stored := *event
	stored.Participants = slices.Clone(event.Participants)
	s.events = append(s.events, &stored)

	return nil
}

// AddRegistration stores a registration record referencing a user and event.
func (s *Store) AddRegistration(ctx context.Context, reg *entity.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}

	stored := *reg
	s.registrations = append(s.registrations, &stored)

	return nil
}

// EventByID returns a copy of the event with the given id.
func (s *Store) EventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.events {
		if event.ID == id {
			found := *event
			found.Participants = slices.Clone(event.Participants)
			return &found, nil
		}
	}

	return nil, ErrEventNotFound
}

// RegistrationsByUser returns copies of every registration held by the user.
func (s *Store) RegistrationsByUser(ctx context.Context, userID uuid.UUID) []*entity.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*entity.Registration
	for _, reg := range s.registrations {
		if reg.UserID == userID {
			found := *reg
			matches = append(matches, &found)
		}
	}

	return matches
}
