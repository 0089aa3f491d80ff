// Package memory contains an in-process implementation of the persistence
// layer. Records live in ordered slices and every lookup is a linear scan,
// which keeps the store dependency-free and trivially inspectable in tests.
//
// All operations take the store's lock across the whole find+mutate step, so
// check-then-act sequences (unique email on create, update-after-find) cannot
// interleave between concurrent requests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"eventhub/internal/domain/entity"
	domainerrors "eventhub/internal/domain/errors"
	"eventhub/internal/domain/repository"

	"github.com/google/uuid"
)

// Store is an in-memory storage backend owned by the process. It is
// constructed per instance and passed by handle, never held as package state,
// so tests can run against isolated stores.
type Store struct {
	mu            sync.RWMutex
	users         []*entity.User
	events        []*entity.Event
	registrations []*entity.Registration
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// NewUserRepository exposes the store through the domain repository contract.
func NewUserRepository(store *Store) repository.UserRepository {
	return store
}

// Create persists a new user. The email-uniqueness check and the insert
// happen under one write lock, so two concurrent registrations for the same
// email cannot both succeed.
func (s *Store) Create(ctx context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	s.users = append(s.users, &stored)

	return nil
}

// FindByID retrieves a single user by their unique ID.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.FindOne(ctx, repository.ByID(id))
}

// FindOne returns a copy of the first user matching the predicate.
func (s *Store) FindOne(ctx context.Context, query repository.Query) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if query.Matches(user) {
			found := *user
			return &found, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

// Update merges the patch into the first matching user and bumps UpdatedAt.
// The record's id is untouchable: Patch has no ID field. Changing the email
// to one held by another user fails the same way Create does.
func (s *Store) Update(ctx context.Context, query repository.Query, patch repository.Patch) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(query)
	if idx < 0 {
		return nil, repository.ErrUserNotFound
	}

	if patch.Email != nil {
		for i, existing := range s.users {
			if i != idx && existing.Email == *patch.Email {
				return nil, domainerrors.ErrEmailTaken.WrapMessage("email already exists")
			}
		}
	}

	user := s.users[idx]
	patch.Apply(user)
	user.UpdatedAt = time.Now()

	updated := *user
	return &updated, nil
}

// Delete removes the first matching user and cascades: the user's event
// registrations are dropped and their id is stripped from every event's
// participant list.
func (s *Store) Delete(ctx context.Context, query repository.Query) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(query)
	if idx < 0 {
		return nil, repository.ErrUserNotFound
	}

	deleted := *s.users[idx]
	s.users = slices.Delete(s.users, idx, idx+1)

	s.registrations = slices.DeleteFunc(s.registrations, func(reg *entity.Registration) bool {
		return reg.UserID == deleted.ID
	})

	for _, event := range s.events {
		before := len(event.Participants)
		event.Participants = slices.DeleteFunc(event.Participants, func(id uuid.UUID) bool {
			return id == deleted.ID
		})
		if len(event.Participants) != before {
			event.UpdatedAt = time.Now()
		}
	}

	return &deleted, nil
}

// List returns copies of every user matching the predicate, in insertion order.
func (s *Store) List(ctx context.Context, query repository.Query) ([]*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*entity.User
	for _, user := range s.users {
		if query.Matches(user) {
			found := *user
			matches = append(matches, &found)
		}
	}

	return matches, nil
}

// Count returns the number of users matching the predicate.
func (s *Store) Count(ctx context.Context, query repository.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, user := range s.users {
		if query.Matches(user) {
			n++
		}
	}

	return n, nil
}

// Exists reports whether at least one user matches the predicate.
func (s *Store) Exists(ctx context.Context, query repository.Query) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if query.Matches(user) {
			return true, nil
		}
	}

	return false, nil
}

// indexOf finds the first user matching the predicate. Callers hold s.mu.
func (s *Store) indexOf(query repository.Query) int {
	for i, user := range s.users {
		if query.Matches(user) {
			return i
		}
	}

	return -1
}
