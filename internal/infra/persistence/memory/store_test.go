package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain/entity"
	domainerrors "eventhub/internal/domain/errors"
	"eventhub/internal/domain/repository"
)

func seedUser(t *testing.T, store *Store, name, email string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, store.Create(context.Background(), user))
	require.NotEqual(t, uuid.Nil, user.ID)

	return user
}

func TestStore_Create_AssignsIDAndTimestamps(t *testing.T) {
	store := NewStore()
	user := seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)

	err := store.Create(ctx, &entity.User{
		Name:         "Another Ann",
		Email:        "ann@x.com",
		PasswordHash: "other",
		Role:         entity.RoleOrganizer,
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrEmailTaken.ErrorCode(), appErr.ErrorCode())

	count, err := store.Count(ctx, repository.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_Create_ConcurrentSameEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const attempts = 32
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Create(ctx, &entity.User{
				Name:         fmt.Sprintf("Racer %d", i),
				Email:        "race@x.com",
				PasswordHash: "hash",
				Role:         entity.RoleAttendee,
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	count, err := store.Count(ctx, repository.ByEmail("race@x.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_FindOne(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)

	byEmail, err := store.FindOne(ctx, repository.ByEmail("ann@x.com"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", byID.Email)

	_, err = store.FindOne(ctx, repository.ByEmail("ghost@x.com"))
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStore_FindOne_ReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)

	first, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	first.Name = "Mutated"

	again, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name)
}

func TestStore_FindOne_MultiFieldPredicate(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)
	bob := seedUser(t, store, "Bob", "bob@x.com", entity.RoleOrganizer)

	role := entity.RoleOrganizer
	name := "Bob"
	found, err := store.FindOne(ctx, repository.Query{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, found.ID)

	wrongRole := entity.RoleAttendee
	_, err = store.FindOne(ctx, repository.Query{Name: &name, Role: &wrongRole})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStore_Update(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)

	newName := "Ann Lee"
	newEmail := "ann.lee@x.com"
	updated, err := store.Update(ctx, repository.ByEmail("ann@x.com"), repository.Patch{
		Name:  &newName,
		Email: &newEmail,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.Equal(t, "ann.lee@x.com", updated.Email)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = store.FindOne(ctx, repository.ByEmail("ann@x.com"))
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStore_Update_NotFound(t *testing.T) {
	store := NewStore()

	name := "Ghost"
	_, err := store.Update(context.Background(), repository.ByEmail("ghost@x.com"), repository.Patch{Name: &name})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStore_Update_EmailHeldByAnotherUser(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)
	seedUser(t, store, "Bob", "bob@x.com", entity.RoleOrganizer)

	taken := "ann@x.com"
	_, err := store.Update(ctx, repository.ByEmail("bob@x.com"), repository.Patch{Email: &taken})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrEmailTaken.ErrorCode(), appErr.ErrorCode())

	// Re-submitting your own email is not a conflict.
	own := "bob@x.com"
	_, err = store.Update(ctx, repository.ByEmail("bob@x.com"), repository.Patch{Email: &own})
	assert.NoError(t, err)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)

	deleted, err := store.Delete(ctx, repository.ByEmail("ann@x.com"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = store.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	// A second delete for the same user reports not found.
	_, err = store.Delete(ctx, repository.ByEmail("ann@x.com"))
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestStore_Delete_CascadesDependentRecords(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	ann := seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)
	bob := seedUser(t, store, "Bob", "bob@x.com", entity.RoleAttendee)
	organizer := seedUser(t, store, "Olga", "olga@x.com", entity.RoleOrganizer)

	event := &entity.Event{
		Title:        "Launch Party",
		OrganizerID:  organizer.ID,
		Participants: []uuid.UUID{ann.ID, bob.ID},
	}
	require.NoError(t, store.AddEvent(ctx, event))
	require.NoError(t, store.AddRegistration(ctx, &entity.Registration{EventID: event.ID, UserID: ann.ID}))
	require.NoError(t, store.AddRegistration(ctx, &entity.Registration{EventID: event.ID, UserID: bob.ID}))

	_, err := store.Delete(ctx, repository.ByID(ann.ID))
	require.NoError(t, err)

	assert.Empty(t, store.RegistrationsByUser(ctx, ann.ID))
	assert.Len(t, store.RegistrationsByUser(ctx, bob.ID), 1)

	got, err := store.EventByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.ID}, got.Participants)
}

func TestStore_ListCountExists(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	seedUser(t, store, "Ann", "ann@x.com", entity.RoleAttendee)
	seedUser(t, store, "Bob", "bob@x.com", entity.RoleOrganizer)
	seedUser(t, store, "Cid", "cid@x.com", entity.RoleAttendee)

	all, err := store.List(ctx, repository.Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ann@x.com", all[0].Email)

	role := entity.RoleAttendee
	attendees, err := store.List(ctx, repository.Query{Role: &role})
	require.NoError(t, err)
	assert.Len(t, attendees, 2)

	count, err := store.Count(ctx, repository.Query{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	exists, err := store.Exists(ctx, repository.ByEmail("bob@x.com"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, repository.ByEmail("ghost@x.com"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_EventByID_NotFound(t *testing.T) {
	store := NewStore()

	_, err := store.EventByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}
