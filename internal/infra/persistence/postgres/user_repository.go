package postgres

import (
	"context"
	"time"

	"eventhub/internal/domain/entity"
	domainerrors "eventhub/internal/domain/errors"
	"eventhub/internal/domain/repository"
	"eventhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain's UserRepository interface using GORM.
// Uniqueness of email is enforced by the schema's unique index; dependent
// event_registrations rows are removed by the ON DELETE CASCADE constraint.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	userM := model.FromUserDomain(user)
	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	return nil
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.FindOne(ctx, repository.ByID(id))
}

// FindOne retrieves the first user matching the predicate.
func (repo *userRepository) FindOne(ctx context.Context, query repository.Query) (*entity.User, error) {
	var userM model.UserModel
	err := repo.scoped(ctx, query).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return model.ToUserDomain(&userM), nil
}

// Update merges the patch into the matched record in a single UPDATE
// statement; the store's transaction guarantees make it atomic at the record
// level. The id column is never part of the update set.
func (repo *userRepository) Update(ctx context.Context, query repository.Query, patch repository.Patch) (*entity.User, error) {
	values := patchValues(patch)
	values["updated_at"] = time.Now()

	res := repo.scoped(ctx, query).Model(&model.UserModel{}).Updates(values)
	if res.Error != nil {
		if isUniqueConstraintViolation(res.Error) {
			return nil, domainerrors.ErrEmailTaken.WrapMessage("email already exists")
		}

		return nil, domainerrors.NewDatabaseExecuteError(res.Error, "failed to update user")
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	// The patch may have rewritten the predicate's own column (e.g. email),
	// so re-read through the patched values.
	lookup := query
	if query.Email != nil && patch.Email != nil {
		lookup = repository.ByEmail(*patch.Email)
	}

	return repo.FindOne(ctx, lookup)
}

// Delete removes the matched record. Dependent registration rows go with it
// via the schema's cascade rule.
func (repo *userRepository) Delete(ctx context.Context, query repository.Query) (*entity.User, error) {
	user, err := repo.FindOne(ctx, query)
	if err != nil {
		return nil, err
	}

	res := repo.db.WithContext(ctx).Where("id = ?", user.ID).Delete(&model.UserModel{})
	if res.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete user")
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

// List returns every user matching the predicate.
func (repo *userRepository) List(ctx context.Context, query repository.Query) ([]*entity.User, error) {
	var userMs []model.UserModel
	if err := repo.scoped(ctx, query).Order("created_at").Find(&userMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userMs))
	for i := range userMs {
		users = append(users, model.ToUserDomain(&userMs[i]))
	}

	return users, nil
}

// Count returns the number of users matching the predicate.
func (repo *userRepository) Count(ctx context.Context, query repository.Query) (int64, error) {
	var n int64
	if err := repo.scoped(ctx, query).Model(&model.UserModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}

	return n, nil
}

// Exists reports whether at least one user matches the predicate.
func (repo *userRepository) Exists(ctx context.Context, query repository.Query) (bool, error) {
	n, err := repo.Count(ctx, query)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// scoped translates the domain predicate into WHERE clauses.
func (repo *userRepository) scoped(ctx context.Context, query repository.Query) *gorm.DB {
	tx := repo.db.WithContext(ctx)
	if query.ID != nil {
		tx = tx.Where("id = ?", *query.ID)
	}
	if query.Email != nil {
		tx = tx.Where("email = ?", *query.Email)
	}
	if query.Name != nil {
		tx = tx.Where("name = ?", *query.Name)
	}
	if query.Role != nil {
		tx = tx.Where("role = ?", query.Role.String())
	}

	return tx
}

// patchValues builds the update set from the patch. There is no id key here,
// matching the contract that ids are immutable.
func patchValues(patch repository.Patch) map[string]any {
	values := map[string]any{}
	if patch.Name != nil {
		values["name"] = *patch.Name
	}
	if patch.Email != nil {
		values["email"] = *patch.Email
	}
	if patch.Role != nil {
		values["role"] = patch.Role.String()
	}
	if patch.PasswordHash != nil {
		values["password_hash"] = *patch.PasswordHash
	}

	return values
}
