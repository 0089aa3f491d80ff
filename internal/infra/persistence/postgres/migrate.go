package postgres

import (
	"eventhub/internal/errors"
	"eventhub/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// AutoMigrate reconciles the schema with the persistence models. The unique
// index on users.email and the ON DELETE CASCADE constraints on
// event_registrations come from the model tags.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.EventModel{},
		&model.RegistrationModel{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}
