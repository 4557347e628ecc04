package database

import "verdant/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM
// models. Migrations and test setup both derive the schema from this list.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Contribution{},
	}
}
