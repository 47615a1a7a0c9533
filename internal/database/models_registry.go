package database

import (
	"quill/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Follow{},
	}
}

// Migrate applies the schema for every persistent model and the full-text
// search index over posts on PostgreSQL.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		return db.Exec(
			`CREATE INDEX IF NOT EXISTS idx_posts_fulltext ON posts ` +
				`USING GIN (to_tsvector('english', title || ' ' || body))`,
		).Error
	}
	return nil
}
