package gorm

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"faas-platform/internal/core/functions"
)

// New opens the registry database and migrates the function schema.
func New(dsn string, lg zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&functions.Function{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	lg.Info().Msg("database connected and migrated")
	return db, nil
}
