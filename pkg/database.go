package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TMS-2025/proposal-service/internal/config"
	"github.com/TMS-2025/proposal-service/internal/models"
)

// InitDatabase opens the postgres connection and migrates the schema.
// TranslateError turns driver unique-violation errors into
// gorm.ErrDuplicatedKey, which the repositories rely on.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Lecturer{},
		&models.Student{},
		&models.Proposal{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}
