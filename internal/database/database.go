package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reportforge/internal/models"
)

// Config holds DB configuration
type Config struct {
	Path     string
	LogLevel logger.LogLevel
}

// seedTemplateContent is the body of the system default template created on
// first run.
const seedTemplateContent = "### Today's Work\n{work_content}\n### Summary\n{summary}"

// Init opens a SQLite DB, runs migrations and seeds the system default template.
func Init(cfg Config) (*gorm.DB, error) {
	if cfg.Path == "" {
		cfg.Path = GetDefaultDBPath()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", cfg.Path)

	gormLogger := logger.New(
		log.New(loggerWriter{}, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Configure connection pool for SQLite to prevent "database is locked" errors
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := migrate(db); err != nil {
		return nil, err
	}

	if err := seedSystemTemplate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// migrate runs all automigrations. Keep the model list in one place.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Template{},
		&models.HistoryRecord{},
		&models.AppSettings{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// seedSystemTemplate creates the system default template on first run and,
// when the default flag has gone missing, restores it onto the system template.
// Existing is_default marks are never overwritten.
func seedSystemTemplate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Template{}).
			Where("name = ?", models.SystemTemplateName).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking system template: %w", err)
		}
		if count == 0 {
			seed := models.Template{
				Name:      models.SystemTemplateName,
				Category:  "General",
				Content:   seedTemplateContent,
				IsDefault: true,
			}
			if err := tx.Create(&seed).Error; err != nil {
				return fmt.Errorf("seeding system template: %w", err)
			}
			return nil
		}

		var defaults int64
		if err := tx.Model(&models.Template{}).
			Where("is_default = ?", true).
			Count(&defaults).Error; err != nil {
			return fmt.Errorf("checking default flag: %w", err)
		}
		if defaults == 0 {
			if err := tx.Model(&models.Template{}).
				Where("name = ?", models.SystemTemplateName).
				Update("is_default", true).Error; err != nil {
				return fmt.Errorf("restoring default flag: %w", err)
			}
		}
		return nil
	})
}

// loggerWriter satisfies io.Writer for GORM logger but delegates to std log.Printf
type loggerWriter struct{}

func (loggerWriter) Write(p []byte) (int, error) {
	log.Printf("%s", p)
	return len(p), nil
}
