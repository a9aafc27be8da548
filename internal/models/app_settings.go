package models

import "time"

// DefaultModelName is used when no model has been configured yet.
const DefaultModelName = "doubao-seed-1-6-lite-251015"

type AppSettings struct {
	ID        uint   `gorm:"primaryKey"` // single-row table (ID=1)
	Version   int    `gorm:"not null;default:1"`
	Theme     string `gorm:"not null;default:system"` // "light" | "dark" | "system"
	Locale    string `gorm:"not null"`
	ModelName string `gorm:"size:255;not null"`
	UpdatedAt time.Time
}
