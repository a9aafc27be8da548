package models

import "time"

// SystemTemplateName is the seeded template that guarantees the repository
// always has exactly one default. It can never be deleted.
const SystemTemplateName = "Default Report Template"

type Template struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;unique" json:"name"`
	Category  string    `gorm:"size:255;not null" json:"category"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}
