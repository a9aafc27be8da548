package models

import "time"

// HistoryRecord stores one completed generation. Template and work content are
// copied by value so editing or deleting a template never touches past records.
type HistoryRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TemplateContent string    `gorm:"type:text;not null" json:"templateContent"`
	WorkContent     string    `gorm:"type:text;not null" json:"workContent"`
	ReportContent   string    `gorm:"type:text;not null" json:"reportContent"`
	CreatedAt       time.Time `json:"createdAt"`
}
