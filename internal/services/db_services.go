package services

import (
	"context"

	"gorm.io/gorm"

	"reportforge/internal/repositories"
)

// DbServices aggregates all domain services backed by the database.
type DbServices struct {
	Templates   TemplateService
	History     HistoryService
	AppSettings AppSettingsService
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	templateRepo := repositories.NewTemplateRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	appSettingsRepo := repositories.NewAppSettingsRepository(db)

	return &DbServices{
		Templates:   NewTemplateService(templateRepo),
		History:     NewHistoryService(historyRepo),
		AppSettings: NewAppSettingsService(appSettingsRepo),
	}
}

// StartDbServices hands the runtime context to every service.
func (s *DbServices) StartDbServices(ctx context.Context) {
	s.Templates.Startup(ctx)
	s.History.Startup(ctx)
	s.AppSettings.Startup(ctx)
}
