package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"reportforge/internal/models"
	"reportforge/internal/repositories"
)

type AppSettingsService interface {
	Startup(ctx context.Context)
	Get() (*models.AppSettings, error)
	Update(theme, locale, modelName string) (*models.AppSettings, error)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	ctx         context.Context
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{appSettings: appSettings}
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	settings, err := s.appSettings.Get(s.ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(settings.ModelName) == "" {
		settings.ModelName = models.DefaultModelName
	}
	return settings, nil
}

func (s *appSettingsService) Update(theme, locale, modelName string) (*models.AppSettings, error) {
	if theme == "" {
		return nil, errors.New("theme is required")
	}
	if locale == "" {
		return nil, errors.New("locale is required")
	}
	if theme != "light" && theme != "dark" && theme != "system" {
		return nil, errors.New("theme must be 'light', 'dark', or 'system'")
	}
	modelName = strings.TrimSpace(modelName)
	if modelName == "" {
		modelName = models.DefaultModelName
	}

	current, err := s.appSettings.Get(s.ctx)
	if err != nil {
		return nil, err
	}

	current.Theme = theme
	current.Locale = locale
	current.ModelName = modelName
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(s.ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}
