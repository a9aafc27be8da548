package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reportforge/internal/models"
	"reportforge/internal/repositories"
)

type TemplateService interface {
	Startup(ctx context.Context)
	GetTemplateInfo(name string) (*models.Template, error)
	ListTemplates(category string) ([]*models.Template, error)
	ListCategories() ([]string, error)
	GetDefaultTemplate() (*models.Template, error)
	SaveTemplate(name, category, content string) (*models.Template, error)
	SetDefaultTemplate(name string) error
	DeleteTemplate(name string) error
}

type templateService struct {
	repo repositories.TemplateRepository
	ctx  context.Context
}

func NewTemplateService(repo repositories.TemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

func (s *templateService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *templateService) GetTemplateInfo(name string) (*models.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("template name is required")
	}
	tmpl, err := s.repo.GetByName(s.ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: get template %q: %w", name, err)
	}
	return tmpl, nil
}

func (s *templateService) ListTemplates(category string) ([]*models.Template, error) {
	list, err := s.repo.GetAll(s.ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("service: list templates: %w", err)
	}
	return list, nil
}

func (s *templateService) ListCategories() ([]string, error) {
	categories, err := s.repo.ListCategories(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list categories: %w", err)
	}
	return categories, nil
}

func (s *templateService) GetDefaultTemplate() (*models.Template, error) {
	tmpl, err := s.repo.GetDefault(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("service: get default template: %w", err)
	}
	return tmpl, nil
}

// SaveTemplate upserts by name: update when the name exists, create otherwise.
// The name itself is immutable.
func (s *templateService) SaveTemplate(name, category, content string) (*models.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("template name is required")
	}
	category = strings.TrimSpace(category)

	_, err := s.repo.GetByName(s.ctx, name)
	switch {
	case err == nil:
		if err := s.repo.Update(s.ctx, name, category, content); err != nil {
			return nil, fmt.Errorf("service: update template %q: %w", name, err)
		}
	case errors.Is(err, repositories.ErrTemplateNotFound):
		tmpl := &models.Template{Name: name, Category: category, Content: content}
		if err := s.repo.Create(s.ctx, tmpl); err != nil {
			return nil, fmt.Errorf("service: create template %q: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("service: save template %q: %w", name, err)
	}

	saved, err := s.repo.GetByName(s.ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: reload template %q: %w", name, err)
	}
	return saved, nil
}

func (s *templateService) SetDefaultTemplate(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("template name is required")
	}
	if err := s.repo.SetDefault(s.ctx, name); err != nil {
		return fmt.Errorf("service: set default template %q: %w", name, err)
	}
	return nil
}

func (s *templateService) DeleteTemplate(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("template name is required")
	}
	if err := s.repo.Delete(s.ctx, name); err != nil {
		return fmt.Errorf("service: delete template %q: %w", name, err)
	}
	return nil
}
