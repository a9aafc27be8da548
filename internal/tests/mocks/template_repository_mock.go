package mocks

import (
	"context"

	"reportforge/internal/models"
)

type TemplateRepositoryMock struct {
	GetByNameFunc      func(ctx context.Context, name string) (*models.Template, error)
	GetAllFunc         func(ctx context.Context, category string) ([]*models.Template, error)
	GetDefaultFunc     func(ctx context.Context) (*models.Template, error)
	ListCategoriesFunc func(ctx context.Context) ([]string, error)
	CreateFunc         func(ctx context.Context, template *models.Template) error
	UpdateFunc         func(ctx context.Context, name, category, content string) error
	SetDefaultFunc     func(ctx context.Context, name string) error
	DeleteFunc         func(ctx context.Context, name string) error
}

func (m *TemplateRepositoryMock) GetByName(ctx context.Context, name string) (*models.Template, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *TemplateRepositoryMock) GetAll(ctx context.Context, category string) ([]*models.Template, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, category)
	}
	return []*models.Template{}, nil
}

func (m *TemplateRepositoryMock) GetDefault(ctx context.Context) (*models.Template, error) {
	if m.GetDefaultFunc != nil {
		return m.GetDefaultFunc(ctx)
	}
	return nil, nil
}

func (m *TemplateRepositoryMock) ListCategories(ctx context.Context) ([]string, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return []string{}, nil
}

func (m *TemplateRepositoryMock) Create(ctx context.Context, template *models.Template) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, template)
	}
	return nil
}

func (m *TemplateRepositoryMock) Update(ctx context.Context, name, category, content string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, name, category, content)
	}
	return nil
}

func (m *TemplateRepositoryMock) SetDefault(ctx context.Context, name string) error {
	if m.SetDefaultFunc != nil {
		return m.SetDefaultFunc(ctx, name)
	}
	return nil
}

func (m *TemplateRepositoryMock) Delete(ctx context.Context, name string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name)
	}
	return nil
}
