package unit_tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportforge/internal/models"
	"reportforge/internal/repositories"
	"reportforge/internal/services"
	"reportforge/internal/tests/mocks"
)

func TestTemplateService_SaveTemplate_CreatesWhenMissing(t *testing.T) {
	var created *models.Template
	calls := 0
	mockRepo := &mocks.TemplateRepositoryMock{
		GetByNameFunc: func(ctx context.Context, name string) (*models.Template, error) {
			calls++
			if calls == 1 {
				return nil, fmt.Errorf("template %q: %w", name, repositories.ErrTemplateNotFound)
			}
			return created, nil
		},
		CreateFunc: func(ctx context.Context, tmpl *models.Template) error {
			tmpl.ID = 7
			created = tmpl
			return nil
		},
	}
	service := services.NewTemplateService(mockRepo)
	service.Startup(context.Background())

	result, err := service.SaveTemplate("Weekly", "Reports", "## Weekly")
	require.NoError(t, err)
	assert.Equal(t, uint(7), result.ID)
	assert.Equal(t, "Weekly", result.Name)
	assert.Equal(t, "Reports", result.Category)
}

func TestTemplateService_SaveTemplate_UpdatesWhenPresent(t *testing.T) {
	updated := false
	mockRepo := &mocks.TemplateRepositoryMock{
		GetByNameFunc: func(ctx context.Context, name string) (*models.Template, error) {
			content := "old"
			if updated {
				content = "new"
			}
			return &models.Template{ID: 3, Name: name, Content: content}, nil
		},
		UpdateFunc: func(ctx context.Context, name, category, content string) error {
			updated = true
			return nil
		},
		CreateFunc: func(ctx context.Context, tmpl *models.Template) error {
			t.Fatal("create must not be called for an existing name")
			return nil
		},
	}
	service := services.NewTemplateService(mockRepo)
	service.Startup(context.Background())

	result, err := service.SaveTemplate("Weekly", "", "new")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "new", result.Content)
}

func TestTemplateService_SaveTemplate_EmptyName(t *testing.T) {
	service := services.NewTemplateService(&mocks.TemplateRepositoryMock{})
	service.Startup(context.Background())

	_, err := service.SaveTemplate("   ", "", "content")
	assert.Error(t, err)
}

func TestTemplateService_SaveTemplate_DuplicateRace(t *testing.T) {
	mockRepo := &mocks.TemplateRepositoryMock{
		GetByNameFunc: func(ctx context.Context, name string) (*models.Template, error) {
			return nil, fmt.Errorf("template %q: %w", name, repositories.ErrTemplateNotFound)
		},
		CreateFunc: func(ctx context.Context, tmpl *models.Template) error {
			return fmt.Errorf("template %q: %w", tmpl.Name, repositories.ErrDuplicateName)
		},
	}
	service := services.NewTemplateService(mockRepo)
	service.Startup(context.Background())

	_, err := service.SaveTemplate("Weekly", "", "content")
	assert.ErrorIs(t, err, repositories.ErrDuplicateName)
}

func TestTemplateService_GetDefaultTemplate(t *testing.T) {
	mockRepo := &mocks.TemplateRepositoryMock{
		GetDefaultFunc: func(ctx context.Context) (*models.Template, error) {
			return &models.Template{Name: models.SystemTemplateName, IsDefault: true}, nil
		},
	}
	service := services.NewTemplateService(mockRepo)
	service.Startup(context.Background())

	result, err := service.GetDefaultTemplate()
	require.NoError(t, err)
	assert.Equal(t, models.SystemTemplateName, result.Name)
}

func TestTemplateService_SetDefaultTemplate_PropagatesError(t *testing.T) {
	mockRepo := &mocks.TemplateRepositoryMock{
		SetDefaultFunc: func(ctx context.Context, name string) error {
			return fmt.Errorf("template %q: %w", name, repositories.ErrSetDefaultFailed)
		},
	}
	service := services.NewTemplateService(mockRepo)
	service.Startup(context.Background())

	err := service.SetDefaultTemplate("missing")
	assert.ErrorIs(t, err, repositories.ErrSetDefaultFailed)
}

func TestTemplateService_DeleteTemplate_Protected(t *testing.T) {
	mockRepo := &mocks.TemplateRepositoryMock{
		DeleteFunc: func(ctx context.Context, name string) error {
			return repositories.ErrProtectedTemplate
		},
	}
	service := services.NewTemplateService(mockRepo)
	service.Startup(context.Background())

	err := service.DeleteTemplate(models.SystemTemplateName)
	assert.ErrorIs(t, err, repositories.ErrProtectedTemplate)
}

func TestTemplateService_GetTemplateInfo_EmptyName(t *testing.T) {
	service := services.NewTemplateService(&mocks.TemplateRepositoryMock{})
	service.Startup(context.Background())

	_, err := service.GetTemplateInfo("")
	assert.Error(t, err)
}
