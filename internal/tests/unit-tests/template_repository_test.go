package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportforge/internal/models"
	"reportforge/internal/repositories"
)

func TestTemplateRepository_BootstrapSeedsSystemDefault(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	tmpl, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemTemplateName, tmpl.Name)
	assert.True(t, tmpl.IsDefault)
	assert.Contains(t, tmpl.Content, "{work_content}")
}

func TestTemplateRepository_CreateDuplicateName(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Weekly", Content: "W"}))
	err := repo.Create(ctx, &models.Template{Name: "Weekly", Content: "other"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateName)
}

func TestTemplateRepository_CreateNeverStealsDefault(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Weekly", Content: "W", IsDefault: true}))

	tmpl, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemTemplateName, tmpl.Name, "a created template is never the default")
}

func TestTemplateRepository_SetDefaultIsExclusive(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewTemplateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Weekly", Content: "W"}))
	require.NoError(t, repo.SetDefault(ctx, "Weekly"))

	tmpl, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Weekly", tmpl.Name)

	var defaults int64
	require.NoError(t, db.Model(&models.Template{}).Where("is_default = ?", true).Count(&defaults).Error)
	assert.Equal(t, int64(1), defaults, "exactly one template may carry the default flag")
}

func TestTemplateRepository_SetDefaultMissing(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewTemplateRepository(db)
	ctx := context.Background()

	err := repo.SetDefault(ctx, "no such template")
	assert.ErrorIs(t, err, repositories.ErrSetDefaultFailed)

	// The failed transaction must not leave the table with zero defaults.
	tmpl, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemTemplateName, tmpl.Name)
}

func TestTemplateRepository_DeleteDefaultFallsBackToSystem(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Weekly", Content: "W"}))
	require.NoError(t, repo.SetDefault(ctx, "Weekly"))
	require.NoError(t, repo.Delete(ctx, "Weekly"))

	tmpl, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemTemplateName, tmpl.Name)

	_, err = repo.GetByName(ctx, "Weekly")
	assert.ErrorIs(t, err, repositories.ErrTemplateNotFound)
}

func TestTemplateRepository_DeleteSystemTemplateRejected(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	err := repo.Delete(ctx, models.SystemTemplateName)
	assert.ErrorIs(t, err, repositories.ErrProtectedTemplate)

	tmpl, getErr := repo.GetByName(ctx, models.SystemTemplateName)
	require.NoError(t, getErr)
	assert.True(t, tmpl.IsDefault, "protected template is left untouched")
}

func TestTemplateRepository_DeleteMissing(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))

	err := repo.Delete(context.Background(), "no such template")
	assert.ErrorIs(t, err, repositories.ErrTemplateNotFound)
}

func TestTemplateRepository_UpdateMissing(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))

	err := repo.Update(context.Background(), "no such template", "General", "content")
	assert.ErrorIs(t, err, repositories.ErrTemplateNotFound)
}

func TestTemplateRepository_UpdateKeepsDefaultFlag(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, models.SystemTemplateName, "Reports", "new body"))

	tmpl, err := repo.GetByName(ctx, models.SystemTemplateName)
	require.NoError(t, err)
	assert.Equal(t, "Reports", tmpl.Category)
	assert.Equal(t, "new body", tmpl.Content)
	assert.True(t, tmpl.IsDefault)
}

func TestTemplateRepository_GetDefaultRepairsLostFlag(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewTemplateRepository(db)
	ctx := context.Background()

	// Clear the flag behind the repository's back.
	require.NoError(t, db.Model(&models.Template{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error)

	tmpl, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemTemplateName, tmpl.Name)
	assert.True(t, tmpl.IsDefault)

	reread, err := repo.GetByName(ctx, models.SystemTemplateName)
	require.NoError(t, err)
	assert.True(t, reread.IsDefault, "repair is persisted")
}

func TestTemplateRepository_GetAllFiltersByCategory(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Weekly", Category: "Reports", Content: "W"}))
	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Standup", Category: "Meetings", Content: "S"}))

	all, err := repo.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, models.SystemTemplateName, all[0].Name, "default template sorts first")

	reports, err := repo.GetAll(ctx, "Reports")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Weekly", reports[0].Name)
}

func TestTemplateRepository_ListCategories(t *testing.T) {
	repo := repositories.NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Weekly", Category: "Reports", Content: "W"}))
	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Monthly", Category: "Reports", Content: "M"}))
	require.NoError(t, repo.Create(ctx, &models.Template{Name: "Uncategorized", Content: "U"}))

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"General", "Reports"}, categories)
}
