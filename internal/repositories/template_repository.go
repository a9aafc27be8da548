package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reportforge/internal/models"
)

var (
	ErrDuplicateName     = errors.New("template name already exists")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrProtectedTemplate = errors.New("the system default template cannot be deleted")
	ErrSetDefaultFailed  = errors.New("failed to set default template")
)

type TemplateRepository interface {
	GetByName(ctx context.Context, name string) (*models.Template, error)
	GetAll(ctx context.Context, category string) ([]*models.Template, error)
	GetDefault(ctx context.Context) (*models.Template, error)
	ListCategories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, template *models.Template) error
	Update(ctx context.Context, name, category, content string) error
	SetDefault(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) GetByName(ctx context.Context, name string) (*models.Template, error) {
	var tmpl models.Template
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&tmpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("getting template %q: %w", name, err)
	}
	return &tmpl, nil
}

// GetAll returns templates ordered default-first, then newest. An empty
// category returns everything.
func (r *templateRepository) GetAll(ctx context.Context, category string) ([]*models.Template, error) {
	var list []*models.Template
	q := r.db.WithContext(ctx).Order("is_default desc, created_at desc")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return list, nil
}

// GetDefault returns the template currently flagged as default. If the flag has
// been lost, it falls back to the system default template and repairs the flag.
func (r *templateRepository) GetDefault(ctx context.Context) (*models.Template, error) {
	var tmpl models.Template
	err := r.db.WithContext(ctx).Where("is_default = ?", true).Take(&tmpl).Error
	if err == nil {
		return &tmpl, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("getting default template: %w", err)
	}

	// Invariant violated externally: repair onto the system default.
	repaired := models.Template{}
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", models.SystemTemplateName).Take(&repaired).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("system template %q: %w", models.SystemTemplateName, ErrTemplateNotFound)
			}
			return err
		}
		if err := tx.Model(&models.Template{}).
			Where("name = ?", models.SystemTemplateName).
			Update("is_default", true).Error; err != nil {
			return err
		}
		repaired.IsDefault = true
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("repairing default template: %w", txErr)
	}
	return &repaired, nil
}

func (r *templateRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&models.Template{}).
		Distinct("category").
		Where("category <> ''").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("listing template categories: %w", err)
	}
	return categories, nil
}

func (r *templateRepository) Create(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Template{}).
			Where("name = ?", template.Name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking template name: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("template %q: %w", template.Name, ErrDuplicateName)
		}
		template.IsDefault = false
		if err := tx.Create(template).Error; err != nil {
			return fmt.Errorf("creating template: %w", err)
		}
		return nil
	})
}

// Update replaces category and content for an existing template. The name is
// immutable.
func (r *templateRepository) Update(ctx context.Context, name, category, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Template{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{"category": category, "content": content})
	if res.Error != nil {
		return fmt.Errorf("updating template %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
	}
	return nil
}

// SetDefault atomically clears every default flag and sets the named one. The
// post-condition is verified inside the same transaction so concurrent calls
// can never commit zero or two defaults.
func (r *templateRepository) SetDefault(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Template{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("clearing default flags: %w", err)
		}
		res := tx.Model(&models.Template{}).
			Where("name = ?", name).
			Update("is_default", true)
		if res.Error != nil {
			return fmt.Errorf("marking template %q default: %w", name, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("template %q: %w", name, ErrSetDefaultFailed)
		}

		var check models.Template
		if err := tx.Where("name = ? AND is_default = ?", name, true).Take(&check).Error; err != nil {
			return fmt.Errorf("template %q: %w", name, ErrSetDefaultFailed)
		}
		return nil
	})
}

// Delete removes a template. The system default template is protected; deleting
// the current default re-assigns the flag to the system default in the same
// transaction.
func (r *templateRepository) Delete(ctx context.Context, name string) error {
	if name == models.SystemTemplateName {
		return ErrProtectedTemplate
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tmpl models.Template
		if err := tx.Where("name = ?", name).Take(&tmpl).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
			}
			return fmt.Errorf("getting template %q: %w", name, err)
		}
		if err := tx.Delete(&models.Template{}, tmpl.ID).Error; err != nil {
			return fmt.Errorf("deleting template %q: %w", name, err)
		}
		if tmpl.IsDefault {
			if err := tx.Model(&models.Template{}).
				Where("name = ?", models.SystemTemplateName).
				Update("is_default", true).Error; err != nil {
				return fmt.Errorf("re-assigning default after delete: %w", err)
			}
		}
		return nil
	})
}
