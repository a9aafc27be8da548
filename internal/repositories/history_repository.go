package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"reportforge/internal/models"
)

var ErrHistoryNotFound = errors.New("history record not found")

type HistoryRepository interface {
	Append(ctx context.Context, record *models.HistoryRecord) error
	Get(ctx context.Context, id uint) (*models.HistoryRecord, error)
	Query(ctx context.Context, keyword, category string) ([]*models.HistoryRecord, error)
	Delete(ctx context.Context, id uint) error
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, record *models.HistoryRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("appending history record: %w", err)
	}
	return nil
}

func (r *historyRepository) Get(ctx context.Context, id uint) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("history record %d: %w", id, ErrHistoryNotFound)
		}
		return nil, fmt.Errorf("getting history record %d: %w", id, err)
	}
	return &record, nil
}

// Query filters records newest-first. The keyword matches a case-insensitive
// substring of the creation time or any of the three text fields; a category
// restricts to records whose stored template content belongs to a template
// currently tagged with that category.
func (r *historyRepository) Query(ctx context.Context, keyword, category string) ([]*models.HistoryRecord, error) {
	q := r.db.WithContext(ctx).Model(&models.HistoryRecord{})

	if category != "" {
		sub := r.db.Model(&models.Template{}).Select("content").Where("category = ?", category)
		q = q.Where("template_content IN (?)", sub)
	}

	if keyword != "" {
		like := "%" + strings.ToLower(keyword) + "%"
		q = q.Where(
			`lower(created_at) LIKE ?
				OR lower(template_content) LIKE ?
				OR lower(work_content) LIKE ?
				OR lower(report_content) LIKE ?`,
			like, like, like, like,
		)
	}

	var records []*models.HistoryRecord
	if err := q.Order("created_at desc, id desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	return records, nil
}

func (r *historyRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.HistoryRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting history record %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("history record %d: %w", id, ErrHistoryNotFound)
	}
	return nil
}
