package mocks

import (
	"context"

	"reportforge/internal/models"
)

type HistoryRepositoryMock struct {
	AppendFunc func(ctx context.Context, record *models.HistoryRecord) error
	GetFunc    func(ctx context.Context, id uint) (*models.HistoryRecord, error)
	QueryFunc  func(ctx context.Context, keyword, category string) ([]*models.HistoryRecord, error)
	DeleteFunc func(ctx context.Context, id uint) error
}

func (m *HistoryRepositoryMock) Append(ctx context.Context, record *models.HistoryRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, record)
	}
	return nil
}

func (m *HistoryRepositoryMock) Get(ctx context.Context, id uint) (*models.HistoryRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *HistoryRepositoryMock) Query(ctx context.Context, keyword, category string) ([]*models.HistoryRecord, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, keyword, category)
	}
	return []*models.HistoryRecord{}, nil
}

func (m *HistoryRepositoryMock) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
