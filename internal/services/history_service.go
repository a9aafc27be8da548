package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reportforge/internal/models"
	"reportforge/internal/repositories"
)

type HistoryService interface {
	Startup(ctx context.Context)
	Append(templateContent, workContent, reportContent string) (*models.HistoryRecord, error)
	Get(id uint) (*models.HistoryRecord, error)
	Query(keyword, category string) ([]*models.HistoryRecord, error)
	Delete(id uint) error
}

type historyService struct {
	repo repositories.HistoryRepository
	ctx  context.Context
}

func NewHistoryService(repo repositories.HistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *historyService) Append(templateContent, workContent, reportContent string) (*models.HistoryRecord, error) {
	if strings.TrimSpace(reportContent) == "" {
		return nil, errors.New("report content is required")
	}
	record := &models.HistoryRecord{
		TemplateContent: templateContent,
		WorkContent:     workContent,
		ReportContent:   reportContent,
	}
	if err := s.repo.Append(s.ctx, record); err != nil {
		return nil, fmt.Errorf("service: append history: %w", err)
	}
	return record, nil
}

func (s *historyService) Get(id uint) (*models.HistoryRecord, error) {
	if id == 0 {
		return nil, errors.New("history id is required")
	}
	record, err := s.repo.Get(s.ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: get history %d: %w", id, err)
	}
	return record, nil
}

func (s *historyService) Query(keyword, category string) ([]*models.HistoryRecord, error) {
	records, err := s.repo.Query(s.ctx, strings.TrimSpace(keyword), strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("service: query history: %w", err)
	}
	return records, nil
}

func (s *historyService) Delete(id uint) error {
	if id == 0 {
		return errors.New("history id is required")
	}
	if err := s.repo.Delete(s.ctx, id); err != nil {
		return fmt.Errorf("service: delete history %d: %w", id, err)
	}
	return nil
}
