package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/standardinfo"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/syncqueue"
)

type StandardInfoService interface {
	Create(ctx context.Context, ownerID, category, title, content string, tags []string) (*models.StandardInfo, error)
	Update(ctx context.Context, rec *models.StandardInfo) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.StandardInfo, error)
	List(ctx context.Context, ownerID string) ([]*models.StandardInfo, error)
	ListByCategory(ctx context.Context, ownerID, category string) ([]*models.StandardInfo, error)
}

type standardInfoService struct {
	repo  standardinfo.Repository
	queue syncqueue.Repository
	now   func() time.Time
}

func NewStandardInfoService(repo standardinfo.Repository, queue syncqueue.Repository) StandardInfoService {
	return &standardInfoService{repo: repo, queue: queue, now: time.Now}
}

func (s *standardInfoService) Create(ctx context.Context, ownerID, category, title, content string, tags []string) (*models.StandardInfo, error) {
	now := s.now().UTC()
	rec := &models.StandardInfo{
		ID:        models.NewTempID(),
		OwnerID:   ownerID,
		Category:  category,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.MarkPending(now)

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.queue, TableStandardInfo, models.OpCreate, rec.ID, ownerID, rec, now); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *standardInfoService) Update(ctx context.Context, rec *models.StandardInfo) error {
	now := s.now().UTC()
	rec.UpdatedAt = now
	rec.MarkPending(now)

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return err
	}

	op := models.OpUpdate
	if models.IsTempID(rec.ID) {
		op = models.OpCreate
	}
	return enqueue(ctx, s.queue, TableStandardInfo, op, rec.ID, rec.OwnerID, rec, now)
}

func (s *standardInfoService) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if models.IsTempID(id) {
		if err := s.repo.Purge(ctx, id); err != nil {
			return err
		}
		return s.queue.DeleteByRecord(ctx, id)
	}

	now := s.now().UTC()
	if err := s.repo.SoftDelete(ctx, id, now); err != nil {
		return err
	}
	return enqueue(ctx, s.queue, TableStandardInfo, models.OpDelete, id, rec.OwnerID, map[string]string{"id": id}, now)
}

func (s *standardInfoService) Get(ctx context.Context, id string) (*models.StandardInfo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *standardInfoService) List(ctx context.Context, ownerID string) ([]*models.StandardInfo, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *standardInfoService) ListByCategory(ctx context.Context, ownerID, category string) ([]*models.StandardInfo, error) {
	return s.repo.ListByCategory(ctx, ownerID, category)
}
