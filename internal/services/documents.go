package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/documents"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/syncqueue"
)

type DocumentService interface {
	Create(ctx context.Context, ownerID, projectID, title, content string, tags []string, metadata map[string]string) (*models.Document, error)
	Update(ctx context.Context, rec *models.Document) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, ownerID string) ([]*models.Document, error)
	ListByProject(ctx context.Context, ownerID, projectID string) ([]*models.Document, error)
}

type documentService struct {
	repo  documents.Repository
	queue syncqueue.Repository
	now   func() time.Time
}

func NewDocumentService(repo documents.Repository, queue syncqueue.Repository) DocumentService {
	return &documentService{repo: repo, queue: queue, now: time.Now}
}

func (s *documentService) Create(ctx context.Context, ownerID, projectID, title, content string, tags []string, metadata map[string]string) (*models.Document, error) {
	now := s.now().UTC()
	rec := &models.Document{
		ID:        models.NewTempID(),
		ProjectID: projectID,
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.MarkPending(now)

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.queue, TableDocuments, models.OpCreate, rec.ID, ownerID, rec, now); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *documentService) Update(ctx context.Context, rec *models.Document) error {
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
	return enqueue(ctx, s.queue, TableDocuments, op, rec.ID, rec.OwnerID, rec, now)
}

func (s *documentService) Delete(ctx context.Context, id string) error {
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
	return enqueue(ctx, s.queue, TableDocuments, models.OpDelete, id, rec.OwnerID, map[string]string{"id": id}, now)
}

func (s *documentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, ownerID string) ([]*models.Document, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *documentService) ListByProject(ctx context.Context, ownerID, projectID string) ([]*models.Document, error) {
	return s.repo.ListByProject(ctx, ownerID, projectID)
}
