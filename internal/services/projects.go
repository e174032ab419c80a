// Package services implements the application layer: per-entity CRUD that
// stages local changes for sync, and the sync engine itself.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/projects"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/syncqueue"
)

const (
	TableProjects     = "projects"
	TableDocuments    = "documents"
	TableStandardInfo = "standard_info"
)

type ProjectService interface {
	Create(ctx context.Context, ownerID, name, description string, tags []string) (*models.Project, error)
	Update(ctx context.Context, rec *models.Project) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, ownerID string) ([]*models.Project, error)
}

type projectService struct {
	repo  projects.Repository
	queue syncqueue.Repository
	now   func() time.Time
}

func NewProjectService(repo projects.Repository, queue syncqueue.Repository) ProjectService {
	return &projectService{repo: repo, queue: queue, now: time.Now}
}

// enqueue stages an intended remote operation with a snapshot payload.
func enqueue(ctx context.Context, queue syncqueue.Repository, table string, op models.QueueOperation, recordID, ownerID string, payload any, at time.Time) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	return queue.Enqueue(ctx, &models.SyncQueueItem{
		TableName:  table,
		Operation:  op,
		Payload:    data,
		RecordID:   recordID,
		OwnerID:    ownerID,
		EnqueuedAt: at,
	})
}

func (s *projectService) Create(ctx context.Context, ownerID, name, description string, tags []string) (*models.Project, error) {
	now := s.now().UTC()
	rec := &models.Project{
		ID:          models.NewTempID(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec.MarkPending(now)

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.queue, TableProjects, models.OpCreate, rec.ID, ownerID, rec, now); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *projectService) Update(ctx context.Context, rec *models.Project) error {
	now := s.now().UTC()
	rec.UpdatedAt = now
	rec.MarkPending(now)

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return err
	}

	// a record that never reached the server still needs a create
	op := models.OpUpdate
	if models.IsTempID(rec.ID) {
		op = models.OpCreate
	}
	return enqueue(ctx, s.queue, TableProjects, op, rec.ID, rec.OwnerID, rec, now)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// never pushed, so nothing remote to confirm
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
	return enqueue(ctx, s.queue, TableProjects, models.OpDelete, id, rec.OwnerID, map[string]string{"id": id}, now)
}

func (s *projectService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, ownerID string) ([]*models.Project, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
