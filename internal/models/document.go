package models

import "time"

// Document is a single piece of written content inside a project.
type Document struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"project_id"`
	OwnerID   string            `json:"owner_id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Tags      []string          `json:"tags,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	SyncEnvelope
}

func (d *Document) RemoteFields() map[string]any {
	return map[string]any{
		"project_id": d.ProjectID,
		"owner_id":   d.OwnerID,
		"title":      d.Title,
		"content":    d.Content,
		"tags":       d.Tags,
		"metadata":   d.Metadata,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
}
