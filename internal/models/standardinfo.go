package models

import "time"

// StandardInfo is a knowledge-base entry, independent of any project and
// grouped by category.
type StandardInfo struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SyncEnvelope
}

func (s *StandardInfo) RemoteFields() map[string]any {
	return map[string]any{
		"owner_id":   s.OwnerID,
		"category":   s.Category,
		"title":      s.Title,
		"content":    s.Content,
		"tags":       s.Tags,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}
