package models

import "time"

// Project groups documents under a single owner.
type Project struct {
	// ID is a server-assigned identifier once synced; before the first
	// round-trip it is a temp_ placeholder.
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	SyncEnvelope
}

// RemoteFields returns the payload sent to the gateway. The identifier is
// excluded: creates receive a server-assigned id, updates address it by URL.
func (p *Project) RemoteFields() map[string]any {
	return map[string]any{
		"owner_id":    p.OwnerID,
		"name":        p.Name,
		"description": p.Description,
		"tags":        p.Tags,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}
