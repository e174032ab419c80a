package models

import (
	"encoding/json"
	"time"
)

// QueueOperation classifies the remote operation a queue item intends.
type QueueOperation string

const (
	OpCreate QueueOperation = "create"
	OpUpdate QueueOperation = "update"
	OpDelete QueueOperation = "delete"
)

func (o QueueOperation) Valid() bool {
	switch o {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// SyncQueueItem records an intended remote operation awaiting execution or
// retry. Payload is a snapshot of the record at enqueue time.
type SyncQueueItem struct {
	ID         string
	TableName  string
	Operation  QueueOperation
	Payload    json.RawMessage
	RecordID   string
	OwnerID    string
	EnqueuedAt time.Time
	// RetryCount increments on every failed push attempt for the record.
	RetryCount int
	LastError  *string
}
