package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTempIDs(t *testing.T) {
	id := NewTempID()
	require.True(t, IsTempID(id))
	require.False(t, IsTempID("srv_1"))

	other := NewTempID()
	require.NotEqual(t, id, other)
}

func TestSyncStatus_Valid(t *testing.T) {
	require.True(t, StatusSynced.Valid())
	require.True(t, StatusPending.Valid())
	require.True(t, StatusError.Valid())
	require.False(t, SyncStatus("unknown").Valid())
}

func TestSyncEnvelope_Transitions(t *testing.T) {
	var e SyncEnvelope
	now := time.Now().UTC()

	e.MarkPending(now)
	require.Equal(t, StatusPending, e.SyncStatus)
	require.Nil(t, e.LastSyncAt)
	require.Equal(t, now, e.LocalUpdatedAt)

	later := now.Add(time.Minute)
	e.MarkSynced(later)
	require.Equal(t, StatusSynced, e.SyncStatus)
	require.NotNil(t, e.LastSyncAt)
	require.Equal(t, later, *e.LastSyncAt)
}

func TestEnvelopeExcludedFromJSON(t *testing.T) {
	p := Project{ID: "srv_1", OwnerID: "u1", Name: "Q1"}
	p.MarkPending(time.Now().UTC())

	b, err := json.Marshal(&p)
	require.NoError(t, err)
	require.NotContains(t, string(b), "sync_status")
	require.NotContains(t, string(b), "pending")
}

func TestRemoteFields_ExcludeID(t *testing.T) {
	d := Document{ID: "temp_x", ProjectID: "p1", OwnerID: "u1", Title: "t"}
	fields := d.RemoteFields()
	_, ok := fields["id"]
	require.False(t, ok)
	require.Equal(t, "p1", fields["project_id"])
}
