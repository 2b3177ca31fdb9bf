package snapshot_test

import (
	"testing"

	"github.com/courtsidehq/courtside/internal/database"
	"github.com/courtsidehq/courtside/internal/session"
	"github.com/courtsidehq/courtside/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (snapshot.Store, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return snapshot.New(db), dbTeardown
}

func TestSaveAndGetSessions(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	sessions := []session.Session{
		{ID: "s1", CreatorID: "u1", SessionType: session.TypeMatch, Status: session.StatusWaiting, MaxPlayers: 4, ParticipantCount: 2},
		{ID: "s2", CreatorID: "u2", SessionType: session.TypeTraining, Status: session.StatusActive, MaxPlayers: 6},
	}

	require.NoError(t, store.SaveSessions("available", sessions))

	got, err := store.GetSessions("available")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, 2, got[0].ParticipantCount)
	assert.Equal(t, session.TypeTraining, got[1].SessionType)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.SaveSessions("available", []session.Session{{ID: "s1"}, {ID: "s2"}}))
	require.NoError(t, store.SaveSessions("available", []session.Session{{ID: "s3"}}))

	got, err := store.GetSessions("available")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s3", got[0].ID)
}

func TestSnapshotsAreScopedByView(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.SaveSessions("available", []session.Session{{ID: "s1"}}))
	require.NoError(t, store.SaveSessions("my-sessions", []session.Session{{ID: "s2"}}))

	available, err := store.GetSessions("available")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "s1", available[0].ID)

	mine, err := store.GetSessions("my-sessions")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "s2", mine[0].ID)
}

func TestClear(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.SaveSessions("available", []session.Session{{ID: "s1"}}))
	require.NoError(t, store.Clear())

	got, err := store.GetSessions("available")
	require.NoError(t, err)
	assert.Empty(t, got)
}
