package store

import (
	"context"
	"errors"
	"testing"

	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSessionQuery_Available(t *testing.T) {
	q, ok := buildSessionQuery(ViewAvailable, "", nil, false)
	require.True(t, ok)
	assert.Contains(t, q.Encode(), "status=eq.waiting")
	assert.Contains(t, q.Encode(), "is_private=eq.false")

	q, ok = buildSessionQuery(ViewAvailable, "u1", nil, true)
	require.True(t, ok)
	assert.NotContains(t, q.Encode(), "is_private")
}

func TestBuildSessionQuery_MySessionsEmptyMembership(t *testing.T) {
	// Zero joined rows must reduce to creator-only, never an IN () clause.
	var q backend.Query
	var ok bool
	require.NotPanics(t, func() {
		q, ok = buildSessionQuery(ViewMySessions, "u1", nil, false)
	})
	require.True(t, ok)
	assert.Contains(t, q.Encode(), "creator_id=eq.u1")
	assert.NotContains(t, q.Encode(), "in.")
}

func TestBuildSessionQuery_MySessionsWithMembership(t *testing.T) {
	q, ok := buildSessionQuery(ViewMySessions, "u1", []string{"s1", "s2"}, false)
	require.True(t, ok)
	assert.Contains(t, q.Encode(), "creator_id.eq.u1")
	assert.Contains(t, q.Encode(), "id.in.%28s1%2Cs2%29")
}

func TestBuildSessionQuery_CompletedWithoutUser(t *testing.T) {
	// Never fall back to "all completed sessions".
	_, ok := buildSessionQuery(ViewCompleted, "", nil, false)
	assert.False(t, ok)
}

func TestMembershipSessionIDs_FailureDegrades(t *testing.T) {
	be := backend.NewMock()
	be.SelectFunc = func(q backend.Query, dst any) error {
		return errors.New("membership query down")
	}

	s := New(Config{View: ViewMySessions, UserID: "u1", Backend: be, Metrics: metrics.NewMock()})
	ids := s.membershipSessionIDs(context.Background())
	assert.Nil(t, ids)
}

func TestMembershipSessionIDs_DeduplicatesRows(t *testing.T) {
	be := backend.NewMock()
	be.SelectFunc = func(q backend.Query, dst any) error {
		rows := dst.(*[]session.Participant)
		*rows = []session.Participant{
			{SessionID: "s1"},
			{SessionID: "s1"},
			{SessionID: "s2"},
		}
		return nil
	}

	s := New(Config{View: ViewMySessions, UserID: "u1", Backend: be, Metrics: metrics.NewMock()})
	ids := s.membershipSessionIDs(context.Background())
	assert.Equal(t, []string{"s1", "s2"}, ids)
}
