package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/config"
	"github.com/courtsidehq/courtside/internal/dispatcher"
	"github.com/courtsidehq/courtside/internal/feed"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/notifier"
	"github.com/courtsidehq/courtside/internal/retry"
	"github.com/courtsidehq/courtside/internal/session"
	"github.com/courtsidehq/courtside/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotMock is an in-memory stand-in for the persisted snapshot store.
type snapshotMock struct {
	mu    sync.Mutex
	views map[string][]session.Session
}

func newSnapshotMock() *snapshotMock {
	return &snapshotMock{views: make(map[string][]session.Session)}
}

func (s *snapshotMock) SaveSessions(view string, sessions []session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[view] = append([]session.Session(nil), sessions...)
	return nil
}

func (s *snapshotMock) GetSessions(view string) ([]session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]session.Session(nil), s.views[view]...), nil
}

func (s *snapshotMock) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = make(map[string][]session.Session)
	return nil
}

type testServer struct {
	server   *Server
	backend  *backend.Mock
	notifier *notifier.Mock
	metrics  *metrics.Mock
	snapshot *snapshotMock
}

func setupTestServer(t *testing.T, sessions []session.Session) *testServer {
	t.Helper()

	be := backend.NewMock()
	be.SelectFunc = func(q backend.Query, dst any) error {
		switch q.Table() {
		case "sessions":
			*dst.(*[]session.Session) = append([]session.Session(nil), sessions...)
		case "session_participants":
			*dst.(*[]session.Participant) = nil
		case "profiles":
			*dst.(*[]session.Profile) = nil
		}
		return nil
	}

	n := notifier.NewMock()
	m := metrics.NewMock()
	snap := newSnapshotMock()

	views := make(map[store.View]*ViewHandle)
	for _, view := range []store.View{store.ViewAvailable, store.ViewMySessions, store.ViewCompleted} {
		st := store.New(store.Config{View: view, UserID: "u1", Backend: be, Snapshot: snap, Metrics: m})
		views[view] = &ViewHandle{Store: st, Fetcher: retry.New(st, n, retry.WithAttempts(0))}
	}

	d := dispatcher.New(be, n, m, "u1", func(ctx context.Context) {})
	server := NewServer(views, d, snap, m, http.NotFoundHandler(), config.Config{})

	return &testServer{server: server, backend: be, notifier: n, metrics: m, snapshot: snap}
}

func TestHealthCheckHandler(t *testing.T) {
	ts := setupTestServer(t, nil)

	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestListSessionsHandler(t *testing.T) {
	ts := setupTestServer(t, []session.Session{
		{ID: "s1", CreatorID: "u2", SessionType: session.TypeMatch, Status: session.StatusWaiting},
		{ID: "s2", CreatorID: "u3", SessionType: session.TypeTraining, Status: session.StatusActive},
	})

	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions?view=available", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got []session.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestListSessionsHandler_ScopeAndTypeFilters(t *testing.T) {
	ts := setupTestServer(t, []session.Session{
		{ID: "s1", CreatorID: "u2", SessionType: session.TypeMatch, Status: session.StatusActive},
		{ID: "s2", CreatorID: "u3", SessionType: session.TypeTraining, Status: session.StatusActive},
		{ID: "s3", CreatorID: "u4", SessionType: session.TypeMatch, Status: session.StatusWaiting},
	})

	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions?view=available&scope=active&type=match", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got []session.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestListSessionsHandler_UnknownView(t *testing.T) {
	ts := setupTestServer(t, nil)

	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions?view=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestJoinHandler(t *testing.T) {
	ts := setupTestServer(t, nil)
	ts.backend.RPCFunc = func(name string, params map[string]any, out any) error {
		*out.(*backend.JoinResult) = backend.JoinResult{Success: true}
		return nil
	}

	body := bytes.NewBufferString(`{"session_id":"s1"}`)
	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sessions/join", body))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, ts.backend.RPCCalls, 1)
	assert.Equal(t, "join_session", ts.backend.RPCCalls[0].Name)
	assert.Contains(t, ts.notifier.All(), "You've joined the session!")
}

func TestJoinHandler_MissingSessionID(t *testing.T) {
	ts := setupTestServer(t, nil)

	body := bytes.NewBufferString(`{}`)
	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sessions/join", body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, ts.backend.RPCCalls)
}

func TestJoinHandler_DryRun(t *testing.T) {
	ts := setupTestServer(t, nil)

	body := bytes.NewBufferString(`{"session_id":"s1"}`)
	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sessions/join?dry_run=true", body))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, ts.backend.RPCCalls, "dry run must not reach the backend")
}

func TestJoinHandler_MethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t, nil)

	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions/join", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestChangesPushHandler(t *testing.T) {
	ts := setupTestServer(t, nil)

	payload, err := feed.EncodeEvent(feed.ChangeEvent{Type: "INSERT", Table: "sessions", RowID: "s1"})
	require.NoError(t, err)
	wrapper := fmt.Sprintf(`{"subscription":"sub","message":{"data":"%s"}}`,
		base64.StdEncoding.EncodeToString(payload))

	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/changes", strings.NewReader(wrapper)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, ts.metrics.FeedEvents())
	// Every mounted view gets refreshed off the push.
	assert.GreaterOrEqual(t, len(ts.backend.SelectCalls), 2)
}

func TestChangesPushHandler_InvalidJSON(t *testing.T) {
	ts := setupTestServer(t, nil)

	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/changes", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSnapshotHandlers(t *testing.T) {
	ts := setupTestServer(t, []session.Session{{ID: "s1", CreatorID: "u2", Status: session.StatusWaiting}})

	// A fetch persists the view into the snapshot store.
	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sessions?view=available", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/snapshot?view=available", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got []session.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)

	rr = httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/clear", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	ts.server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/snapshot?view=available", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var cleared []session.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cleared))
	assert.Empty(t, cleared)
}
