package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/sessions", r.URL.Path)
		assert.Equal(t, "eq.waiting", r.URL.Query().Get("status"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[{"id":"s1"},{"id":"s2"}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-token")

	var rows []struct {
		ID string `json:"id"`
	}
	err := client.Select(context.Background(), NewQuery("sessions").Eq("status", "waiting"), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "s1", rows[0].ID)
}

func TestUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/rest/v1/session_participants", r.URL.Path)
		assert.Equal(t, "eq.p1", r.URL.Query().Get("id"))
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var patch map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Equal(t, "left", patch["status"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-token")

	err := client.Update(context.Background(), "session_participants",
		map[string]any{"status": "left"}, NewQuery("session_participants").Eq("id", "p1"))
	require.NoError(t, err)
}

func TestRPC(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/rpc/join_session", r.URL.Path)

		var params map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "s1", params["session_id"])
		fmt.Fprint(w, `{"success":true,"participant_count":2,"session_ready":true}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-token")

	var result JoinResult
	err := client.RPC(context.Background(), "join_session", map[string]any{"session_id": "s1", "user_id": "u1"}, &result)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.SessionReady)
	assert.Equal(t, 2, result.ParticipantCount)
}

func TestRPCStructuredFailureIsNotTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"error":"Insufficient tokens: need 50"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-token")

	var result JoinResult
	err := client.RPC(context.Background(), "join_session", map[string]any{"session_id": "s1"}, &result)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient tokens: need 50", result.Error)
}

func TestNonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-token")

	var dst []map[string]any
	err := client.Select(context.Background(), NewQuery("sessions"), &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
