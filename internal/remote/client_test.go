package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiteam/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, AnonKey: "anon", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{AnonKey: "anon"})
	assert.EqualError(t, err, "data service URL is required")

	_, err = New(Config{BaseURL: "https://x.supabase.co"})
	assert.EqualError(t, err, "data service key is required")
}

func TestInsertMessage_PostsRow(t *testing.T) {
	var got models.MessageRecord
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/messages", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.InsertMessage(context.Background(), &models.MessageRecord{
		ConversationID: "default",
		SenderID:       "user",
		Content:        "hello",
		MessageType:    "text",
	})

	require.NoError(t, err)
	assert.Equal(t, "default", got.ConversationID)
	assert.Equal(t, "hello", got.Content)
}

func TestUpsertAPIKey_MergesDuplicates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user_id,service", r.URL.Query().Get("on_conflict"))
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")
		w.WriteHeader(http.StatusCreated)
	})

	err := c.UpsertAPIKey(context.Background(), &models.APIKey{UserID: "u1", Service: "openai", Key: "sk", IsActive: true})
	require.NoError(t, err)
}

func TestListActiveAPIKeys_FiltersByUserAndActive(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.u1", q.Get("user_id"))
		assert.Equal(t, "eq.true", q.Get("is_active"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"user_id":"u1","service":"openai","api_key":"sk-1","is_active":true}]`))
	})

	keys, err := c.ListActiveAPIKeys(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "openai", keys[0].Service)
	assert.Equal(t, "sk-1", keys[0].Key)
}

func TestErrorStatusIsDistinguishable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	})

	_, err := c.ListActiveAPIKeys(context.Background(), "u1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Contains(t, se.Body, "JWT expired")
}

func TestProjects_RoundTripWireShape(t *testing.T) {
	deadline := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	var posted map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &posted))
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"p1","user_id":"u1","name":"Launch","status":"review","progress":80,"team_members":["1","4"],"deadline":"2026-12-01T00:00:00Z"}]`))
		}
	})
	ctx := context.Background()

	require.NoError(t, c.UpsertProject(ctx, &models.Project{
		ID: "p1", UserID: "u1", Name: "Launch", Status: models.ProjectReview, Progress: 80,
		TeamMembers: []string{"1", "4"}, Deadline: deadline,
	}))
	assert.Equal(t, "u1", posted["user_id"])
	assert.Equal(t, []any{"1", "4"}, posted["team_members"])

	projects, err := c.ListProjects(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, models.ProjectReview, projects[0].Status)
	assert.True(t, deadline.Equal(projects[0].Deadline))
}
