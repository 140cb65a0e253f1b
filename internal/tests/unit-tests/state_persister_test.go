package unit_tests

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiteam/internal/models"
	"aiteam/internal/services"
	"aiteam/internal/state"
	"aiteam/internal/tests/mocks"
)

func TestStatePersister_SavesUserAndProjectsOnly(t *testing.T) {
	ctx := context.Background()
	slots := mocks.NewSlotRepositoryMock()
	store := state.NewStore(state.NewAppState())
	p, err := services.NewStatePersister(store, slots, zerolog.Nop(), nil)
	require.NoError(t, err)
	p.Start(ctx)
	t.Cleanup(p.Stop)

	store.Dispatch(state.AddMessage(models.Message{ID: "m1", SenderID: "user", Content: "hi"}))
	store.Dispatch(state.SetTyping(true))
	assert.Equal(t, 0, slots.Writes, "transient state is not persisted")

	store.Dispatch(state.SetUser(&models.User{ID: "u-1", Name: "Ada"}))
	store.Dispatch(state.AddProject(models.Project{ID: "p1", Name: "Launch"}))
	assert.Equal(t, 2, slots.Writes)

	raw, ok := slots.Value(services.StateSlot)
	require.True(t, ok)
	var stored map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Contains(t, string(stored["user"]), `"u-1"`)
	assert.Contains(t, string(stored["projects"]), `"Launch"`)
	assert.NotContains(t, stored, "messages")
}

func TestStatePersister_RestoresOnStart(t *testing.T) {
	ctx := context.Background()
	slots := mocks.NewSlotRepositoryMock()
	slots.Seed(services.StateSlot, `{"user":{"id":"u-9","name":"Grace"},"projects":[{"id":"p7","name":"Archive"}]}`)
	store := state.NewStore(state.NewAppState())
	p, err := services.NewStatePersister(store, slots, zerolog.Nop(), nil)
	require.NoError(t, err)

	p.Start(ctx)
	defer p.Stop()

	got := store.Get()
	require.NotNil(t, got.User)
	assert.Equal(t, "Grace", got.User.Name)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "p7", got.Projects[0].ID)
	assert.Equal(t, 0, slots.Writes)

	store.Dispatch(state.SetUser(nil))
	raw, _ := slots.Value(services.StateSlot)
	assert.Contains(t, raw, `"user":null`)
}
