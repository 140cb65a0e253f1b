package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiteam/internal/models"
)

func TestStore_DispatchNotifiesInOrder(t *testing.T) {
	s := NewStore(0)
	var seen [][2]int
	unsubscribe := s.Subscribe(func(prev, next int) { seen = append(seen, [2]int{prev, next}) })

	s.Dispatch(func(v int) int { return v + 1 })
	s.Dispatch(func(v int) int { return v * 10 })
	unsubscribe()
	s.Dispatch(func(v int) int { return v + 1 })

	assert.Equal(t, [][2]int{{0, 1}, {1, 10}}, seen)
	assert.Equal(t, 11, s.Get())
}

func TestStore_RestoreDoesNotNotify(t *testing.T) {
	s := NewStore("a")
	called := false
	s.Subscribe(func(_, _ string) { called = true })

	s.Restore("b")

	assert.False(t, called)
	assert.Equal(t, "b", s.Get())
}

func TestAppState_MessagesAreAppendOnlyCopies(t *testing.T) {
	s := NewStore(NewAppState())
	first := s.Dispatch(AddMessage(models.Message{ID: "1"}))
	second := s.Dispatch(AddMessage(models.Message{ID: "2"}))

	require.Len(t, first.Messages, 1)
	require.Len(t, second.Messages, 2)
	assert.Equal(t, "2", second.Messages[1].ID)

	cleared := s.Dispatch(ClearMessages())
	assert.Empty(t, cleared.Messages)
	assert.Len(t, second.Messages, 2)
}

func TestAppState_UpdateProjectAppliesPatch(t *testing.T) {
	s := NewStore(NewAppState())
	s.Dispatch(AddProject(models.Project{ID: "p1", Name: "Launch", Status: models.ProjectPlanning}))
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	progress := 50
	status := models.ProjectInProgress

	next := s.Dispatch(UpdateProject("p1", models.ProjectPatch{Progress: &progress, Status: &status}, now))

	p, ok := next.FindProject("p1")
	require.True(t, ok)
	assert.Equal(t, "Launch", p.Name)
	assert.Equal(t, 50, p.Progress)
	assert.Equal(t, models.ProjectInProgress, p.Status)
	assert.Equal(t, now, p.UpdatedAt)

	_, ok = next.FindProject("missing")
	assert.False(t, ok)
}

func TestAppState_APIKeysAndMemberStatus(t *testing.T) {
	s := NewStore(NewAppState())
	s.Dispatch(SetTeamMembers([]models.TeamMember{{ID: "1", Status: models.StatusOnline}}))
	s.Dispatch(SetAPIKey("openai", "sk-1"))
	next := s.Dispatch(UpdateMemberStatus("1", models.StatusBusy))

	assert.Equal(t, "sk-1", next.APIKeys["openai"])
	assert.Equal(t, models.StatusBusy, next.TeamMembers[0].Status)

	next = s.Dispatch(RemoveAPIKey("openai"))
	_, ok := next.APIKeys["openai"]
	assert.False(t, ok)
}
