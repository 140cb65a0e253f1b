package services

import (
	"context"
	"reflect"

	"github.com/rs/zerolog"

	"aiteam/internal/metrics"
	"aiteam/internal/models"
	"aiteam/internal/persistence"
	"aiteam/internal/state"
)

// StateSlot holds the part of the app state that survives a restart.
const StateSlot = "ai-team-storage"

type persistedState struct {
	User     *models.User     `json:"user"`
	Projects []models.Project `json:"projects"`
}

// StatePersister keeps the current user and the project list in StateSlot.
type StatePersister struct {
	store       *state.Store[state.AppState]
	record      *persistence.Record[persistedState]
	unsubscribe func()
}

func NewStatePersister(store *state.Store[state.AppState], slots persistence.Slots, log zerolog.Logger, m *metrics.Metrics) (*StatePersister, error) {
	record, err := persistence.New(StateSlot, slots, persistedState{Projects: []models.Project{}}, log, m)
	if err != nil {
		return nil, err
	}
	return &StatePersister{store: store, record: record}, nil
}

// Start restores the persisted part of the state and then writes it back
// whenever the user or the projects change.
func (p *StatePersister) Start(ctx context.Context) {
	saved := p.record.Load(ctx)
	p.store.Dispatch(func(s state.AppState) state.AppState {
		s.User = saved.User
		s.Projects = saved.Projects
		return s
	})
	p.unsubscribe = p.store.Subscribe(func(prev, next state.AppState) {
		if prev.User == next.User && reflect.DeepEqual(prev.Projects, next.Projects) {
			return
		}
		_, _ = p.record.Apply(context.Background(), func(persistedState) persistedState {
			return persistedState{User: next.User, Projects: next.Projects}
		})
	})
}

func (p *StatePersister) Stop() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
