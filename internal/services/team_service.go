package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"aiteam/internal/assets"
	"aiteam/internal/events"
	"aiteam/internal/models"
	"aiteam/internal/state"
)

// Persona is a roster entry together with its completion system prompt.
type Persona struct {
	models.TeamMember
	Prompt string `json:"prompt"`
}

// Roster is the fixed set of AI personas, in asset order.
type Roster struct {
	personas []Persona
	byID     map[string]Persona
}

// LoadRoster parses the embedded persona roster.
func LoadRoster() (*Roster, error) {
	return parseRoster(assets.TeamData)
}

func parseRoster(data []byte) (*Roster, error) {
	var personas []Persona
	if err := json.Unmarshal(data, &personas); err != nil {
		return nil, fmt.Errorf("parse team asset: %w", err)
	}
	if len(personas) == 0 {
		return nil, fmt.Errorf("team asset is empty")
	}
	r := &Roster{personas: personas, byID: make(map[string]Persona, len(personas))}
	for _, p := range personas {
		r.byID[p.ID] = p
	}
	return r, nil
}

func (r *Roster) IDs() []string {
	ids := make([]string, len(r.personas))
	for i, p := range r.personas {
		ids[i] = p.ID
	}
	return ids
}

func (r *Roster) Members() []models.TeamMember {
	out := make([]models.TeamMember, len(r.personas))
	for i, p := range r.personas {
		out[i] = p.TeamMember
	}
	return out
}

func (r *Roster) Persona(id string) (Persona, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// TeamService exposes the roster and its runtime statuses.
type TeamService struct {
	store *state.Store[state.AppState]
	log   zerolog.Logger
}

func NewTeamService(store *state.Store[state.AppState], roster *Roster, log zerolog.Logger) *TeamService {
	store.Dispatch(state.SetTeamMembers(roster.Members()))
	return &TeamService{store: store, log: log}
}

func (s *TeamService) List() []models.TeamMember {
	return slices.Clone(s.store.Get().TeamMembers)
}

func (s *TeamService) SetStatus(ctx context.Context, id, status string) ([]models.TeamMember, error) {
	st, err := models.ParseMemberStatus(status)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(s.store.Get().TeamMembers, func(m models.TeamMember) bool { return m.ID == id }) {
		return nil, fmt.Errorf("team member %s not found", id)
	}
	next := s.store.Dispatch(state.UpdateMemberStatus(id, st))
	s.log.Debug().Str("member", id).Str("status", string(st)).Msg("team member status updated")
	events.Publish(ctx, events.TeamMembersChanged, next.TeamMembers)
	return slices.Clone(next.TeamMembers), nil
}
