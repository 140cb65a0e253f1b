package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aiteam/internal/events"
	"aiteam/internal/models"
	"aiteam/internal/state"
)

type NewProject struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	TeamMembers []string  `json:"teamMembers"`
}

type ProjectService interface {
	List() []models.Project
	Get(id string) (*models.Project, error)
	Create(ctx context.Context, in NewProject) (*models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	Sync(ctx context.Context) error
}

type projectService struct {
	store *state.Store[state.AppState]
	data  DataService
	log   zerolog.Logger
	now   func() time.Time
}

func NewProjectService(store *state.Store[state.AppState], data DataService, log zerolog.Logger) ProjectService {
	return &projectService{store: store, data: data, log: log, now: time.Now}
}

func (s *projectService) List() []models.Project {
	return slices.Clone(s.store.Get().Projects)
}

func (s *projectService) Get(id string) (*models.Project, error) {
	p, ok := s.store.Get().FindProject(id)
	if !ok {
		return nil, fmt.Errorf("project %s not found", id)
	}
	return &p, nil
}

func (s *projectService) Create(ctx context.Context, in NewProject) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	now := s.now()
	p := models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Status:      models.ProjectPlanning,
		Deadline:    in.Deadline,
		TeamMembers: slices.Clone(in.TeamMembers),
		Tasks:       []models.Task{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.TeamMembers == nil {
		p.TeamMembers = []string{}
	}
	if user := s.store.Get().User; user != nil {
		p.UserID = user.ID
	}

	next := s.store.Dispatch(state.AddProject(p))
	s.save(ctx, p)
	events.Publish(ctx, events.ProjectsChanged, next.Projects)
	return &p, nil
}

func (s *projectService) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if patch.Status != nil {
		if _, err := models.ParseProjectStatus(string(*patch.Status)); err != nil {
			return nil, err
		}
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return nil, fmt.Errorf("progress must be between 0 and 100")
	}
	if _, ok := s.store.Get().FindProject(id); !ok {
		return nil, fmt.Errorf("project %s not found", id)
	}

	next := s.store.Dispatch(state.UpdateProject(id, patch, s.now()))
	p, _ := next.FindProject(id)
	s.save(ctx, p)
	events.Publish(ctx, events.ProjectsChanged, next.Projects)
	return &p, nil
}

// Sync replaces the project list with the signed-in user's projects from
// the data service.
func (s *projectService) Sync(ctx context.Context) error {
	user := s.store.Get().User
	if user == nil {
		return nil
	}
	projects, err := s.data.ListProjects(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	next := s.store.Dispatch(state.SetProjects(projects))
	events.Publish(ctx, events.ProjectsChanged, next.Projects)
	return nil
}

// save writes p to the data service for signed-in users. The in-memory list
// stays authoritative if the write fails.
func (s *projectService) save(ctx context.Context, p models.Project) {
	if p.UserID == "" || s.data == nil {
		return
	}
	if err := s.data.UpsertProject(ctx, &p); err != nil {
		s.log.Warn().Err(err).Str("project", p.ID).Msg("failed to save project")
	}
}
