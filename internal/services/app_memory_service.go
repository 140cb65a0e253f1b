package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"aiteam/internal/events"
	"aiteam/internal/metrics"
	"aiteam/internal/models"
	"aiteam/internal/persistence"
)

// AppMemorySlot is the storage key of the navigation memory record.
const AppMemorySlot = "aix-app-memory"

// PreferencesPatch carries the optional fields of a preferences update.
type PreferencesPatch struct {
	Theme         *string `json:"theme,omitempty"`
	Animations    *bool   `json:"animations,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
}

type AppMemoryService struct {
	record *persistence.Record[models.AppMemory]
	log    zerolog.Logger
}

func NewAppMemoryService(slots persistence.Slots, log zerolog.Logger, m *metrics.Metrics) (*AppMemoryService, error) {
	record, err := persistence.New(AppMemorySlot, slots, models.DefaultAppMemory(), log, m,
		persistence.WithNormalizer(func(mem models.AppMemory) models.AppMemory {
			mem.RecentProjects = models.NormalizeRecentProjects(mem.RecentProjects)
			return mem
		}))
	if err != nil {
		return nil, err
	}
	return &AppMemoryService{record: record, log: log}, nil
}

// Load reads the persisted memory. A stored recent list is deduplicated
// and capped.
func (s *AppMemoryService) Load(ctx context.Context) models.AppMemory {
	return s.record.Load(ctx)
}

func (s *AppMemoryService) Get() models.AppMemory {
	return s.record.Value()
}

func (s *AppMemoryService) UpdateCurrentPage(ctx context.Context, page string) (models.AppMemory, error) {
	page = strings.TrimSpace(page)
	if page == "" {
		return s.record.Value(), fmt.Errorf("page is required")
	}
	return s.apply(ctx, func(m models.AppMemory) models.AppMemory {
		m.CurrentPage = page
		return m
	})
}

func (s *AppMemoryService) ToggleSidebar(ctx context.Context) (models.AppMemory, error) {
	return s.apply(ctx, func(m models.AppMemory) models.AppMemory {
		m.SidebarCollapsed = !m.SidebarCollapsed
		return m
	})
}

// UpdateUserPreferences merges the set fields into the stored preferences.
func (s *AppMemoryService) UpdateUserPreferences(ctx context.Context, patch PreferencesPatch) (models.AppMemory, error) {
	return s.apply(ctx, func(m models.AppMemory) models.AppMemory {
		if patch.Theme != nil {
			m.UserPreferences.Theme = *patch.Theme
		}
		if patch.Animations != nil {
			m.UserPreferences.Animations = *patch.Animations
		}
		if patch.Notifications != nil {
			m.UserPreferences.Notifications = *patch.Notifications
		}
		return m
	})
}

// AddRecentProject moves id to the front of the recent list.
func (s *AppMemoryService) AddRecentProject(ctx context.Context, id string) (models.AppMemory, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.record.Value(), fmt.Errorf("project id is required")
	}
	return s.apply(ctx, func(m models.AppMemory) models.AppMemory {
		m.RecentProjects = models.PushRecentProject(m.RecentProjects, id)
		return m
	})
}

// Clear resets the memory to its defaults and removes the slot.
func (s *AppMemoryService) Clear(ctx context.Context) (models.AppMemory, error) {
	if err := s.record.Reset(ctx); err != nil {
		return s.record.Value(), err
	}
	next := s.record.Value()
	events.Publish(ctx, events.AppMemoryChanged, next)
	return next, nil
}

func (s *AppMemoryService) apply(ctx context.Context, reduce func(models.AppMemory) models.AppMemory) (models.AppMemory, error) {
	next, err := s.record.Apply(ctx, reduce)
	if err != nil {
		return next, err
	}
	events.Publish(ctx, events.AppMemoryChanged, next)
	return next, nil
}
