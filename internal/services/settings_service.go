package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"aiteam/internal/events"
	"aiteam/internal/metrics"
	"aiteam/internal/models"
	"aiteam/internal/persistence"
)

// SettingsSlot is the storage key of the user settings record.
const SettingsSlot = "aix-user-settings"

type SettingsService struct {
	record *persistence.Record[models.UserSettings]
	log    zerolog.Logger
}

func NewSettingsService(slots persistence.Slots, log zerolog.Logger, m *metrics.Metrics) (*SettingsService, error) {
	record, err := persistence.New(SettingsSlot, slots, models.DefaultUserSettings(), log, m,
		persistence.WithValidator[models.UserSettings](validateStoredSetting))
	if err != nil {
		return nil, err
	}
	return &SettingsService{record: record, log: log}, nil
}

// Load reads the persisted settings. It is called once at startup.
func (s *SettingsService) Load(ctx context.Context) models.UserSettings {
	return s.record.Load(ctx)
}

func (s *SettingsService) Get() models.UserSettings {
	return s.record.Value()
}

// Subscribe registers fn to run after every settings change.
func (s *SettingsService) Subscribe(fn func(models.UserSettings)) func() {
	return s.record.Subscribe(fn)
}

func (s *SettingsService) Update(ctx context.Context, key string, value any) (models.UserSettings, error) {
	return s.UpdateMany(ctx, map[string]any{key: value})
}

// UpdateMany applies several settings as one change.
func (s *SettingsService) UpdateMany(ctx context.Context, patch map[string]any) (models.UserSettings, error) {
	for key, value := range patch {
		if err := validateSetting(key, value); err != nil {
			return s.record.Value(), err
		}
	}
	next, err := s.record.Merge(ctx, patch)
	if err != nil {
		return next, err
	}
	events.Publish(ctx, events.SettingsChanged, next)
	return next, nil
}

func (s *SettingsService) Reset(ctx context.Context) (models.UserSettings, error) {
	if err := s.record.Reset(ctx); err != nil {
		return s.record.Value(), err
	}
	next := s.record.Value()
	events.Publish(ctx, events.SettingsChanged, next)
	return next, nil
}

func (s *SettingsService) Export(w io.Writer) error {
	return s.record.Export(w)
}

func (s *SettingsService) ExportFile(path string) error {
	if err := s.record.ExportFile(path); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Msg("settings exported")
	return nil
}

func (s *SettingsService) Import(ctx context.Context, r io.Reader) (models.UserSettings, error) {
	next, err := s.record.Import(ctx, r)
	if err != nil {
		return next, err
	}
	events.Publish(ctx, events.SettingsChanged, next)
	return next, nil
}

func (s *SettingsService) ImportFile(ctx context.Context, path string) (models.UserSettings, error) {
	next, err := s.record.ImportFile(ctx, path)
	if err != nil {
		return next, err
	}
	s.log.Info().Str("path", path).Msg("settings imported")
	events.Publish(ctx, events.SettingsChanged, next)
	return next, nil
}

// validateStoredSetting applies validateSetting to a raw JSON value, so
// loaded and imported documents obey the same choices as Update.
func validateStoredSetting(key string, raw json.RawMessage) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}
	return validateSetting(key, value)
}

func validateSetting(key string, value any) error {
	if key == "language" {
		if str, ok := value.(string); ok && strings.TrimSpace(str) == "" {
			return fmt.Errorf("%w: language must not be empty", ErrInvalidSetting)
		}
		return nil
	}
	choices, ok := models.SettingChoices[key]
	if !ok {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		// Type errors are reported by the record.
		return nil
	}
	if !slices.Contains(choices, str) {
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidSetting, key, strings.Join(choices, ", "))
	}
	return nil
}
