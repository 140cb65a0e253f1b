package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"aiteam/internal/events"
	"aiteam/internal/models"
	"aiteam/internal/state"
)

var credentialLabels = map[string]string{
	"openai":    "OpenAI",
	"anthropic": "Anthropic",
	"gemini":    "Google Gemini",
}

// CredentialService owns the service-id to secret table held in the app
// state. Secrets are kept in the OS keyring and, for signed-in users, in
// the data service.
type CredentialService struct {
	store   *state.Store[state.AppState]
	keyring *KeyringService
	data    DataService
	log     zerolog.Logger
}

func NewCredentialService(store *state.Store[state.AppState], kr *KeyringService, data DataService, log zerolog.Logger) *CredentialService {
	return &CredentialService{store: store, keyring: kr, data: data, log: log}
}

// Seed fills the table from environment defaults and then from the keyring.
func (s *CredentialService) Seed(ctx context.Context, defaults map[string]string) {
	for service, key := range defaults {
		s.store.Dispatch(state.SetAPIKey(service, key))
	}
	if s.keyring == nil {
		return
	}
	providers, err := s.keyring.ListProviders(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to list keyring credentials")
		return
	}
	for _, provider := range providers {
		key, err := s.keyring.GetApiKey(provider)
		if err != nil {
			s.log.Warn().Err(err).Str("service", provider).Msg("failed to read keyring credential")
			continue
		}
		s.store.Dispatch(state.SetAPIKey(provider, key))
	}
	s.log.Debug().Int("count", len(s.store.Get().APIKeys)).Msg("credentials seeded")
}

// LoadUserKeys merges the user's active keys from the data service into
// the table. Services the user has no row for are left untouched.
func (s *CredentialService) LoadUserKeys(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	keys, err := s.data.ListActiveAPIKeys(ctx, userID)
	if err != nil {
		return fmt.Errorf("load api keys: %w", err)
	}
	for _, k := range keys {
		if k.Service == "" || k.Key == "" {
			continue
		}
		s.store.Dispatch(state.SetAPIKey(k.Service, k.Key))
	}
	return nil
}

// Save stores a secret. With a user id the data-service row is written
// first; if that fails nothing changes locally.
func (s *CredentialService) Save(ctx context.Context, userID, service, secret string) error {
	service = strings.ToLower(strings.TrimSpace(service))
	secret = strings.TrimSpace(secret)
	if service == "" || secret == "" {
		return ErrEmptyCredential
	}

	if userID != "" {
		if err := s.data.UpsertAPIKey(ctx, &models.APIKey{
			UserID:   userID,
			Service:  service,
			Key:      secret,
			IsActive: true,
		}); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
	}

	s.store.Dispatch(state.SetAPIKey(service, secret))
	if s.keyring != nil {
		if err := s.keyring.StoreApiKey(ctx, service, []byte(secret)); err != nil {
			s.log.Warn().Err(err).Str("service", service).Msg("failed to store credential in keyring")
		}
	}
	s.log.Info().Str("service", service).Msg("credential saved")
	events.Publish(ctx, events.CredentialsChanged, s.List())
	return nil
}

func (s *CredentialService) Remove(ctx context.Context, userID, service string) error {
	service = strings.ToLower(strings.TrimSpace(service))
	if service == "" {
		return ErrEmptyCredential
	}

	if userID != "" {
		if err := s.data.DeactivateAPIKey(ctx, userID, service); err != nil {
			return fmt.Errorf("remove api key: %w", err)
		}
	}

	s.store.Dispatch(state.RemoveAPIKey(service))
	if s.keyring != nil {
		if err := s.keyring.DeleteApiKey(ctx, service); err != nil {
			s.log.Warn().Err(err).Str("service", service).Msg("failed to delete keyring credential")
		}
	}
	s.log.Info().Str("service", service).Msg("credential removed")
	events.Publish(ctx, events.CredentialsChanged, s.List())
	return nil
}

func (s *CredentialService) Get(service string) (string, bool) {
	key, ok := s.store.Get().APIKeys[service]
	return key, ok && key != ""
}

func (s *CredentialService) IsConfigured(service string) bool {
	_, ok := s.Get(service)
	return ok
}

// List describes the configured services without their secrets.
func (s *CredentialService) List() []models.CredentialInfo {
	keys := s.store.Get().APIKeys
	services := make([]string, 0, len(keys))
	for service, key := range keys {
		if key != "" {
			services = append(services, service)
		}
	}
	sort.Strings(services)

	out := make([]models.CredentialInfo, 0, len(services))
	for _, service := range services {
		label, ok := credentialLabels[service]
		if !ok {
			label = service
		}
		out = append(out, models.CredentialInfo{
			Service:     service,
			Label:       label + " API key",
			Description: "API key for " + label + " used by AI Team",
		})
	}
	return out
}
