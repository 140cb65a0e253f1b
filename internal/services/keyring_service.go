package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/zalando/go-keyring"

	"aiteam/internal/persistence"
)

const serviceName = "aiteam"

// KeyringProvidersSlot indexes the services that have a secret in the OS
// keyring, since the keyring itself cannot be enumerated.
const KeyringProvidersSlot = "aiteam-keyring-providers"

func GetOS() string {
	return runtime.GOOS
}

type KeyringService struct {
	slots persistence.Slots
}

func NewKeyringService(slots persistence.Slots) *KeyringService {
	return &KeyringService{slots: slots}
}

func (s *KeyringService) StoreApiKey(ctx context.Context, provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}

	if err := keyring.Set(serviceName, provider, string(apiKey)); err != nil {
		return err
	}

	return s.addProvider(ctx, provider)
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	return keyring.Get(serviceName, provider)
}

func (s *KeyringService) DeleteApiKey(ctx context.Context, provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}

	err := keyring.Delete(serviceName, provider)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}

	return s.removeProvider(ctx, provider)
}

// ListProviders returns the indexed services that still have a secret.
func (s *KeyringService) ListProviders(ctx context.Context) ([]string, error) {
	providers, err := s.loadProviders(ctx)
	if err != nil {
		return nil, err
	}

	var results []string
	for _, provider := range providers {
		if _, err := keyring.Get(serviceName, provider); err != nil {
			continue
		}
		results = append(results, provider)
	}
	return results, nil
}

func (s *KeyringService) loadProviders(ctx context.Context) ([]string, error) {
	raw, ok, err := s.slots.Read(ctx, KeyringProvidersSlot)
	if err != nil {
		return nil, fmt.Errorf("read keyring index: %w", err)
	}
	if !ok {
		return []string{}, nil
	}

	var providers []string
	if err := json.Unmarshal([]byte(raw), &providers); err != nil {
		return nil, fmt.Errorf("parse keyring index: %w", err)
	}
	return providers, nil
}

func (s *KeyringService) saveProviders(ctx context.Context, providers []string) error {
	data, err := json.Marshal(providers)
	if err != nil {
		return err
	}
	return s.slots.Write(ctx, KeyringProvidersSlot, string(data))
}

func (s *KeyringService) addProvider(ctx context.Context, provider string) error {
	providers, err := s.loadProviders(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(providers, provider) {
		return nil
	}
	return s.saveProviders(ctx, append(providers, provider))
}

func (s *KeyringService) removeProvider(ctx context.Context, provider string) error {
	providers, err := s.loadProviders(ctx)
	if err != nil {
		return err
	}
	newProviders := slices.DeleteFunc(providers, func(p string) bool { return p == provider })
	return s.saveProviders(ctx, newProviders)
}

func userAccount(userID, service string) string {
	return "user/" + userID + "/" + service
}

// StoreUserKey keeps a signed-in user's secret for service. These entries
// are not listed by ListProviders.
func (s *KeyringService) StoreUserKey(userID, service, secret string) error {
	if userID == "" || service == "" {
		return errors.New("user id and service are required")
	}
	if secret == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(serviceName, userAccount(userID, service), secret)
}

// GetUserKey returns keyring.ErrNotFound when no secret is stored.
func (s *KeyringService) GetUserKey(userID, service string) (string, error) {
	return keyring.Get(serviceName, userAccount(userID, service))
}

func (s *KeyringService) DeleteUserKey(userID, service string) error {
	err := keyring.Delete(serviceName, userAccount(userID, service))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
