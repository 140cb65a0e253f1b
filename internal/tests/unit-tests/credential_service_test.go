package unit_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"aiteam/internal/models"
	"aiteam/internal/services"
	"aiteam/internal/state"
	"aiteam/internal/tests/mocks"
)

type credentialFixture struct {
	svc     *services.CredentialService
	store   *state.Store[state.AppState]
	keyring *services.KeyringService
	slots   *mocks.SlotRepositoryMock
	data    *mocks.DataServiceMock
}

func newCredentialFixture(t *testing.T) *credentialFixture {
	t.Helper()
	keyring.MockInit()
	f := &credentialFixture{
		store: state.NewStore(state.NewAppState()),
		slots: mocks.NewSlotRepositoryMock(),
		data:  &mocks.DataServiceMock{},
	}
	f.keyring = services.NewKeyringService(f.slots)
	f.svc = services.NewCredentialService(f.store, f.keyring, f.data, zerolog.Nop())
	return f
}

func TestCredentialService_SeedEnvThenKeyring(t *testing.T) {
	ctx := context.Background()
	f := newCredentialFixture(t)
	require.NoError(t, f.keyring.StoreApiKey(ctx, "openai", []byte("sk-keyring")))

	f.svc.Seed(ctx, map[string]string{"openai": "sk-env", "gemini": "g-env"})

	key, ok := f.svc.Get("openai")
	require.True(t, ok)
	assert.Equal(t, "sk-keyring", key)
	key, ok = f.svc.Get("gemini")
	require.True(t, ok)
	assert.Equal(t, "g-env", key)
}

func TestCredentialService_SaveValidation(t *testing.T) {
	f := newCredentialFixture(t)

	assert.ErrorIs(t, f.svc.Save(context.Background(), "", "", "sk"), services.ErrEmptyCredential)
	assert.ErrorIs(t, f.svc.Save(context.Background(), "", "openai", "  "), services.ErrEmptyCredential)
	assert.False(t, f.svc.IsConfigured("openai"))
}

func TestCredentialService_SaveWithoutUserIsLocal(t *testing.T) {
	ctx := context.Background()
	f := newCredentialFixture(t)

	require.NoError(t, f.svc.Save(ctx, "", "OpenAI", "sk-local"))

	assert.True(t, f.svc.IsConfigured("openai"))
	assert.Empty(t, f.data.Keys())
	stored, err := f.keyring.GetApiKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-local", stored)
	providers, err := f.keyring.ListProviders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"openai"}, providers)
}

func TestCredentialService_SaveWithUserWritesRemoteFirst(t *testing.T) {
	ctx := context.Background()
	f := newCredentialFixture(t)

	require.NoError(t, f.svc.Save(ctx, "u-1", "anthropic", "sk-ant"))

	keys := f.data.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, models.APIKey{UserID: "u-1", Service: "anthropic", Key: "sk-ant", IsActive: true}, keys[0])
	assert.True(t, f.svc.IsConfigured("anthropic"))
}

func TestCredentialService_SaveRemoteFailureChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newCredentialFixture(t)
	boom := errors.New("row level security")
	f.data.UpsertAPIKeyFunc = func(ctx context.Context, key *models.APIKey) error { return boom }

	err := f.svc.Save(ctx, "u-1", "openai", "sk-x")

	assert.ErrorIs(t, err, boom)
	assert.False(t, f.svc.IsConfigured("openai"))
	_, kerr := f.keyring.GetApiKey("openai")
	assert.ErrorIs(t, kerr, keyring.ErrNotFound)
}

func TestCredentialService_LoadUserKeysIsAdditive(t *testing.T) {
	ctx := context.Background()
	f := newCredentialFixture(t)
	f.svc.Seed(ctx, map[string]string{"openai": "sk-env", "gemini": "g-env"})
	f.data.ListActiveAPIKeysFunc = func(ctx context.Context, userID string) ([]models.APIKey, error) {
		assert.Equal(t, "u-1", userID)
		return []models.APIKey{
			{UserID: userID, Service: "openai", Key: "sk-user", IsActive: true},
			{UserID: userID, Service: "anthropic", Key: "sk-ant", IsActive: true},
		}, nil
	}

	require.NoError(t, f.svc.LoadUserKeys(ctx, "u-1"))
	first := f.store.Get().APIKeys
	require.NoError(t, f.svc.LoadUserKeys(ctx, "u-1"))

	assert.Equal(t, first, f.store.Get().APIKeys)
	assert.Equal(t, map[string]string{"openai": "sk-user", "anthropic": "sk-ant", "gemini": "g-env"}, first)
}

func TestCredentialService_LoadUserKeysFailure(t *testing.T) {
	f := newCredentialFixture(t)
	f.data.ListActiveAPIKeysFunc = func(ctx context.Context, userID string) ([]models.APIKey, error) {
		return nil, errors.New("timeout")
	}

	err := f.svc.LoadUserKeys(context.Background(), "u-1")

	assert.EqualError(t, err, "load api keys: timeout")
	assert.EqualError(t, f.svc.LoadUserKeys(context.Background(), ""), "user id is required")
}

func TestCredentialService_RemoveAndList(t *testing.T) {
	ctx := context.Background()
	f := newCredentialFixture(t)
	require.NoError(t, f.svc.Save(ctx, "", "openai", "sk-1"))
	require.NoError(t, f.svc.Save(ctx, "", "gemini", "g-1"))

	list := f.svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, models.CredentialInfo{
		Service:     "gemini",
		Label:       "Google Gemini API key",
		Description: "API key for Google Gemini used by AI Team",
	}, list[0])
	assert.Equal(t, "openai", list[1].Service)

	var deactivated []string
	f.data.DeactivateAPIKeyFunc = func(ctx context.Context, userID, service string) error {
		deactivated = append(deactivated, userID+"/"+service)
		return nil
	}
	require.NoError(t, f.svc.Remove(ctx, "u-1", "openai"))

	assert.False(t, f.svc.IsConfigured("openai"))
	assert.Equal(t, []string{"u-1/openai"}, deactivated)
	providers, err := f.keyring.ListProviders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini"}, providers)
}
