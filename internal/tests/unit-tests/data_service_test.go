package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"aiteam/internal/models"
	"aiteam/internal/repositories"
	"aiteam/internal/services"
	"aiteam/internal/tests/mocks"
)

func TestLocalDataService_APIKeySecretsStayOutOfDatabase(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	db := newMemoryDB(t)
	keys := repositories.NewAPIKeyRepository(db)
	kr := services.NewKeyringService(mocks.NewSlotRepositoryMock())
	data := services.NewLocalDataService(
		repositories.NewMessageRepository(db),
		keys,
		repositories.NewProjectRepository(db),
		kr,
	)

	require.NoError(t, data.UpsertAPIKey(ctx, &models.APIKey{UserID: "u1", Service: "openai", Key: "sk-secret", IsActive: true}))

	rows, err := keys.ListActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Key, "secret is not written to the database")

	var raw []string
	require.NoError(t, db.Raw("SELECT api_key FROM api_keys").Scan(&raw).Error)
	assert.NotContains(t, raw, "sk-secret")

	listed, err := data.ListActiveAPIKeys(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "sk-secret", listed[0].Key)

	require.NoError(t, data.DeactivateAPIKey(ctx, "u1", "openai"))
	_, err = kr.GetUserKey("u1", "openai")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
	listed, err = data.ListActiveAPIKeys(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestLocalDataService_SkipsRowsWithoutSecret(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	db := newMemoryDB(t)
	keys := repositories.NewAPIKeyRepository(db)
	data := services.NewLocalDataService(
		repositories.NewMessageRepository(db),
		keys,
		repositories.NewProjectRepository(db),
		services.NewKeyringService(mocks.NewSlotRepositoryMock()),
	)
	require.NoError(t, keys.Upsert(ctx, &models.APIKey{UserID: "u1", Service: "gemini", IsActive: true}))

	listed, err := data.ListActiveAPIKeys(ctx, "u1")

	require.NoError(t, err)
	assert.Empty(t, listed)
}
