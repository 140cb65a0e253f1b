package unit_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCatalog_GroupsInAssetOrder(t *testing.T) {
	catalog := newCatalog(t)

	groups := catalog.ListModelGroups()

	require.Len(t, groups, 3)
	assert.Equal(t, "openai", groups[0].ProviderID)
	assert.Equal(t, "anthropic", groups[1].ProviderID)
	assert.Equal(t, "gemini", groups[2].ProviderID)
	for _, g := range groups {
		assert.NotEmpty(t, g.Models, g.ProviderID)
	}
}

func TestModelCatalog_DefaultModel(t *testing.T) {
	catalog := newCatalog(t)

	m, err := catalog.DefaultModel("openai")
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", m.APIName)
	assert.True(t, m.Default)

	_, err = catalog.DefaultModel("mistral")
	assert.EqualError(t, err, "no models for provider mistral")
	_, err = catalog.DefaultModel("")
	assert.EqualError(t, err, "provider is required")
}

func TestModelCatalog_GetModel(t *testing.T) {
	catalog := newCatalog(t)

	m, err := catalog.GetModel("anthropic|claude-3-5-haiku-latest")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.ProviderID)

	_, err = catalog.GetModel("openai|gpt-9")
	assert.EqualError(t, err, "model openai|gpt-9 not found")
}
