package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("AITEAM_DB_PATH", "test.db")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.CompletionProvider)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "test.db", cfg.DBPath)
	assert.Empty(t, cfg.SupabaseURL)
}

func TestNew_UnsupportedProvider(t *testing.T) {
	t.Setenv("AITEAM_COMPLETION_PROVIDER", "mistral")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported COMPLETION_PROVIDER")
}

func TestNew_SupabaseRequiresAnonKey(t *testing.T) {
	t.Setenv("AITEAM_SUPABASE_URL", "https://example.supabase.co")

	_, err := New()
	require.Error(t, err)
}

func TestResolveDefaults_NormalizesProvider(t *testing.T) {
	cfg := Config{CompletionProvider: " Anthropic ", LogLevel: "debug", DBPath: "x.db"}
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "anthropic", cfg.CompletionProvider)
}

func TestDefaultCredentials_SkipsBlank(t *testing.T) {
	cfg := Config{OpenAIAPIKey: " sk-test ", GeminiAPIKey: "  "}
	assert.Equal(t, map[string]string{"openai": "sk-test"}, cfg.DefaultCredentials())
}
