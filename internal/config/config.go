package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"aiteam/internal/database"
	"aiteam/internal/utils"
)

// Config holds process configuration.
// Environment variables are parsed with the AITEAM_ prefix,
// e.g. AITEAM_OPENAI_API_KEY, AITEAM_SUPABASE_URL.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Empty means database.GetDefaultDBPath().
	DBPath string `envconfig:"DB_PATH" default:""`

	CompletionProvider string `envconfig:"COMPLETION_PROVIDER" default:"openai"`
	// Empty means the provider's default model from the catalog.
	CompletionModel string `envconfig:"COMPLETION_MODEL" default:""`

	// Default credentials available before any user saves their own.
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY" default:""`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY" default:""`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY" default:""`

	// Hosted data service. When the URL is empty the local database is used.
	SupabaseURL     string `envconfig:"SUPABASE_URL" default:""`
	SupabaseAnonKey string `envconfig:"SUPABASE_ANON_KEY" default:""`
	RemoteTimeout   string `envconfig:"REMOTE_TIMEOUT" default:"30s"`

	UserID string `envconfig:"USER_ID" default:""`
}

var providers = map[string]bool{"openai": true, "anthropic": true, "gemini": true}

// ResolveDefaults validates the provider and log level and derives the DB path.
func (c *Config) ResolveDefaults() error {
	c.CompletionProvider = strings.ToLower(strings.TrimSpace(c.CompletionProvider))
	if !providers[c.CompletionProvider] {
		return fmt.Errorf("unsupported COMPLETION_PROVIDER: %s", c.CompletionProvider)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %s", c.LogLevel)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = database.GetDefaultDBPath()
	}
	if c.SupabaseURL != "" && c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required when SUPABASE_URL is set")
	}
	return nil
}

// DefaultCredentials returns the non-empty environment credentials keyed by service.
func (c *Config) DefaultCredentials() map[string]string {
	out := make(map[string]string)
	for service, key := range map[string]string{
		"openai":    c.OpenAIAPIKey,
		"anthropic": c.AnthropicAPIKey,
		"gemini":    c.GeminiAPIKey,
	} {
		if k := strings.TrimSpace(key); k != "" {
			out[service] = k
		}
	}
	return out
}

// New parses the environment into a Config.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("AITEAM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads an optional .env file at the project root and then the environment.
func Load(log zerolog.Logger) (*Config, error) {
	if err := utils.LoadEnv(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	cfg, err := New()
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("environment", cfg.Environment).
		Str("db_path", cfg.DBPath).
		Str("completion_provider", cfg.CompletionProvider).
		Bool("remote_data_service", cfg.SupabaseURL != "").
		Int("default_credentials", len(cfg.DefaultCredentials())).
		Msg("configuration loaded")
	return cfg, nil
}
