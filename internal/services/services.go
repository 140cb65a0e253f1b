package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"aiteam/internal/config"
	"aiteam/internal/llm/client"
	"aiteam/internal/metrics"
	"aiteam/internal/remote"
	"aiteam/internal/repositories"
	"aiteam/internal/state"
)

// Deps are the collaborators the service container is built from. Data,
// Factory and Random are optional.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     zerolog.Logger
	Metrics *metrics.Metrics

	Data    DataService
	Factory client.Factory
	Random  Random
}

// Services aggregates all domain services.
// Fields use plural names (e.g., Users) to align with Go conventions
// seen in service/store containers.
type Services struct {
	State       *state.Store[state.AppState]
	Data        DataService
	Models      ModelCatalog
	Settings    *SettingsService
	Memory      *AppMemoryService
	Keyring     *KeyringService
	Credentials *CredentialService
	AI          *AIService
	Chat        *ChatService
	Projects    ProjectService
	Team        *TeamService
	Users       UserService

	persister *StatePersister
	cfg       *config.Config
	log       zerolog.Logger
}

// New constructs the service container using repositories backed by db.
func New(deps Deps) (*Services, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	cfg := deps.Config
	log := deps.Log

	slotRepo := repositories.NewSlotRepository(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB)

	kr := NewKeyringService(slotRepo)

	data := deps.Data
	if data == nil {
		var err error
		data, err = newDataService(cfg, deps.DB, kr)
		if err != nil {
			return nil, err
		}
	}

	store := state.NewStore(state.NewAppState())

	catalog, err := NewModelCatalog()
	if err != nil {
		return nil, err
	}
	roster, err := LoadRoster()
	if err != nil {
		return nil, err
	}

	settings, err := NewSettingsService(slotRepo, log.With().Str("component", "settings").Logger(), deps.Metrics)
	if err != nil {
		return nil, err
	}
	memory, err := NewAppMemoryService(slotRepo, log.With().Str("component", "memory").Logger(), deps.Metrics)
	if err != nil {
		return nil, err
	}
	persister, err := NewStatePersister(store, slotRepo, log.With().Str("component", "state").Logger(), deps.Metrics)
	if err != nil {
		return nil, err
	}

	creds := NewCredentialService(store, kr, data, log.With().Str("component", "credentials").Logger())

	ai, err := NewAIService(AIServiceConfig{
		Provider: cfg.CompletionProvider,
		Model:    cfg.CompletionModel,
		Factory:  deps.Factory,
		Random:   deps.Random,
	}, creds, roster, catalog, log.With().Str("component", "ai").Logger(), deps.Metrics)
	if err != nil {
		return nil, err
	}

	chat, err := NewChatService(ChatServiceConfig{
		PersonaIDs: roster.IDs(),
		Random:     deps.Random,
	}, store, ai, creds, data, log.With().Str("component", "chat").Logger(), deps.Metrics)
	if err != nil {
		return nil, err
	}

	return &Services{
		State:       store,
		Data:        data,
		Models:      catalog,
		Settings:    settings,
		Memory:      memory,
		Keyring:     kr,
		Credentials: creds,
		AI:          ai,
		Chat:        chat,
		Projects:    NewProjectService(store, data, log.With().Str("component", "projects").Logger()),
		Team:        NewTeamService(store, roster, log.With().Str("component", "team").Logger()),
		Users:       NewUserService(userRepo, store),
		persister:   persister,
		cfg:         cfg,
		log:         log,
	}, nil
}

func newDataService(cfg *config.Config, db *gorm.DB, secrets UserSecrets) (DataService, error) {
	if cfg.SupabaseURL == "" {
		return NewLocalDataService(
			repositories.NewMessageRepository(db),
			repositories.NewAPIKeyRepository(db),
			repositories.NewProjectRepository(db),
			secrets,
		), nil
	}
	timeout, err := time.ParseDuration(cfg.RemoteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid REMOTE_TIMEOUT %q: %w", cfg.RemoteTimeout, err)
	}
	c, err := remote.New(remote.Config{
		BaseURL: cfg.SupabaseURL,
		AnonKey: cfg.SupabaseAnonKey,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create data service client: %w", err)
	}
	return c, nil
}

// Startup loads the persisted records and seeds credentials. It is called
// once before any other service method.
func (s *Services) Startup(ctx context.Context) {
	s.Settings.Load(ctx)
	s.Memory.Load(ctx)
	s.persister.Start(ctx)
	s.Credentials.Seed(ctx, s.cfg.DefaultCredentials())

	if s.cfg.UserID != "" {
		if _, err := s.Users.SignIn(ctx, s.cfg.UserID); err != nil {
			s.log.Warn().Err(err).Str("user", s.cfg.UserID).Msg("failed to sign in configured user")
		}
	}
	if user := s.Users.Current(); user != nil {
		if err := s.Credentials.LoadUserKeys(ctx, user.ID); err != nil {
			s.log.Warn().Err(err).Msg("failed to load user API keys")
		}
		if err := s.Projects.Sync(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to sync projects")
		}
	}
	s.log.Info().
		Str("provider", s.AI.Provider()).
		Str("model", s.AI.Model()).
		Bool("live", s.AI.IsConfigured("")).
		Msg("services started")
}

// Shutdown waits for pending message mirrors and stops state persistence.
func (s *Services) Shutdown() {
	s.Chat.WaitMirrors()
	s.persister.Stop()
}
