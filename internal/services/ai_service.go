package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"aiteam/internal/assets"
	"aiteam/internal/llm/client"
	"aiteam/internal/metrics"
	"aiteam/internal/models"
)

const (
	EmptyReplyText   = "I apologize, but I cannot generate a response right now."
	defaultPrompt    = "You are a helpful AI assistant."
	defaultPersonaID = "1"
	defaultLanguage  = "javascript"

	replyMaxTokens   = 500
	replyTemperature = 0.7
	codeMaxTokens    = 1000
	codeTemperature  = 0.3
)

// DemoDisclaimer is appended to demo replies. It names the completion
// provider whose key would enable live replies.
func DemoDisclaimer(provider string) string {
	label, ok := credentialLabels[provider]
	if !ok {
		label = provider
	}
	return "\n\n*Note: This is a demo response. Connect your " + label + " API key in Settings for full AI capabilities.*"
}

// Random picks indexes for the demo path and persona selection.
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// CredentialSource reports the secret configured for a service.
type CredentialSource interface {
	Get(service string) (string, bool)
}

type AIServiceConfig struct {
	Provider string
	// Empty means the catalog default for Provider.
	Model   string
	Factory client.Factory
	Random  Random
}

// AIService produces persona replies and generated code.
type AIService struct {
	creds    CredentialSource
	roster   *Roster
	demo     map[string][]string
	provider string
	model    string
	factory  client.Factory
	random   Random
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

func NewAIService(cfg AIServiceConfig, creds CredentialSource, roster *Roster, catalog ModelCatalog, log zerolog.Logger, m *metrics.Metrics) (*AIService, error) {
	var demo map[string][]string
	if err := json.Unmarshal(assets.DemoRepliesData, &demo); err != nil {
		return nil, fmt.Errorf("parse demo replies asset: %w", err)
	}
	if len(demo[defaultPersonaID]) == 0 {
		return nil, fmt.Errorf("demo replies for persona %s are missing", defaultPersonaID)
	}

	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" {
		provider = client.ProviderOpenAI
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		def, err := catalog.DefaultModel(provider)
		if err != nil {
			return nil, fmt.Errorf("resolve default model: %w", err)
		}
		modelName = def.APIName
	}
	factory := cfg.Factory
	if factory == nil {
		factory = client.NewChatModel
	}
	random := cfg.Random
	if random == nil {
		random = globalRandom{}
	}

	return &AIService{
		creds:    creds,
		roster:   roster,
		demo:     demo,
		provider: provider,
		model:    modelName,
		factory:  factory,
		random:   random,
		log:      log,
		metrics:  m,
	}, nil
}

func (s *AIService) Provider() string { return s.provider }
func (s *AIService) Model() string    { return s.model }

// IsConfigured reports whether service has a credential; empty means the
// completion provider.
func (s *AIService) IsConfigured(service string) bool {
	if service == "" {
		service = s.provider
	}
	_, ok := s.creds.Get(service)
	return ok
}

// GenerateResponse answers prompt as persona. Without a credential it
// returns a canned demo reply; with one it makes a single completion call.
// The conversation context is accepted for future use and ignored.
func (s *AIService) GenerateResponse(ctx context.Context, prompt, personaID string, _ any) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	key, ok := s.creds.Get(s.provider)
	if !ok {
		reply := s.demoReply(personaID)
		s.metrics.Dispatch("demo", true)
		s.log.Debug().Str("persona", personaID).Msg("demo reply")
		return reply, nil
	}

	systemPrompt := defaultPrompt
	if p, found := s.roster.Persona(personaID); found && p.Prompt != "" {
		systemPrompt = p.Prompt
	}

	text, err := s.complete(ctx, key, client.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    replyMaxTokens,
		Temperature:  replyTemperature,
	})
	if errors.Is(err, client.ErrEmptyChoice) {
		s.metrics.Dispatch("live", true)
		return EmptyReplyText, nil
	}
	if err != nil {
		s.metrics.Dispatch("live", false)
		s.log.Error().Err(err).Str("persona", personaID).Str("provider", s.provider).Msg("reply generation failed")
		return "", err
	}
	s.metrics.Dispatch("live", true)
	return text, nil
}

// GenerateCode asks the completion provider for code in language. It has
// no demo fallback.
func (s *AIService) GenerateCode(ctx context.Context, prompt, language string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	key, ok := s.creds.Get(s.provider)
	if !ok {
		return "", fmt.Errorf("%w for %s", ErrNoCredential, s.provider)
	}
	if strings.TrimSpace(language) == "" {
		language = defaultLanguage
	}

	text, err := s.complete(ctx, key, client.CompletionRequest{
		SystemPrompt: fmt.Sprintf("You are an expert %s developer. Generate clean, well-commented code based on the user's request. Only return the code without explanations unless specifically asked.", language),
		UserPrompt:   prompt,
		MaxTokens:    codeMaxTokens,
		Temperature:  codeTemperature,
	})
	if errors.Is(err, client.ErrEmptyChoice) {
		s.metrics.Dispatch("live", true)
		return "", nil
	}
	if err != nil {
		s.metrics.Dispatch("live", false)
		s.log.Error().Err(err).Str("language", language).Msg("code generation failed")
		return "", err
	}
	s.metrics.Dispatch("live", true)
	return text, nil
}

// PerformResearch returns simulated results; no research backend is wired.
func (s *AIService) PerformResearch(_ context.Context, query string) (models.ResearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return models.ResearchResult{}, ErrEmptyPrompt
	}
	return models.ResearchResult{
		Summary: "Research results for: " + query,
		Sources: []models.ResearchSource{
			{
				Title:   "Relevant Article 1",
				URL:     "https://example.com/article1",
				Snippet: "This article provides insights into the topic...",
			},
			{
				Title:   "Relevant Article 2",
				URL:     "https://example.com/article2",
				Snippet: "Additional information about the subject...",
			},
		},
	}, nil
}

// DemoReplies returns the canned replies used for persona.
func (s *AIService) DemoReplies(personaID string) []string {
	replies, ok := s.demo[personaID]
	if !ok || len(replies) == 0 {
		replies = s.demo[defaultPersonaID]
	}
	return replies
}

func (s *AIService) demoReply(personaID string) string {
	replies := s.DemoReplies(personaID)
	return replies[s.random.IntN(len(replies))] + DemoDisclaimer(s.provider)
}

func (s *AIService) complete(ctx context.Context, key string, req client.CompletionRequest) (string, error) {
	chat, err := s.factory(ctx, s.provider, key, s.model)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	text, err := client.New(s.provider, s.model, chat).Complete(ctx, req)
	if errors.Is(err, client.ErrEmptyChoice) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	return text, nil
}
