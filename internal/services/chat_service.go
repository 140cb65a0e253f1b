package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aiteam/internal/events"
	"aiteam/internal/metrics"
	"aiteam/internal/models"
	"aiteam/internal/remote"
	"aiteam/internal/state"
)

const (
	FallbackReplyText  = "I apologize, but I cannot respond right now. Please ensure your API keys are configured correctly."
	replyFailedNotice  = "Failed to generate AI response. Please check your API keys."
	codeFailedNotice   = "Failed to generate code. Please check your API keys."
	researchFailNotice = "Failed to perform research."

	defaultMirrorRetries = 3
)

// Responder produces replies for the chat.
type Responder interface {
	GenerateResponse(ctx context.Context, prompt, personaID string, convCtx any) (string, error)
	GenerateCode(ctx context.Context, prompt, language string) (string, error)
	PerformResearch(ctx context.Context, query string) (models.ResearchResult, error)
}

// UserKeyLoader refreshes the credential table for a signed-in user.
type UserKeyLoader interface {
	LoadUserKeys(ctx context.Context, userID string) error
}

type ChatServiceConfig struct {
	// PersonaIDs are the personas a user message may be answered by.
	PersonaIDs []string
	Random     Random
	// NewBackOff builds the retry policy of one mirror write.
	NewBackOff    func() backoff.BackOff
	MirrorRetries uint64
}

// ChatService appends messages to the transcript, mirrors them to the data
// service and answers user messages with one persona reply.
type ChatService struct {
	store    *state.Store[state.AppState]
	ai       Responder
	keys     UserKeyLoader
	data     DataService
	personas []string
	random   Random
	newBO    func() backoff.BackOff
	retries  uint64
	log      zerolog.Logger
	metrics  *metrics.Metrics
	mirrors  sync.WaitGroup
	now      func() time.Time
}

func NewChatService(cfg ChatServiceConfig, store *state.Store[state.AppState], ai Responder, keys UserKeyLoader, data DataService, log zerolog.Logger, m *metrics.Metrics) (*ChatService, error) {
	if len(cfg.PersonaIDs) == 0 {
		return nil, fmt.Errorf("at least one persona is required")
	}
	random := cfg.Random
	if random == nil {
		random = globalRandom{}
	}
	newBO := cfg.NewBackOff
	if newBO == nil {
		newBO = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return b
		}
	}
	retries := cfg.MirrorRetries
	if retries == 0 {
		retries = defaultMirrorRetries
	}
	return &ChatService{
		store:    store,
		ai:       ai,
		keys:     keys,
		data:     data,
		personas: slices.Clone(cfg.PersonaIDs),
		random:   random,
		newBO:    newBO,
		retries:  retries,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}, nil
}

// SendMessage appends a message to the transcript and returns it. When the
// user is the sender, one persona reply (or the fallback message) is
// appended before SendMessage returns.
func (s *ChatService) SendMessage(ctx context.Context, content, senderID string, body models.Body) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, ErrEmptyMessage
	}
	if strings.TrimSpace(senderID) == "" {
		return models.Message{}, fmt.Errorf("sender is required")
	}
	if body == nil {
		body = models.TextBody{}
	}

	msg := s.append(ctx, senderID, content, body)
	s.mirror(ctx, msg)

	if msg.FromUser() {
		s.respond(ctx, content)
	}
	return msg, nil
}

func (s *ChatService) respond(ctx context.Context, prompt string) {
	s.setTyping(ctx, true)
	defer s.setTyping(ctx, false)

	personaID := s.personas[s.random.IntN(len(s.personas))]
	s.loadUserKeys(ctx)

	reply, err := s.ai.GenerateResponse(ctx, prompt, personaID, nil)
	if err != nil {
		s.log.Error().Err(err).Str("persona", personaID).Msg("error generating AI response")
		events.Notify(ctx, events.NewError(replyFailedNotice))
		s.append(ctx, defaultPersonaID, FallbackReplyText, models.TextBody{})
		return
	}

	msg := s.append(ctx, personaID, reply, models.TextBody{})
	s.mirror(ctx, msg)
}

// GenerateCode returns generated code, reporting failures as a notice.
func (s *ChatService) GenerateCode(ctx context.Context, prompt, language string) (string, error) {
	s.loadUserKeys(ctx)
	code, err := s.ai.GenerateCode(ctx, prompt, language)
	if err != nil {
		s.log.Error().Err(err).Msg("error generating code")
		events.Notify(ctx, events.NewError(codeFailedNotice))
		return "", err
	}
	return code, nil
}

func (s *ChatService) PerformResearch(ctx context.Context, query string) (models.ResearchResult, error) {
	res, err := s.ai.PerformResearch(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Msg("error performing research")
		events.Notify(ctx, events.NewError(researchFailNotice))
		return models.ResearchResult{}, err
	}
	return res, nil
}

func (s *ChatService) Messages() []models.Message {
	return slices.Clone(s.store.Get().Messages)
}

func (s *ChatService) IsTyping() bool {
	return s.store.Get().IsTyping
}

func (s *ChatService) ClearMessages(ctx context.Context) {
	s.store.Dispatch(state.ClearMessages())
	events.Publish(ctx, events.ChatCleared, nil)
}

// WaitMirrors blocks until every pending mirror write has finished.
func (s *ChatService) WaitMirrors() {
	s.mirrors.Wait()
}

func (s *ChatService) append(ctx context.Context, senderID, content string, body models.Body) models.Message {
	msg := models.Message{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Content:   content,
		Timestamp: s.now(),
		Body:      body,
	}
	s.store.Dispatch(state.AddMessage(msg))
	events.Publish(ctx, events.ChatMessageAdded, msg)
	return msg
}

func (s *ChatService) setTyping(ctx context.Context, typing bool) {
	s.store.Dispatch(state.SetTyping(typing))
	events.Publish(ctx, events.ChatTypingChanged, typing)
}

func (s *ChatService) loadUserKeys(ctx context.Context) {
	user := s.store.Get().User
	if user == nil || user.ID == "" || s.keys == nil {
		return
	}
	if err := s.keys.LoadUserKeys(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user", user.ID).Msg("error loading API keys")
	}
}

// mirror writes msg to the data service in the background. Failures are
// logged and counted; the transcript is never rolled back.
func (s *ChatService) mirror(ctx context.Context, msg models.Message) {
	if s.data == nil {
		return
	}
	rec, err := toMessageRecord(msg)
	if err != nil {
		s.log.Error().Err(err).Str("message", msg.ID).Msg("error encoding message")
		s.metrics.MirrorFailed()
		return
	}

	mctx := context.WithoutCancel(ctx)
	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()
		op := func() error {
			err := s.data.InsertMessage(mctx, rec)
			if err != nil && !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		b := backoff.WithContext(backoff.WithMaxRetries(s.newBO(), s.retries), mctx)
		if err := backoff.Retry(op, b); err != nil {
			s.metrics.MirrorFailed()
			s.log.Error().Err(err).Str("message", msg.ID).Msg("error saving message")
		}
	}()
}

// retryable reports whether a mirror failure may succeed on a later try.
// Client errors from the hosted service are final.
func retryable(err error) bool {
	var se *remote.StatusError
	if errors.As(err, &se) {
		return se.Status >= http.StatusInternalServerError || se.Status == http.StatusTooManyRequests
	}
	return true
}

func toMessageRecord(msg models.Message) (*models.MessageRecord, error) {
	meta, err := models.MarshalMetadata(msg.Body)
	if err != nil {
		return nil, err
	}
	return &models.MessageRecord{
		ID:             msg.ID,
		ConversationID: models.DefaultConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		MessageType:    string(msg.Type()),
		Metadata:       string(meta),
		CreatedAt:      msg.Timestamp,
	}, nil
}
