package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type NoticeType string

const (
	NoticeInfo    NoticeType = "info"
	NoticeWarn    NoticeType = "warn"
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
)

// Event names delivered to the frontend.
const (
	NoticeChannel      = "events:notice"
	ChatMessageAdded   = "events:chat:message"
	ChatTypingChanged  = "events:chat:typing"
	ChatCleared        = "events:chat:cleared"
	SettingsChanged    = "events:settings:changed"
	AppMemoryChanged   = "events:memory:changed"
	CredentialsChanged = "events:credentials:changed"
	ProjectsChanged    = "events:projects:changed"
	TeamMembersChanged = "events:team:changed"
)

// Notice is a transient user-visible message (toast).
type Notice struct {
	ID             string            `json:"id"`
	Type           NoticeType        `json:"type"`
	Message        string            `json:"message"`
	Timestamp      time.Time         `json:"timestamp"`
	ConversationID string            `json:"conversationId,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const conversationContextKey contextKey = "aiteam/events/conversation"

// WithConversation returns a derived context annotated with the conversation
// id so emitted notices are scoped to it.
func WithConversation(ctx context.Context, conversationID string) context.Context {
	if strings.TrimSpace(conversationID) == "" {
		return ctx
	}
	return context.WithValue(ctx, conversationContextKey, conversationID)
}

// ConversationFromContext extracts the conversation id associated with ctx.
func ConversationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(conversationContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateNotice(t NoticeType, message string) Notice {
	return Notice{
		ID:        uuid.NewString(),
		Type:      t,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info Notice.
func NewInfo(message string) Notice {
	return CreateNotice(NoticeInfo, message)
}

// NewWarn creates a warn Notice.
func NewWarn(message string) Notice {
	return CreateNotice(NoticeWarn, message)
}

// NewError creates an error Notice.
func NewError(message string) Notice {
	return CreateNotice(NoticeError, message)
}

// NewSuccess creates a success Notice.
func NewSuccess(message string) Notice {
	return CreateNotice(NoticeSuccess, message)
}
