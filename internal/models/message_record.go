package models

import "time"

// MessageRecord is the data-service row mirrored for every chat message.
type MessageRecord struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	ConversationID string    `gorm:"size:64;not null;index:idx_message_conversation" json:"conversation_id"`
	SenderID       string    `gorm:"size:64;not null" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	MessageType    string    `gorm:"size:16;not null;default:text" json:"message_type"`
	Metadata       string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (MessageRecord) TableName() string { return "messages" }

// DefaultConversationID is used until multiple conversations are supported.
const DefaultConversationID = "default"
