package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// UserSenderID marks messages written by the human user.
const UserSenderID = "user"

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageCode  MessageType = "code"
	MessageFile  MessageType = "file"
	MessageImage MessageType = "image"
)

// Body is the type-specific part of a Message. Only the variants below
// implement it.
type Body interface {
	Type() MessageType
	isBody()
}

type TextBody struct{}

type CodeBody struct {
	Language string `json:"language,omitempty"`
}

type FileBody struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

type ImageBody struct {
	FileName string `json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
}

func (TextBody) Type() MessageType  { return MessageText }
func (CodeBody) Type() MessageType  { return MessageCode }
func (FileBody) Type() MessageType  { return MessageFile }
func (ImageBody) Type() MessageType { return MessageImage }

func (TextBody) isBody()  {}
func (CodeBody) isBody()  {}
func (FileBody) isBody()  {}
func (ImageBody) isBody() {}

// Message is one entry of the chat transcript.
type Message struct {
	ID        string
	SenderID  string
	Content   string
	Timestamp time.Time
	Body      Body
}

// Type reports the content type, treating a nil body as text.
func (m Message) Type() MessageType {
	if m.Body == nil {
		return MessageText
	}
	return m.Body.Type()
}

// FromUser reports whether the human user sent the message.
func (m Message) FromUser() bool {
	return m.SenderID == UserSenderID
}

type messageJSON struct {
	ID        string          `json:"id"`
	SenderID  string          `json:"senderId"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Type      MessageType     `json:"type"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	out := messageJSON{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Type:      m.Type(),
	}
	meta, err := MarshalMetadata(m.Body)
	if err != nil {
		return nil, err
	}
	out.Metadata = meta
	return json.Marshal(out)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var in messageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Type == "" {
		in.Type = MessageText
	}
	body, err := DecodeBody(in.Type, in.Metadata)
	if err != nil {
		return err
	}
	*m = Message{
		ID:        in.ID,
		SenderID:  in.SenderID,
		Content:   in.Content,
		Timestamp: in.Timestamp,
		Body:      body,
	}
	return nil
}

// MarshalMetadata encodes the variant fields of b, or returns nil when the
// variant carries none.
func MarshalMetadata(b Body) (json.RawMessage, error) {
	switch v := b.(type) {
	case nil, TextBody:
		return nil, nil
	case CodeBody:
		if v.Language == "" {
			return nil, nil
		}
		return json.Marshal(v)
	default:
		return json.Marshal(v)
	}
}

// DecodeBody rebuilds a Body from its type tag and optional metadata.
func DecodeBody(t MessageType, meta json.RawMessage) (Body, error) {
	var (
		body Body
		err  error
	)
	switch t {
	case MessageText:
		return TextBody{}, nil
	case MessageCode:
		var b CodeBody
		err = unmarshalMeta(meta, &b)
		body = b
	case MessageFile:
		var b FileBody
		err = unmarshalMeta(meta, &b)
		body = b
	case MessageImage:
		var b ImageBody
		err = unmarshalMeta(meta, &b)
		body = b
	default:
		return nil, fmt.Errorf("unknown message type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", t, err)
	}
	return body, nil
}

func unmarshalMeta(meta json.RawMessage, v any) error {
	if len(meta) == 0 || string(meta) == "null" {
		return nil
	}
	return json.Unmarshal(meta, v)
}

// ParseMessageType validates a wire type tag.
func ParseMessageType(s string) (MessageType, error) {
	switch t := MessageType(s); t {
	case MessageText, MessageCode, MessageFile, MessageImage:
		return t, nil
	case "":
		return MessageText, nil
	default:
		return "", fmt.Errorf("unknown message type %q", s)
	}
}
