package models

import "time"

// APIKey is a credential row stored per user and service.
type APIKey struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_api_key_user_service" json:"user_id"`
	Service   string    `gorm:"size:50;not null;uniqueIndex:idx_api_key_user_service" json:"service"`
	Key       string    `gorm:"column:api_key;type:text;not null" json:"api_key"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (APIKey) TableName() string { return "api_keys" }

// CredentialInfo describes a configured credential without exposing its secret.
type CredentialInfo struct {
	Service     string `json:"service"`
	Label       string `json:"label"`
	Description string `json:"description"`
}
