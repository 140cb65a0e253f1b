package models

import (
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name      string `gorm:"size:120" json:"name"`
	AvatarURL string `gorm:"size:512" json:"avatarUrl,omitempty"`
}
