package models

import "time"

// StorageSlot is one named string value in the durable key/value store.
type StorageSlot struct {
	Key       string `gorm:"column:slot_key;primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
