package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aiteam/internal/models"
)

type MessageRepository interface {
	Insert(ctx context.Context, rec *models.MessageRecord) error
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]models.MessageRecord, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Insert(ctx context.Context, rec *models.MessageRecord) error {
	if rec == nil {
		return fmt.Errorf("message is required")
	}
	if rec.ConversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID string, limit int) ([]models.MessageRecord, error) {
	var out []models.MessageRecord
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
