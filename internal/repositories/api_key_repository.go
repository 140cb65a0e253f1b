package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aiteam/internal/models"
)

type APIKeyRepository interface {
	Upsert(ctx context.Context, key *models.APIKey) error
	ListActiveByUser(ctx context.Context, userID string) ([]models.APIKey, error)
	Deactivate(ctx context.Context, userID, service string) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Upsert(ctx context.Context, key *models.APIKey) error {
	if key == nil {
		return fmt.Errorf("api key is required")
	}
	if key.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if key.Service == "" {
		return fmt.Errorf("service is required")
	}
	if key.ID == "" {
		key.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "service"}},
		DoUpdates: clause.AssignmentColumns([]string{"api_key", "is_active"}),
	}).Create(key).Error
}

func (r *apiKeyRepository) ListActiveByUser(ctx context.Context, userID string) ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("service").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepository) Deactivate(ctx context.Context, userID, service string) error {
	return r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("user_id = ? AND service = ?", userID, service).
		Update("is_active", false).Error
}
