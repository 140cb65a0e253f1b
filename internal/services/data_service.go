package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"aiteam/internal/models"
	"aiteam/internal/repositories"
)

// DataService is the backing store for chat messages, per-user API keys and
// projects. remote.Client implements it against the hosted service;
// NewLocalDataService implements it over the local database.
type DataService interface {
	InsertMessage(ctx context.Context, rec *models.MessageRecord) error
	UpsertAPIKey(ctx context.Context, key *models.APIKey) error
	ListActiveAPIKeys(ctx context.Context, userID string) ([]models.APIKey, error)
	DeactivateAPIKey(ctx context.Context, userID, service string) error
	UpsertProject(ctx context.Context, p *models.Project) error
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
}

// UserSecrets holds per-user API keys outside the database.
type UserSecrets interface {
	StoreUserKey(userID, service, secret string) error
	GetUserKey(userID, service string) (string, error)
	DeleteUserKey(userID, service string) error
}

type localDataService struct {
	messages repositories.MessageRepository
	keys     repositories.APIKeyRepository
	projects repositories.ProjectRepository
	secrets  UserSecrets
}

// NewLocalDataService keeps API key rows in the database with an empty key
// column; the secrets themselves go to secrets.
func NewLocalDataService(
	messages repositories.MessageRepository,
	keys repositories.APIKeyRepository,
	projects repositories.ProjectRepository,
	secrets UserSecrets,
) DataService {
	return &localDataService{messages: messages, keys: keys, projects: projects, secrets: secrets}
}

func (s *localDataService) InsertMessage(ctx context.Context, rec *models.MessageRecord) error {
	return s.messages.Insert(ctx, rec)
}

func (s *localDataService) UpsertAPIKey(ctx context.Context, key *models.APIKey) error {
	if key == nil {
		return fmt.Errorf("api key is required")
	}
	if err := s.secrets.StoreUserKey(key.UserID, key.Service, key.Key); err != nil {
		return fmt.Errorf("store secret for %s: %w", key.Service, err)
	}
	row := *key
	row.Key = ""
	if err := s.keys.Upsert(ctx, &row); err != nil {
		return err
	}
	key.ID = row.ID
	return nil
}

// ListActiveAPIKeys fills each row's key from the secret store. Rows whose
// secret is gone are skipped.
func (s *localDataService) ListActiveAPIKeys(ctx context.Context, userID string) ([]models.APIKey, error) {
	rows, err := s.keys.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.APIKey, 0, len(rows))
	for _, row := range rows {
		secret, err := s.secrets.GetUserKey(userID, row.Service)
		if errors.Is(err, keyring.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read secret for %s: %w", row.Service, err)
		}
		row.Key = secret
		out = append(out, row)
	}
	return out, nil
}

func (s *localDataService) DeactivateAPIKey(ctx context.Context, userID, service string) error {
	if err := s.keys.Deactivate(ctx, userID, service); err != nil {
		return err
	}
	return s.secrets.DeleteUserKey(userID, service)
}

func (s *localDataService) UpsertProject(ctx context.Context, p *models.Project) error {
	return s.projects.Upsert(ctx, p)
}

func (s *localDataService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}
