package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aiteam/internal/models"
	"aiteam/internal/repositories"
	"aiteam/internal/state"
)

type UserService interface {
	Register(ctx context.Context, name string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	// SignIn makes the user with id the current identity.
	SignIn(ctx context.Context, id string) (*models.User, error)
	SignOut()
	Current() *models.User
}

type userService struct {
	users repositories.UserRepository
	store *state.Store[state.AppState]
}

func NewUserService(users repositories.UserRepository, store *state.Store[state.AppState]) UserService {
	return &userService{users: users, store: store}
}

func (s *userService) Register(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	u := &models.User{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *userService) SignIn(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Identities issued by the hosted service have no local row yet.
		u = &models.User{ID: id}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", id, err)
		}
	} else if err != nil {
		return nil, err
	}
	s.store.Dispatch(state.SetUser(u))
	return u, nil
}

func (s *userService) SignOut() {
	s.store.Dispatch(state.SetUser(nil))
}

func (s *userService) Current() *models.User {
	if u := s.store.Get().User; u != nil {
		cp := *u
		return &cp
	}
	return nil
}
