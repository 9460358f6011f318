package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tasktracker/internal/auth"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

// UserService exposes user lookups and the superuser bootstrap.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	EnsureSuperuser(ctx context.Context, email, password string) (user *model.User, created bool, err error)
}

type userService struct {
	repo   repository.UserRepository
	hasher *auth.PasswordHasher
}

// NewUserService builds a UserService over the user repository.
func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher) UserService {
	return &userService{repo: repo, hasher: hasher}
}

// GetUser always reads the stored record. Identity resolution relies on it,
// so a deactivation or demotion applies to the very next request.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// EnsureSuperuser creates an active superuser with the given credentials
// unless a user with that email already exists.
func (s *userService) EnsureSuperuser(ctx context.Context, email, password string) (*model.User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("check superuser existence: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			// Lost a race with another bootstrap run.
			existing, findErr := s.repo.FindByEmail(ctx, email)
			if findErr != nil {
				return nil, false, fmt.Errorf("find superuser: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create superuser: %w", err)
	}
	return user, true, nil
}
