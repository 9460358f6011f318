package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/auth"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

// AuthService handles registration, login and token resolution.
type AuthService interface {
	Register(ctx context.Context, email, password string, fullName *string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
	ResolveIdentity(ctx context.Context, claims *auth.Claims) (*model.User, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo    repository.UserRepository
	userService UserService
	hasher      *auth.PasswordHasher
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	// dummyHash is compared against when the email is unknown so both
	// rejection paths cost the same.
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	userService UserService,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	dummyHash, _ := hasher.Hash("timing-equaliser")
	return &authService{
		userRepo:    userRepo,
		userService: userService,
		hasher:      hasher,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		dummyHash:   dummyHash,
	}
}

// Register creates a new active, non-privileged user with a hashed password.
func (s *authService) Register(ctx context.Context, email, password string, fullName *string) (*model.User, error) {
	// The unique index decides races; this check only saves a hash.
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FullName:     fullName,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user when email and password match. Unknown
// email and wrong password both yield ErrInvalidCredentials. The active
// flag is not checked here.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates, rejects inactive users and issues an access token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, apperrors.ErrInactiveAccount
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, user, nil
}

// ResolveIdentity turns validated claims into the calling user.
func (s *authService) ResolveIdentity(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	if claims == nil {
		return nil, apperrors.ErrInvalidToken
	}
	if s.IsRevoked(ctx, claims) {
		return nil, fmt.Errorf("%w: revoked", apperrors.ErrInvalidToken)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	user, err := s.userService.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveAccount
	}
	return user, nil
}

// IsRevoked reports whether the token was revoked by a logout.
func (s *authService) IsRevoked(ctx context.Context, claims *auth.Claims) bool {
	if claims.ID == "" {
		return false
	}
	revoked, _ := s.tokenStore.IsAccessTokenRevoked(ctx, claims.ID)
	return revoked
}

// Logout revokes the presented token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return apperrors.ErrInvalidToken
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.RevokeAccessToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
