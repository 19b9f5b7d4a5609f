package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fashion-shop/internal/mail"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"
	"fashion-shop/internal/storage"
	"fashion-shop/internal/token"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// authService implements AuthService.
type authService struct {
	userRepo  repository.UserRepository
	tokens    *token.Manager
	store     storage.Store
	publisher mail.Publisher
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *token.Manager,
	store storage.Store,
	publisher mail.Publisher,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		store:     store,
		publisher: publisher,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Signup registers a new account and issues a token pair.
func (s *authService) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user, []model.Role{model.RoleUser}); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("signup failed")
		return nil, err
	}
	user.Roles = []model.Role{model.RoleUser}

	if err := s.publisher.Publish(ctx, mail.NewWelcomeEvent(user.Email, user.FullName)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to publish welcome mail event")
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return s.issueTokens(user, true)
}

// Login verifies credentials and issues a token pair.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, model.NewValidationError("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("bad password attempt")
		return nil, model.ErrBadCredentials
	}

	if !user.IsActive {
		return nil, model.ErrInactiveUser
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to stamp last login")
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return s.issueTokens(user, true)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *authService) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, model.NewValidationError("refresh token is required")
	}

	userID, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, model.ErrInvalidToken
	}

	return s.issueTokens(user, false)
}

// GetProfile returns the caller's account.
func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user not found")
	}
	return user, nil
}

// UpdateProfile updates the caller's profile fields.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = name
	}
	user.Phone = strings.TrimSpace(req.Phone)
	user.Address = strings.TrimSpace(req.Address)

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// UpdateAvatar stores a new avatar image and replaces the old one.
func (s *authService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload ImageUpload) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := storage.NewKey("avatars/", upload.Filename)
	url, err := s.store.Put(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	oldKey := user.AvatarKey
	user.AvatarURL = url
	user.AvatarKey = key

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	if oldKey != "" {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			s.logger.Error().Err(err).Str("key", oldKey).Msg("failed to delete previous avatar")
		}
	}

	return user, nil
}

// ChangePassword verifies the current password and sets a new one.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return model.NewValidationError("new password must be at least %d characters", minPasswordLength)
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.NewDomainError(model.KindAuthentication, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("password changed")
	return nil
}

// issueTokens mints an access token, plus a refresh token when
// withRefresh is set (refresh responses reuse the presented token's
// lifetime by omitting a new one).
func (s *authService) issueTokens(user *model.User, withRefresh bool) (*model.AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	resp := &model.AuthResponse{AccessToken: access, User: user}
	if withRefresh {
		refresh, err := s.tokens.GenerateRefreshToken(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to issue refresh token: %w", err)
		}
		resp.RefreshToken = refresh
	}
	return resp, nil
}

func validateSignup(req *model.SignupRequest) error {
	switch {
	case strings.TrimSpace(req.FullName) == "":
		return model.NewValidationError("full name is required")
	case strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@"):
		return model.NewValidationError("a valid email is required")
	case len(req.Password) < minPasswordLength:
		return model.NewValidationError("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
