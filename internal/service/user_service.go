package service

import (
	"context"
	"fmt"

	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultUserPageLimit = 20

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new user admin service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// List retrieves users matching the filter.
func (s *userService) List(ctx context.Context, filter model.UserFilter) ([]model.User, *model.Pagination, error) {
	filter.Page, filter.Limit = model.NormalizePage(filter.Page, filter.Limit, defaultUserPageLimit)

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, model.NewPagination(total, filter.Page, filter.Limit), nil
}

// GetByID retrieves one user.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user not found")
	}
	return user, nil
}

// SetRoles replaces a user's role set.
func (s *userService) SetRoles(ctx context.Context, id uuid.UUID, roles []model.Role) (*model.User, error) {
	if len(roles) == 0 {
		return nil, model.NewValidationError("at least one role is required")
	}
	for _, r := range roles {
		if !r.Valid() {
			return nil, model.NewValidationError("unknown role: %s", r)
		}
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRoles(ctx, id, roles); err != nil {
		return nil, fmt.Errorf("failed to set roles: %w", err)
	}

	s.logger.Info().Str("user_id", id.String()).Interface("roles", roles).Msg("roles updated")
	return s.GetByID(ctx, id)
}

// SetActive activates or deactivates an account.
func (s *userService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update account state: %w", err)
	}

	s.logger.Info().Str("user_id", id.String()).Bool("active", active).Msg("account state updated")
	return nil
}

// Delete removes an account. An admin cannot delete themselves.
func (s *userService) Delete(ctx context.Context, actor model.Principal, id uuid.UUID) error {
	if actor.UserID == id {
		return model.NewValidationError("you cannot delete your own account")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info().
		Str("user_id", id.String()).
		Str("actor_id", actor.UserID.String()).
		Msg("user deleted")
	return nil
}
