package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fashion-shop/internal/cache"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"

	"github.com/rs/zerolog"
)

// adminService implements AdminService. Aggregates are cached briefly;
// cache failures only cost a recompute, never an error.
type adminService struct {
	statsRepo repository.StatsRepository
	cache     cache.Cache
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewAdminService creates a new admin reporting service.
func NewAdminService(
	statsRepo repository.StatsRepository,
	c cache.Cache,
	ttl time.Duration,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		statsRepo: statsRepo,
		cache:     c,
		ttl:       ttl,
		logger:    logger.With().Str("service", "admin").Logger(),
	}
}

// Dashboard returns the admin dashboard rollups.
func (s *adminService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	key := cache.Key("stats", "dashboard")

	var cached model.DashboardStats
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.statsRepo.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard: %w", err)
	}

	s.toCache(ctx, key, stats)
	return stats, nil
}

// Statistics returns grouped order statistics for an optional range.
func (s *adminService) Statistics(ctx context.Context, r model.StatsRange) (*model.Statistics, error) {
	key := cache.Key("stats", "statistics", rangeKey(r))

	var cached model.Statistics
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.statsRepo.Statistics(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	s.toCache(ctx, key, stats)
	return stats, nil
}

func (s *adminService) fromCache(ctx context.Context, key string, dest any) bool {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if value == "" {
		return false
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("stale cache entry could not be decoded")
		return false
	}
	return true
}

func (s *adminService) toCache(ctx context.Context, key string, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, string(encoded), s.ttl); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func rangeKey(r model.StatsRange) string {
	from, to := "-", "-"
	if r.From != nil {
		from = r.From.UTC().Format("20060102")
	}
	if r.To != nil {
		to = r.To.UTC().Format("20060102")
	}
	return from + ":" + to
}
