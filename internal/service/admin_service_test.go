package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fashion-shop/internal/cache"
	"fashion-shop/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-process Cache used to observe admin service caching.
type memoryCache struct {
	entries map[string]string
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.entries[key], nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Close() error { return nil }

func TestAdminService_Dashboard_CachesResult(t *testing.T) {
	ctx := context.Background()

	stats := &model.DashboardStats{
		Overview: model.DashboardOverview{TotalUsers: 12, TotalOrders: 34, TotalRevenue: 990000},
	}

	mockStatsRepo := new(MockStatsRepository)
	mockStatsRepo.On("Dashboard", ctx).Return(stats, nil).Once()

	mem := newMemoryCache()
	svc := NewAdminService(mockStatsRepo, mem, 30*time.Second, zerolog.Nop())

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), first.Overview.TotalUsers)

	// The second read must come from the cache, not the repository.
	second, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Overview, second.Overview)

	mockStatsRepo.AssertExpectations(t)
	mockStatsRepo.AssertNumberOfCalls(t, "Dashboard", 1)
}

func TestAdminService_Dashboard_CacheFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()

	stats := &model.DashboardStats{
		Overview: model.DashboardOverview{TotalProducts: 5},
	}

	mockStatsRepo := new(MockStatsRepository)
	mockStatsRepo.On("Dashboard", ctx).Return(stats, nil)

	mem := newMemoryCache()
	mem.getErr = errors.New("redis gone")
	mem.setErr = errors.New("redis gone")
	svc := NewAdminService(mockStatsRepo, mem, 30*time.Second, zerolog.Nop())

	result, err := svc.Dashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Overview.TotalProducts)
}

func TestAdminService_Dashboard_NopCacheAlwaysRecomputes(t *testing.T) {
	ctx := context.Background()

	stats := &model.DashboardStats{}
	mockStatsRepo := new(MockStatsRepository)
	mockStatsRepo.On("Dashboard", ctx).Return(stats, nil).Twice()

	svc := NewAdminService(mockStatsRepo, cache.NewNopCache(), 30*time.Second, zerolog.Nop())

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	_, err = svc.Dashboard(ctx)
	require.NoError(t, err)

	mockStatsRepo.AssertNumberOfCalls(t, "Dashboard", 2)
}

func TestAdminService_Statistics_RangeKeysAreDistinct(t *testing.T) {
	ctx := context.Background()

	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	ranged := model.StatsRange{From: &from}

	all := &model.Statistics{OrdersByStatus: []model.StatusCount{{Status: model.StatusPending, Count: 3}}}
	windowed := &model.Statistics{OrdersByStatus: []model.StatusCount{{Status: model.StatusPending, Count: 1}}}

	mockStatsRepo := new(MockStatsRepository)
	mockStatsRepo.On("Statistics", ctx, model.StatsRange{}).Return(all, nil).Once()
	mockStatsRepo.On("Statistics", ctx, ranged).Return(windowed, nil).Once()

	svc := NewAdminService(mockStatsRepo, newMemoryCache(), 30*time.Second, zerolog.Nop())

	unbounded, err := svc.Statistics(ctx, model.StatsRange{})
	require.NoError(t, err)
	bounded, err := svc.Statistics(ctx, ranged)
	require.NoError(t, err)

	assert.Equal(t, int64(3), unbounded.OrdersByStatus[0].Count)
	assert.Equal(t, int64(1), bounded.OrdersByStatus[0].Count)
	mockStatsRepo.AssertExpectations(t)
}
