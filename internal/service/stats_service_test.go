package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/SergeiKhy/shop-directory/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func TestStartOfDay(t *testing.T) {
	loc := tokyo(t)

	// 2026-03-09 15:30 UTC: уже 10 марта по Токио
	now := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)
	start := service.StartOfDay(now, loc)

	assert.True(t, start.Equal(time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)))
	assert.True(t, service.StartOfDay(now, time.UTC).Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestStatsService_Dashboard(t *testing.T) {
	store := mocks.NewStore()
	region := store.AddRegion("Tokyo", "tokyo")
	store.AddRegion("Osaka", "osaka")
	store.AddSubRegion(region, "Shibuya", "shibuya")

	store.AddListing(models.Listing{Name: "A", RegionID: region, IsPremium: true, ClickCount: 5, IsActive: true})
	store.AddListing(models.Listing{Name: "B", RegionID: region, ClickCount: 7, IsActive: true})
	store.AddListing(models.Listing{Name: "Hidden", RegionID: region, IsPremium: true, ClickCount: 100, IsActive: false})

	now := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)
	stats := service.NewStatsService(store.Stats(), tokyo(t), service.WithClock(func() time.Time { return now }))

	got, err := stats.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &models.DashboardStats{
		TotalListings:   2,
		PremiumListings: 1,
		TotalClicks:     12,
		TodayClicks:     0,
		TotalRegions:    2,
		TotalSubRegions: 1,
	}, got)
}

// TestStatsService_Dashboard_TodayBoundary проверяет границу суток по Asia/Tokyo
func TestStatsService_Dashboard_TodayBoundary(t *testing.T) {
	store := mocks.NewStore()
	region := store.AddRegion("Tokyo", "tokyo")
	id := store.AddListing(models.Listing{Name: "A", RegionID: region, IsActive: true})

	midnight := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC) // 00:00 JST 10 марта
	store.AddClick(id, midnight.Add(-time.Second))
	store.AddClick(id, midnight)
	store.AddClick(id, midnight.Add(8*time.Hour))

	now := midnight.Add(8*time.Hour + 30*time.Minute)
	stats := service.NewStatsService(store.Stats(), tokyo(t), service.WithClock(func() time.Time { return now }))

	got, err := stats.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TodayClicks)

	// В UTC те же клики приходятся на одни сутки
	utc := service.NewStatsService(store.Stats(), time.UTC, service.WithClock(func() time.Time { return now }))
	got, err = utc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TodayClicks)
}

// TestStatsService_Dashboard_ResetDivergence: после сброса totalClicks расходится с журналом
func TestStatsService_Dashboard_ResetDivergence(t *testing.T) {
	store := mocks.NewStore()
	region := store.AddRegion("Tokyo", "tokyo")
	id := store.AddListing(models.Listing{Name: "A", RegionID: region, IsActive: true})

	clicks := service.NewClickService(store.Clicks(), store.Listings())
	stats := service.NewStatsService(store.Stats(), time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, clicks.RecordClick(context.Background(), id))
	}

	got, err := stats.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.TotalClicks)
	assert.Equal(t, int64(4), got.TodayClicks)

	require.NoError(t, clicks.ResetClicks(context.Background(), id))

	got, err = stats.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.TotalClicks)
	assert.Equal(t, int64(4), got.TodayClicks)
	assert.Equal(t, 4, store.ClickEvents(id))
}

func TestStatsService_Dashboard_StorageError(t *testing.T) {
	store := mocks.NewStore()
	store.Err = errors.New("connection reset")

	stats := service.NewStatsService(store.Stats(), nil)
	got, err := stats.Dashboard(context.Background())

	assert.ErrorIs(t, err, service.ErrStorage)
	assert.Nil(t, got)
}
