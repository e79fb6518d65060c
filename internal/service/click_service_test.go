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
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

func setupClickService(t *testing.T) (service.ClickService, *mocks.Store, int64) {
	t.Helper()

	store := mocks.NewStore()
	region := store.AddRegion("Tokyo", "tokyo")
	clicks := service.NewClickService(store.Clicks(), store.Listings())
	return clicks, store, region
}

// TestClickService_RecordClick_Sequential: три клика подряд по листингу 7
func TestClickService_RecordClick_Sequential(t *testing.T) {
	clicks, store, region := setupClickService(t)
	store.AddListing(models.Listing{ID: 7, Name: "Shop", RegionID: region, IsActive: true})

	for i := 0; i < 3; i++ {
		require.NoError(t, clicks.RecordClick(context.Background(), 7))
	}

	listing, _ := store.Listing(7)
	assert.Equal(t, int64(3), listing.ClickCount)
	assert.Equal(t, 3, store.ClickEvents(7))
}

func TestClickService_RecordClick_Concurrent(t *testing.T) {
	clicks, store, region := setupClickService(t)
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, ClickCount: 10, IsActive: true})

	const n = 50
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return clicks.RecordClick(context.Background(), id)
		})
	}
	require.NoError(t, g.Wait())

	listing, _ := store.Listing(id)
	assert.Equal(t, int64(10+n), listing.ClickCount)
	assert.Equal(t, n, store.ClickEvents(id))
}

func TestClickService_RecordClick_NotFound(t *testing.T) {
	clicks, store, region := setupClickService(t)
	inactive := store.AddListing(models.Listing{Name: "Closed", RegionID: region, IsActive: false})

	err := clicks.RecordClick(context.Background(), 999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = clicks.RecordClick(context.Background(), inactive)
	assert.ErrorIs(t, err, service.ErrNotFound)

	listing, _ := store.Listing(inactive)
	assert.Zero(t, listing.ClickCount)
	assert.Zero(t, store.ClickEvents(inactive))
	assert.Equal(t, 2, store.Calls("clicks.WithinTx"))
}

// TestClickService_RecordClick_AppendFailureRollsBack: сбой записи журнала откатывает и счётчик
func TestClickService_RecordClick_AppendFailureRollsBack(t *testing.T) {
	clicks, store, region := setupClickService(t)
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, ClickCount: 4, IsActive: true})
	store.FailAppend = errors.New("disk full")

	err := clicks.RecordClick(context.Background(), id)

	assert.ErrorIs(t, err, service.ErrStorage)
	listing, _ := store.Listing(id)
	assert.Equal(t, int64(4), listing.ClickCount)
	assert.Zero(t, store.ClickEvents(id))
	assert.Equal(t, 1, store.Calls("clicks.WithinTx"))
}

func TestClickService_RecordClick_RetriesConflicts(t *testing.T) {
	clicks, store, region := setupClickService(t)
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, IsActive: true})
	store.Conflicts = 2

	require.NoError(t, clicks.RecordClick(context.Background(), id))

	listing, _ := store.Listing(id)
	assert.Equal(t, int64(1), listing.ClickCount)
	assert.Equal(t, 1, store.ClickEvents(id))
	assert.Equal(t, 3, store.Calls("clicks.WithinTx"))
}

func TestClickService_RecordClick_GivesUpOnPersistentConflict(t *testing.T) {
	clicks, store, region := setupClickService(t)
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, IsActive: true})
	store.Conflicts = 100

	err := clicks.RecordClick(context.Background(), id)

	assert.ErrorIs(t, err, service.ErrStorage)
	listing, _ := store.Listing(id)
	assert.Zero(t, listing.ClickCount)
	assert.Zero(t, store.ClickEvents(id))
}

// TestClickService_ResetClicks_KeepsLedger: сброс обнуляет счётчик, журнал остаётся прежним
func TestClickService_ResetClicks_KeepsLedger(t *testing.T) {
	clicks, store, region := setupClickService(t)
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, IsActive: true})
	for i := 0; i < 5; i++ {
		require.NoError(t, clicks.RecordClick(context.Background(), id))
	}
	before := store.ClickEvents(id)

	require.NoError(t, clicks.ResetClicks(context.Background(), id))

	listing, _ := store.Listing(id)
	assert.Zero(t, listing.ClickCount)
	assert.Equal(t, before, store.ClickEvents(id))

	// Счётчик снова растёт с нуля, журнал продолжает копиться
	require.NoError(t, clicks.RecordClick(context.Background(), id))
	listing, _ = store.Listing(id)
	assert.Equal(t, int64(1), listing.ClickCount)
	assert.Equal(t, before+1, store.ClickEvents(id))
}

func TestClickService_ResetClicks_LogsLedgerSize(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := mocks.NewStore()
	region := store.AddRegion("Tokyo", "tokyo")
	clicks := service.NewClickService(store.Clicks(), store.Listings(), service.WithLogger(zap.New(core)))
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, IsActive: true})
	for i := 0; i < 4; i++ {
		require.NoError(t, clicks.RecordClick(context.Background(), id))
	}

	require.NoError(t, clicks.ResetClicks(context.Background(), id))

	entries := logs.FilterMessage("Click counter reset").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, id, fields["listing_id"])
	assert.Equal(t, int64(4), fields["ledger_clicks"])
	assert.Equal(t, 1, store.Calls("clicks.CountByListing"))
}

func TestClickService_ResetClicks_NotFound(t *testing.T) {
	clicks, store, region := setupClickService(t)
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, ClickCount: 3, IsActive: true})

	err := clicks.ResetClicks(context.Background(), 999)

	assert.ErrorIs(t, err, service.ErrNotFound)
	listing, _ := store.Listing(id)
	assert.Equal(t, int64(3), listing.ClickCount)
}

func TestClickService_RecentClicks(t *testing.T) {
	clicks, store, region := setupClickService(t)
	id := store.AddListing(models.Listing{Name: "Shop", RegionID: region, IsActive: true})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.AddClick(id, base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := clicks.RecentClicks(context.Background(), "3")

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, base.Add(4*time.Minute), entries[0].ClickedAt)
	assert.Equal(t, "Shop", entries[0].ListingName)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].ClickedAt.After(entries[i].ClickedAt))
	}

	all, err := clicks.RecentClicks(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = clicks.RecentClicks(context.Background(), "-5")
	assert.ErrorIs(t, err, service.ErrValidation)
}
