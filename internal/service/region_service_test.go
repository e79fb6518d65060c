package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/SergeiKhy/shop-directory/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegionService(t *testing.T) (service.RegionService, *mocks.Store, *mocks.MockCacheRepository) {
	t.Helper()

	store := mocks.NewStore()
	cache := mocks.NewMockCacheRepository()
	return service.NewRegionService(store.Regions(), store.SubRegions(), cache), store, cache
}

func TestRegionService_ListRegions_Cached(t *testing.T) {
	regions, store, cache := setupRegionService(t)
	store.AddRegion("Tokyo", "tokyo")

	first, err := regions.ListRegions(context.Background())
	require.NoError(t, err)
	second, err := regions.ListRegions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Calls("regions.List"))
	assert.True(t, cache.Has("nav:0:regions"))
}

// Запись администратора между чтением из БД и записью в кэш не должна оставить
// в кэше устаревший список.
func TestRegionService_WriteDuringCacheFillIsNotServed(t *testing.T) {
	regions, store, cache := setupRegionService(t)
	store.AddRegion("Tokyo", "tokyo")

	var once sync.Once
	cache.BeforeSet = func(key string) {
		once.Do(func() {
			_, err := regions.CreateRegion(context.Background(), &models.CreateRegionInput{
				Name:        "Osaka",
				Slug:        "osaka",
				RegionGroup: "Kansai",
			})
			require.NoError(t, err)
		})
	}

	stale, err := regions.ListRegions(context.Background())
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	fresh, err := regions.ListRegions(context.Background())
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, store.Calls("regions.List"))

	cached, err := regions.ListRegions(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, 2)
	assert.Equal(t, 2, store.Calls("regions.List"))
}

func TestRegionService_WritesInvalidateCache(t *testing.T) {
	regions, store, cache := setupRegionService(t)
	tokyo := store.AddRegion("Tokyo", "tokyo")

	_, err := regions.ListRegions(context.Background())
	require.NoError(t, err)
	_, err = regions.ListSubRegions(context.Background(), fmt.Sprint(tokyo))
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	_, err = regions.CreateSubRegion(context.Background(), &models.CreateSubRegionInput{
		RegionID: tokyo,
		Name:     "Shibuya",
		Slug:     "shibuya",
	})
	require.NoError(t, err)
	assert.False(t, cache.Has("nav:0:regions"))
	assert.False(t, cache.Has(fmt.Sprintf("nav:0:subregions:region:%d", tokyo)))
	assert.True(t, cache.Has("nav-version"))

	subs, err := regions.ListSubRegions(context.Background(), fmt.Sprint(tokyo))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Tokyo", subs[0].RegionName)
}

func TestRegionService_CacheFailureFallsBackToStore(t *testing.T) {
	regions, store, cache := setupRegionService(t)
	store.AddRegion("Tokyo", "tokyo")
	cache.Err = errors.New("redis down")

	list, err := regions.ListRegions(context.Background())

	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegionService_CreateRegion(t *testing.T) {
	regions, _, _ := setupRegionService(t)

	region, err := regions.CreateRegion(context.Background(), &models.CreateRegionInput{
		Name:        "Tokyo",
		Slug:        "tokyo",
		RegionGroup: "Kanto",
	})
	require.NoError(t, err)
	assert.NotZero(t, region.ID)

	_, err = regions.CreateRegion(context.Background(), &models.CreateRegionInput{
		Name:        "Tokyo again",
		Slug:        "tokyo",
		RegionGroup: "Kanto",
	})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Field)

	_, err = regions.CreateRegion(context.Background(), &models.CreateRegionInput{
		Name:        "Bad",
		Slug:        "Not A Slug",
		RegionGroup: "Kanto",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRegionService_UpdateRegion(t *testing.T) {
	regions, store, _ := setupRegionService(t)
	id := store.AddRegion("Tokyo", "tokyo")

	order := 3
	region, err := regions.UpdateRegion(context.Background(), id, &models.UpdateRegionInput{DisplayOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, 3, region.DisplayOrder)
	assert.Equal(t, "tokyo", region.Slug)

	_, err = regions.UpdateRegion(context.Background(), id, &models.UpdateRegionInput{})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = regions.UpdateRegion(context.Background(), 999, &models.UpdateRegionInput{DisplayOrder: &order})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// TestRegionService_DeleteRegion_Cascades: удаление региона уносит подрегионы, листинги и клики
func TestRegionService_DeleteRegion_Cascades(t *testing.T) {
	regions, store, _ := setupRegionService(t)
	tokyo := store.AddRegion("Tokyo", "tokyo")
	shibuya := store.AddSubRegion(tokyo, "Shibuya", "shibuya")
	listing := store.AddListing(models.Listing{Name: "Shop", RegionID: tokyo, SubRegionID: &shibuya, IsActive: true})

	require.NoError(t, regions.DeleteRegion(context.Background(), tokyo))

	_, err := regions.GetSubRegion(context.Background(), shibuya)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, ok := store.Listing(listing)
	assert.False(t, ok)

	assert.ErrorIs(t, regions.DeleteRegion(context.Background(), tokyo), service.ErrNotFound)
}

func TestRegionService_SubRegions(t *testing.T) {
	regions, store, _ := setupRegionService(t)
	tokyo := store.AddRegion("Tokyo", "tokyo")
	osaka := store.AddRegion("Osaka", "osaka")
	store.AddSubRegion(tokyo, "Shibuya", "shibuya")
	store.AddSubRegion(osaka, "Namba", "namba")

	all, err := regions.ListSubRegions(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = regions.ListSubRegions(context.Background(), "osaka")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = regions.CreateSubRegion(context.Background(), &models.CreateSubRegionInput{
		RegionID: 999,
		Name:     "Nowhere",
		Slug:     "nowhere",
	})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "region_id", verr.Field)

	name := "Namba-Sennichimae"
	sub, err := regions.UpdateSubRegion(context.Background(), all[1].ID, &models.UpdateSubRegionInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, sub.Name)

	require.NoError(t, regions.DeleteSubRegion(context.Background(), sub.ID))
	assert.ErrorIs(t, regions.DeleteSubRegion(context.Background(), sub.ID), service.ErrNotFound)
}
