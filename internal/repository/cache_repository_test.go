package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (repository.CacheRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return repository.NewCacheRepository(&repository.RedisDB{Client: client}), mr
}

func TestCacheRepository_SetGet(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	subs := []models.SubRegion{{ID: 3, RegionID: 1, RegionName: "Tokyo", Name: "Shibuya", Slug: "shibuya"}}
	require.NoError(t, cache.Set(ctx, "nav:subregions:region:1", subs, time.Minute))

	// Ключи живут в собственном пространстве имён
	assert.True(t, mr.Exists("directory:nav:subregions:region:1"))

	var got []models.SubRegion
	require.NoError(t, cache.Get(ctx, "nav:subregions:region:1", &got))
	assert.Equal(t, subs[0].Name, got[0].Name)
	assert.Equal(t, subs[0].RegionName, got[0].RegionName)
}

func TestCacheRepository_Expiry(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "nav:regions", []models.Region{{ID: 1}}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got []models.Region
	assert.ErrorIs(t, cache.Get(ctx, "nav:regions", &got), repository.ErrCacheMiss)
}

func TestCacheRepository_DeletePrefix(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	for _, key := range []string{"nav:regions", "nav:subregions", "nav:subregions:region:7"} {
		require.NoError(t, cache.Set(ctx, key, []int{1}, time.Minute))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, cache.DeletePrefix(ctx, "nav:"))

	assert.Equal(t, []string{"other:key"}, mr.Keys())

	// Пустой префикс без ключей не ошибка
	require.NoError(t, cache.DeletePrefix(ctx, "nav:"))
}

func TestCacheRepository_Incr(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	var version int64
	assert.ErrorIs(t, cache.Get(ctx, "nav-version", &version), repository.ErrCacheMiss)

	n, err := cache.Incr(ctx, "nav-version")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = cache.Incr(ctx, "nav-version")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, cache.Get(ctx, "nav-version", &version))
	assert.Equal(t, int64(2), version)
	assert.True(t, mr.Exists("directory:nav-version"))

	// Счётчик версии не попадает под удаление записей кэша
	require.NoError(t, cache.DeletePrefix(ctx, "nav:"))
	assert.True(t, mr.Exists("directory:nav-version"))
}

func TestCacheRepository_Unavailable(t *testing.T) {
	cache, mr := setupCache(t)
	mr.Close()

	var got []models.Region
	err := cache.Get(context.Background(), "nav:regions", &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCacheMiss)
}
