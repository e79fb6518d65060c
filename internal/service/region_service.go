package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/repository"
	"go.uber.org/zap"
)

// Ключи кэша навигации: nav:<версия>:<имя>. Любая запись в регионы или подрегионы
// увеличивает версию, поэтому список, прочитанный до записи, попадает под старую
// версию и больше не читается.
const (
	navCachePrefix        = "nav:"
	navVersionKey         = "nav-version"
	regionsCacheKey       = "regions"
	subRegionsCacheKey    = "subregions"
	subRegionsByRegionKey = "subregions:region:"
)

// RegionService управляет регионами и подрегионами
type RegionService interface {
	ListRegions(ctx context.Context) ([]models.Region, error)
	GetRegion(ctx context.Context, id int64) (*models.Region, error)
	CreateRegion(ctx context.Context, input *models.CreateRegionInput) (*models.Region, error)
	UpdateRegion(ctx context.Context, id int64, input *models.UpdateRegionInput) (*models.Region, error)
	// DeleteRegion удаляет регион вместе с подрегионами, листингами и их кликами
	DeleteRegion(ctx context.Context, id int64) error

	// ListSubRegions принимает необязательный region_id в сыром виде
	ListSubRegions(ctx context.Context, rawRegionID string) ([]models.SubRegion, error)
	GetSubRegion(ctx context.Context, id int64) (*models.SubRegion, error)
	CreateSubRegion(ctx context.Context, input *models.CreateSubRegionInput) (*models.SubRegion, error)
	UpdateSubRegion(ctx context.Context, id int64, input *models.UpdateSubRegionInput) (*models.SubRegion, error)
	DeleteSubRegion(ctx context.Context, id int64) error
}

type regionService struct {
	regions    repository.RegionRepository
	subRegions repository.SubRegionRepository
	cache      repository.CacheRepository
	opts       options
}

// NewRegionService создаёт новый экземпляр сервиса
func NewRegionService(
	regions repository.RegionRepository,
	subRegions repository.SubRegionRepository,
	cache repository.CacheRepository,
	opts ...Option,
) RegionService {
	return &regionService{
		regions:    regions,
		subRegions: subRegions,
		cache:      cache,
		opts:       buildOptions(opts),
	}
}

func (s *regionService) ListRegions(ctx context.Context) ([]models.Region, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	key, cacheable := s.navKey(ctx, regionsCacheKey)

	var regions []models.Region
	if cacheable && s.fromCache(ctx, key, &regions) {
		return regions, nil
	}

	regions, err := s.regions.List(ctx)
	if err != nil {
		return nil, mapRepoErr("list regions", "region", 0, err)
	}

	if cacheable {
		s.toCache(ctx, key, regions)
	}

	return regions, nil
}

func (s *regionService) GetRegion(ctx context.Context, id int64) (*models.Region, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	region, err := s.regions.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get region", "region", id, err)
	}
	return region, nil
}

func (s *regionService) CreateRegion(ctx context.Context, input *models.CreateRegionInput) (*models.Region, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	region := &models.Region{
		Name:         input.Name,
		Slug:         input.Slug,
		RegionGroup:  input.RegionGroup,
		DisplayOrder: input.DisplayOrder,
	}
	if err := s.regions.Create(ctx, region); err != nil {
		return nil, mapRepoErr("create region", "region", 0, err)
	}

	s.invalidate(ctx)
	s.opts.logger.Info("Region created", zap.Int64("region_id", region.ID), zap.String("slug", region.Slug))

	return region, nil
}

func (s *regionService) UpdateRegion(ctx context.Context, id int64, input *models.UpdateRegionInput) (*models.Region, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return nil, invalid("body", "no updatable fields supplied")
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	region, err := s.regions.Update(ctx, id, input)
	if err != nil {
		return nil, mapRepoErr("update region", "region", id, err)
	}

	s.invalidate(ctx)

	return region, nil
}

func (s *regionService) DeleteRegion(ctx context.Context, id int64) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if err := s.regions.Delete(ctx, id); err != nil {
		return mapRepoErr("delete region", "region", id, err)
	}

	s.invalidate(ctx)
	s.opts.logger.Info("Region deleted", zap.Int64("region_id", id))

	return nil
}

func (s *regionService) ListSubRegions(ctx context.Context, rawRegionID string) ([]models.SubRegion, error) {
	regionID, err := parseOptionalID("region_id", rawRegionID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	name := subRegionsCacheKey
	if regionID != nil {
		name = subRegionsByRegionKey + strconv.FormatInt(*regionID, 10)
	}
	key, cacheable := s.navKey(ctx, name)

	var subs []models.SubRegion
	if cacheable && s.fromCache(ctx, key, &subs) {
		return subs, nil
	}

	subs, err = s.subRegions.List(ctx, regionID)
	if err != nil {
		return nil, mapRepoErr("list sub-regions", "sub-region", 0, err)
	}

	if cacheable {
		s.toCache(ctx, key, subs)
	}

	return subs, nil
}

func (s *regionService) GetSubRegion(ctx context.Context, id int64) (*models.SubRegion, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	sub, err := s.subRegions.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get sub-region", "sub-region", id, err)
	}
	return sub, nil
}

func (s *regionService) CreateSubRegion(ctx context.Context, input *models.CreateSubRegionInput) (*models.SubRegion, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	sub := &models.SubRegion{
		RegionID:     input.RegionID,
		Name:         input.Name,
		Slug:         input.Slug,
		DisplayOrder: input.DisplayOrder,
	}
	if err := s.subRegions.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrRegionNotFound) {
			return nil, invalid("region_id", "region does not exist")
		}
		return nil, mapRepoErr("create sub-region", "sub-region", 0, err)
	}

	s.invalidate(ctx)
	s.opts.logger.Info("Sub-region created",
		zap.Int64("sub_region_id", sub.ID),
		zap.Int64("region_id", sub.RegionID),
	)

	return sub, nil
}

func (s *regionService) UpdateSubRegion(ctx context.Context, id int64, input *models.UpdateSubRegionInput) (*models.SubRegion, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return nil, invalid("body", "no updatable fields supplied")
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	sub, err := s.subRegions.Update(ctx, id, input)
	if err != nil {
		return nil, mapRepoErr("update sub-region", "sub-region", id, err)
	}

	s.invalidate(ctx)

	return sub, nil
}

func (s *regionService) DeleteSubRegion(ctx context.Context, id int64) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if err := s.subRegions.Delete(ctx, id); err != nil {
		return mapRepoErr("delete sub-region", "sub-region", id, err)
	}

	s.invalidate(ctx)
	s.opts.logger.Info("Sub-region deleted", zap.Int64("sub_region_id", id))

	return nil
}

// navKey строит ключ текущей версии. Версию нужно прочитать до обращения к БД.
// Если Redis недоступен, запрос обслуживается без кэша.
func (s *regionService) navKey(ctx context.Context, name string) (string, bool) {
	var version int64
	if err := s.cache.Get(ctx, navVersionKey, &version); err != nil && !errors.Is(err, repository.ErrCacheMiss) {
		s.opts.logger.Warn("Cache version read failed", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("%s%d:%s", navCachePrefix, version, name), true
}

// fromCache читает значение из кэша. Ошибки Redis не ломают запрос: идём в БД.
func (s *regionService) fromCache(ctx context.Context, key string, dest any) bool {
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.opts.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *regionService) toCache(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.opts.cacheTTL); err != nil {
		s.opts.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate переключает версию и удаляет записи прежних версий
func (s *regionService) invalidate(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, navVersionKey); err != nil {
		s.opts.logger.Warn("Cache version bump failed", zap.Error(err))
	}
	if err := s.cache.DeletePrefix(ctx, navCachePrefix); err != nil {
		s.opts.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}
