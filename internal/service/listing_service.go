package service

import (
	"context"
	"errors"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/repository"
	"go.uber.org/zap"
)

// Константы выдачи
const (
	DefaultListingLimit = 100
	MaxListingLimit     = 500
)

// ListingService интерфейс сервиса каталога
type ListingService interface {
	// ListListings публичная выдача, фильтрация и ранжирование активных листингов
	ListListings(ctx context.Context, query models.ListingQuery) ([]models.Listing, error)
	// GetListing возвращает только активный листинг
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	CreateListing(ctx context.Context, input *models.CreateListingInput) (*models.Listing, error)
	UpdateListing(ctx context.Context, id int64, input *models.UpdateListingInput) (*models.Listing, error)
	// DeleteListing снимает листинг с публикации; purge удаляет его вместе с журналом кликов
	DeleteListing(ctx context.Context, id int64, purge bool) error
}

type listingService struct {
	listings   repository.ListingRepository
	regions    repository.RegionRepository
	subRegions repository.SubRegionRepository
	opts       options
}

// NewListingService создаёт новый экземпляр сервиса
func NewListingService(
	listings repository.ListingRepository,
	regions repository.RegionRepository,
	subRegions repository.SubRegionRepository,
	opts ...Option,
) ListingService {
	return &listingService{
		listings:   listings,
		regions:    regions,
		subRegions: subRegions,
		opts:       buildOptions(opts),
	}
}

// ParseListingQuery валидирует сырые параметры запроса. Любое некорректное
// значение даёт ValidationError, а не пустую или полную выдачу.
func ParseListingQuery(query models.ListingQuery) (models.ListingFilter, error) {
	var (
		filter models.ListingFilter
		err    error
	)

	if filter.RegionID, err = parseOptionalID("region_id", query.RegionID); err != nil {
		return models.ListingFilter{}, err
	}
	if filter.SubRegionID, err = parseOptionalID("sub_region_id", query.SubRegionID); err != nil {
		return models.ListingFilter{}, err
	}
	if filter.Keyword, err = parseKeyword(query.Keyword); err != nil {
		return models.ListingFilter{}, err
	}
	if filter.Limit, err = parseLimit(query.Limit, DefaultListingLimit, MaxListingLimit); err != nil {
		return models.ListingFilter{}, err
	}

	return filter, nil
}

func (s *listingService) ListListings(ctx context.Context, query models.ListingQuery) ([]models.Listing, error) {
	filter, err := ParseListingQuery(query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	listings, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, mapRepoErr("list listings", "listing", 0, err)
	}

	SortListings(listings)

	return listings, nil
}

func (s *listingService) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get listing", "listing", id, err)
	}
	if !listing.IsActive {
		return nil, &NotFoundError{Resource: "listing", ID: id}
	}

	return listing, nil
}

func (s *listingService) CreateListing(ctx context.Context, input *models.CreateListingInput) (*models.Listing, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if err := s.checkPlacement(ctx, input.RegionID, input.SubRegionID); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Name:        input.Name,
		RegionID:    input.RegionID,
		SubRegionID: input.SubRegionID,
		Address:     input.Address,
		Phone:       input.Phone,
		URL:         input.URL,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsPremium:   input.IsPremium,
		ServiceType: input.ServiceType,
		IsActive:    true,
	}
	if listing.ServiceType == "" {
		listing.ServiceType = models.ServiceTypeBoth
	}
	if input.IsActive != nil {
		listing.IsActive = *input.IsActive
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, mapRepoErr("create listing", "listing", 0, err)
	}

	s.opts.logger.Info("Listing created",
		zap.Int64("listing_id", listing.ID),
		zap.Int64("region_id", listing.RegionID),
		zap.Bool("premium", listing.IsPremium),
	)

	return listing, nil
}

func (s *listingService) UpdateListing(ctx context.Context, id int64, input *models.UpdateListingInput) (*models.Listing, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return nil, invalid("body", "no updatable fields supplied")
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if input.RegionID != nil || input.SubRegionID != nil {
		current, err := s.listings.GetByID(ctx, id)
		if err != nil {
			return nil, mapRepoErr("get listing", "listing", id, err)
		}

		regionID := current.RegionID
		if input.RegionID != nil {
			regionID = *input.RegionID
		}
		subRegionID := current.SubRegionID
		if input.SubRegionID != nil {
			subRegionID = nil
			if *input.SubRegionID != 0 {
				subRegionID = input.SubRegionID
			}
		}

		if err := s.checkPlacement(ctx, regionID, subRegionID); err != nil {
			return nil, err
		}
	}

	listing, err := s.listings.Update(ctx, id, input)
	if err != nil {
		return nil, mapRepoErr("update listing", "listing", id, err)
	}

	return listing, nil
}

func (s *listingService) DeleteListing(ctx context.Context, id int64, purge bool) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	var err error
	if purge {
		err = s.listings.Delete(ctx, id)
	} else {
		err = s.listings.Deactivate(ctx, id)
	}
	if err != nil {
		return mapRepoErr("delete listing", "listing", id, err)
	}

	s.opts.logger.Info("Listing deleted", zap.Int64("listing_id", id), zap.Bool("purge", purge))

	return nil
}

// checkPlacement проверяет, что регион существует, а подрегион (если указан)
// принадлежит именно этому региону.
func (s *listingService) checkPlacement(ctx context.Context, regionID int64, subRegionID *int64) error {
	if _, err := s.regions.GetByID(ctx, regionID); err != nil {
		if errors.Is(err, repository.ErrRegionNotFound) {
			return invalid("region_id", "region does not exist")
		}
		return mapRepoErr("get region", "region", regionID, err)
	}

	if subRegionID == nil {
		return nil
	}

	sub, err := s.subRegions.GetByID(ctx, *subRegionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubRegionNotFound) {
			return invalid("sub_region_id", "sub-region does not exist")
		}
		return mapRepoErr("get sub-region", "sub-region", *subRegionID, err)
	}
	if sub.RegionID != regionID {
		return invalid("sub_region_id", "sub-region belongs to a different region")
	}

	return nil
}
