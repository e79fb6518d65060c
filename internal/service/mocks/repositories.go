package mocks

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/repository"
)

var (
	_ repository.RegionRepository    = (*MockRegionRepository)(nil)
	_ repository.SubRegionRepository = (*MockSubRegionRepository)(nil)
	_ repository.ListingRepository   = (*MockListingRepository)(nil)
	_ repository.ClickRepository     = (*MockClickRepository)(nil)
	_ repository.StatsRepository     = (*MockStatsRepository)(nil)
)

// MockRegionRepository implements repository.RegionRepository for testing
type MockRegionRepository struct {
	s *Store
}

func (m *MockRegionRepository) List(ctx context.Context) ([]models.Region, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("regions.List"); err != nil {
		return nil, err
	}

	regions := make([]models.Region, 0, len(m.s.regions))
	for _, r := range m.s.regions {
		regions = append(regions, *r)
	}
	slices.SortFunc(regions, func(a, b models.Region) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
	return regions, nil
}

func (m *MockRegionRepository) GetByID(ctx context.Context, id int64) (*models.Region, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("regions.GetByID"); err != nil {
		return nil, err
	}

	r, ok := m.s.regions[id]
	if !ok {
		return nil, repository.ErrRegionNotFound
	}
	out := *r
	return &out, nil
}

func (m *MockRegionRepository) Create(ctx context.Context, region *models.Region) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("regions.Create"); err != nil {
		return err
	}

	if m.s.slugTaken(region.Slug) {
		return repository.ErrSlugExists
	}
	region.ID = m.s.id(0)
	region.CreatedAt = storeNow()
	stored := *region
	m.s.regions[region.ID] = &stored
	return nil
}

func (m *MockRegionRepository) Update(ctx context.Context, id int64, input *models.UpdateRegionInput) (*models.Region, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("regions.Update"); err != nil {
		return nil, err
	}

	r, ok := m.s.regions[id]
	if !ok {
		return nil, repository.ErrRegionNotFound
	}
	if input.Name != nil {
		r.Name = *input.Name
	}
	if input.RegionGroup != nil {
		r.RegionGroup = *input.RegionGroup
	}
	if input.DisplayOrder != nil {
		r.DisplayOrder = *input.DisplayOrder
	}
	out := *r
	return &out, nil
}

func (m *MockRegionRepository) Delete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("regions.Delete"); err != nil {
		return err
	}

	if _, ok := m.s.regions[id]; !ok {
		return repository.ErrRegionNotFound
	}
	m.s.deleteRegion(id)
	return nil
}

// MockSubRegionRepository implements repository.SubRegionRepository for testing
type MockSubRegionRepository struct {
	s *Store
}

func (m *MockSubRegionRepository) List(ctx context.Context, regionID *int64) ([]models.SubRegion, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("subregions.List"); err != nil {
		return nil, err
	}

	subs := make([]models.SubRegion, 0)
	for _, sub := range m.s.subRegions {
		if regionID != nil && sub.RegionID != *regionID {
			continue
		}
		out := *sub
		out.RegionName = m.s.regions[sub.RegionID].Name
		subs = append(subs, out)
	}
	slices.SortFunc(subs, func(a, b models.SubRegion) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
	return subs, nil
}

func (m *MockSubRegionRepository) GetByID(ctx context.Context, id int64) (*models.SubRegion, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("subregions.GetByID"); err != nil {
		return nil, err
	}

	sub, ok := m.s.subRegions[id]
	if !ok {
		return nil, repository.ErrSubRegionNotFound
	}
	out := *sub
	out.RegionName = m.s.regions[sub.RegionID].Name
	return &out, nil
}

func (m *MockSubRegionRepository) Create(ctx context.Context, sub *models.SubRegion) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("subregions.Create"); err != nil {
		return err
	}

	region, ok := m.s.regions[sub.RegionID]
	if !ok {
		return repository.ErrRegionNotFound
	}
	if m.s.subSlugTaken(sub.Slug) {
		return repository.ErrSlugExists
	}
	sub.ID = m.s.id(0)
	sub.CreatedAt = storeNow()
	sub.RegionName = region.Name
	stored := *sub
	m.s.subRegions[sub.ID] = &stored
	return nil
}

func (m *MockSubRegionRepository) Update(ctx context.Context, id int64, input *models.UpdateSubRegionInput) (*models.SubRegion, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("subregions.Update"); err != nil {
		return nil, err
	}

	sub, ok := m.s.subRegions[id]
	if !ok {
		return nil, repository.ErrSubRegionNotFound
	}
	if input.Name != nil {
		sub.Name = *input.Name
	}
	if input.DisplayOrder != nil {
		sub.DisplayOrder = *input.DisplayOrder
	}
	out := *sub
	out.RegionName = m.s.regions[sub.RegionID].Name
	return &out, nil
}

func (m *MockSubRegionRepository) Delete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("subregions.Delete"); err != nil {
		return err
	}

	if _, ok := m.s.subRegions[id]; !ok {
		return repository.ErrSubRegionNotFound
	}
	m.s.deleteSubRegion(id)
	return nil
}

// MockListingRepository implements repository.ListingRepository for testing
type MockListingRepository struct {
	s *Store
}

// List applies the filter like the SQL query does, but returns the page in
// descending id order so callers cannot lean on storage order.
func (m *MockListingRepository) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("listings.List"); err != nil {
		return nil, err
	}

	var keyword string
	if filter.Keyword != nil {
		keyword = strings.ToLower(*filter.Keyword)
	}

	matched := make([]models.Listing, 0)
	for _, stored := range m.s.listings {
		l := m.s.enrich(stored)
		if !l.IsActive {
			continue
		}
		if filter.RegionID != nil && l.RegionID != *filter.RegionID {
			continue
		}
		if filter.SubRegionID != nil && (l.SubRegionID == nil || *l.SubRegionID != *filter.SubRegionID) {
			continue
		}
		if keyword != "" && !matchesKeyword(l, keyword) {
			continue
		}
		matched = append(matched, l)
	}

	slices.SortFunc(matched, func(a, b models.Listing) int {
		if a.IsPremium != b.IsPremium {
			if a.IsPremium {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(b.ClickCount, a.ClickCount), cmp.Compare(a.ID, b.ID))
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	slices.SortFunc(matched, func(a, b models.Listing) int {
		return cmp.Compare(b.ID, a.ID)
	})
	return matched, nil
}

func matchesKeyword(l models.Listing, keyword string) bool {
	if strings.Contains(strings.ToLower(l.Name), keyword) ||
		strings.Contains(strings.ToLower(l.RegionName), keyword) {
		return true
	}
	return l.SubRegionName != nil && strings.Contains(strings.ToLower(*l.SubRegionName), keyword)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("listings.GetByID"); err != nil {
		return nil, err
	}

	l, ok := m.s.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	out := m.s.enrich(l)
	return &out, nil
}

func (m *MockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("listings.Create"); err != nil {
		return err
	}

	if _, ok := m.s.regions[listing.RegionID]; !ok {
		return repository.ErrReferenceMissing
	}
	if listing.SubRegionID != nil {
		if _, ok := m.s.subRegions[*listing.SubRegionID]; !ok {
			return repository.ErrReferenceMissing
		}
	}

	listing.ID = m.s.id(0)
	now := storeNow()
	listing.CreatedAt, listing.UpdatedAt = now, now
	listing.ClickCount = 0
	stored := *listing
	m.s.listings[listing.ID] = &stored
	*listing = m.s.enrich(&stored)
	return nil
}

func (m *MockListingRepository) Update(ctx context.Context, id int64, input *models.UpdateListingInput) (*models.Listing, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("listings.Update"); err != nil {
		return nil, err
	}

	l, ok := m.s.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}

	if input.RegionID != nil {
		if _, ok := m.s.regions[*input.RegionID]; !ok {
			return nil, repository.ErrReferenceMissing
		}
		l.RegionID = *input.RegionID
	}
	if input.SubRegionID != nil {
		if *input.SubRegionID == 0 {
			l.SubRegionID = nil
		} else {
			if _, ok := m.s.subRegions[*input.SubRegionID]; !ok {
				return nil, repository.ErrReferenceMissing
			}
			sub := *input.SubRegionID
			l.SubRegionID = &sub
		}
	}
	if input.Name != nil {
		l.Name = *input.Name
	}
	if input.Address != nil {
		l.Address = input.Address
	}
	if input.Phone != nil {
		l.Phone = input.Phone
	}
	if input.URL != nil {
		l.URL = input.URL
	}
	if input.Description != nil {
		l.Description = input.Description
	}
	if input.ImageURL != nil {
		l.ImageURL = input.ImageURL
	}
	if input.IsPremium != nil {
		l.IsPremium = *input.IsPremium
	}
	if input.ServiceType != nil {
		l.ServiceType = *input.ServiceType
	}
	if input.IsActive != nil {
		l.IsActive = *input.IsActive
	}
	l.UpdatedAt = storeNow()

	out := m.s.enrich(l)
	return &out, nil
}

func (m *MockListingRepository) Deactivate(ctx context.Context, id int64) error {
	return m.mutate("listings.Deactivate", id, func(l *models.Listing) { l.IsActive = false })
}

func (m *MockListingRepository) Delete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("listings.Delete"); err != nil {
		return err
	}

	if _, ok := m.s.listings[id]; !ok {
		return repository.ErrListingNotFound
	}
	m.s.deleteListing(id)
	return nil
}

func (m *MockListingRepository) ResetClicks(ctx context.Context, id int64) error {
	return m.mutate("listings.ResetClicks", id, func(l *models.Listing) { l.ClickCount = 0 })
}

func (m *MockListingRepository) mutate(op string, id int64, fn func(*models.Listing)) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call(op); err != nil {
		return err
	}

	l, ok := m.s.listings[id]
	if !ok {
		return repository.ErrListingNotFound
	}
	fn(l)
	l.UpdatedAt = storeNow()
	return nil
}

// MockClickRepository implements repository.ClickRepository for testing.
// WithinTx holds the store lock for the whole unit of work and applies the
// staged writes only when fn succeeds.
type MockClickRepository struct {
	s *Store
}

func (m *MockClickRepository) WithinTx(ctx context.Context, fn func(tx repository.ClickTx) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("clicks.WithinTx"); err != nil {
		return err
	}

	tx := &mockClickTx{s: m.s, increments: make(map[int64]int64)}
	if err := fn(tx); err != nil {
		return err
	}

	if m.s.Conflicts > 0 {
		m.s.Conflicts--
		return repository.ErrTxConflict
	}

	for id, n := range tx.increments {
		m.s.listings[id].ClickCount += n
	}
	for _, c := range tx.appended {
		c.ID = m.s.id(0)
		m.s.clicks = append(m.s.clicks, c)
	}
	return nil
}

type mockClickTx struct {
	s          *Store
	increments map[int64]int64
	appended   []models.Click
}

func (t *mockClickTx) IncrementClickCount(ctx context.Context, listingID int64) error {
	l, ok := t.s.listings[listingID]
	if !ok || !l.IsActive {
		return repository.ErrListingNotFound
	}
	t.increments[listingID]++
	return nil
}

func (t *mockClickTx) AppendClick(ctx context.Context, click *models.Click) error {
	if t.s.FailAppend != nil {
		return t.s.FailAppend
	}
	if _, ok := t.s.listings[click.ListingID]; !ok {
		return repository.ErrListingNotFound
	}
	t.appended = append(t.appended, *click)
	return nil
}

func (m *MockClickRepository) ListRecent(ctx context.Context, limit int) ([]models.ClickLogEntry, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("clicks.ListRecent"); err != nil {
		return nil, err
	}

	entries := make([]models.ClickLogEntry, 0, len(m.s.clicks))
	for _, c := range m.s.clicks {
		entry := models.ClickLogEntry{ID: c.ID, ListingID: c.ListingID, ClickedAt: c.ClickedAt}
		if l, ok := m.s.listings[c.ListingID]; ok {
			entry.ListingName = l.Name
		}
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b models.ClickLogEntry) int {
		return cmp.Or(b.ClickedAt.Compare(a.ClickedAt), cmp.Compare(b.ID, a.ID))
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MockClickRepository) CountByListing(ctx context.Context, listingID int64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("clicks.CountByListing"); err != nil {
		return 0, err
	}
	return int64(m.s.countClicks(listingID)), nil
}

// MockStatsRepository implements repository.StatsRepository for testing
type MockStatsRepository struct {
	s *Store
}

func (m *MockStatsRepository) Dashboard(ctx context.Context, todayStart time.Time) (*models.DashboardStats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("stats.Dashboard"); err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalRegions:    int64(len(m.s.regions)),
		TotalSubRegions: int64(len(m.s.subRegions)),
	}
	for _, l := range m.s.listings {
		if !l.IsActive {
			continue
		}
		stats.TotalListings++
		if l.IsPremium {
			stats.PremiumListings++
		}
		stats.TotalClicks += l.ClickCount
	}
	for _, c := range m.s.clicks {
		if !c.ClickedAt.Before(todayStart) {
			stats.TodayClicks++
		}
	}
	return stats, nil
}
