package mocks

import (
	"sync"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/models"
)

// Store is an in-memory catalog shared by the mock repositories. It mirrors
// the relational schema closely enough for service tests: foreign keys,
// cascades, unique slugs and transactional click writes.
type Store struct {
	mu sync.Mutex

	regions    map[int64]*models.Region
	subRegions map[int64]*models.SubRegion
	listings   map[int64]*models.Listing
	clicks     []models.Click
	nextID     int64

	calls map[string]int

	// FailAppend, if set, is returned by every ClickTx.AppendClick.
	FailAppend error
	// Conflicts makes the next N click transactions fail with ErrTxConflict.
	Conflicts int
	// Err, if set, is returned by every read and write (storage outage).
	Err error
}

func NewStore() *Store {
	return &Store{
		regions:    make(map[int64]*models.Region),
		subRegions: make(map[int64]*models.SubRegion),
		listings:   make(map[int64]*models.Listing),
		calls:      make(map[string]int),
		nextID:     1,
	}
}

func (s *Store) Regions() *MockRegionRepository       { return &MockRegionRepository{s: s} }
func (s *Store) SubRegions() *MockSubRegionRepository { return &MockSubRegionRepository{s: s} }
func (s *Store) Listings() *MockListingRepository     { return &MockListingRepository{s: s} }
func (s *Store) Clicks() *MockClickRepository         { return &MockClickRepository{s: s} }
func (s *Store) Stats() *MockStatsRepository          { return &MockStatsRepository{s: s} }

// Calls reports how many times a repository method was invoked, e.g. "listings.List".
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// AddRegion seeds a region and returns its id.
func (s *Store) AddRegion(name, slug string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id(0)
	s.regions[id] = &models.Region{ID: id, Name: name, Slug: slug, RegionGroup: "default", CreatedAt: storeNow()}
	return id
}

// AddSubRegion seeds a sub-region of regionID and returns its id.
func (s *Store) AddSubRegion(regionID int64, name, slug string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id(0)
	s.subRegions[id] = &models.SubRegion{ID: id, RegionID: regionID, Name: name, Slug: slug, CreatedAt: storeNow()}
	return id
}

// AddListing seeds a listing as-is. A zero ID is assigned automatically.
func (s *Store) AddListing(listing models.Listing) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing.ID = s.id(listing.ID)
	if listing.ServiceType == "" {
		listing.ServiceType = models.ServiceTypeBoth
	}
	now := storeNow()
	listing.CreatedAt, listing.UpdatedAt = now, now
	s.listings[listing.ID] = &listing
	return listing.ID
}

// AddClick seeds a ledger row without touching click_count.
func (s *Store) AddClick(listingID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clicks = append(s.clicks, models.Click{ID: s.id(0), ListingID: listingID, ClickedAt: at})
}

// Listing returns a copy of the stored listing, active or not.
func (s *Store) Listing(id int64) (models.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return models.Listing{}, false
	}
	return s.enrich(l), true
}

// ClickEvents counts ledger rows for the listing.
func (s *Store) ClickEvents(listingID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countClicks(listingID)
}

func (s *Store) countClicks(listingID int64) int {
	n := 0
	for _, c := range s.clicks {
		if c.ListingID == listingID {
			n++
		}
	}
	return n
}

// id returns want when it is free, otherwise the next sequence value.
func (s *Store) id(want int64) int64 {
	if want > 0 {
		if want >= s.nextID {
			s.nextID = want + 1
		}
		return want
	}
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) call(op string) error {
	s.calls[op]++
	return s.Err
}

func (s *Store) enrich(l *models.Listing) models.Listing {
	out := *l
	if r, ok := s.regions[l.RegionID]; ok {
		out.RegionName = r.Name
	}
	out.SubRegionName = nil
	if l.SubRegionID != nil {
		if sub, ok := s.subRegions[*l.SubRegionID]; ok {
			name := sub.Name
			out.SubRegionName = &name
		}
	}
	return out
}

func (s *Store) deleteListing(id int64) {
	delete(s.listings, id)
	kept := s.clicks[:0]
	for _, c := range s.clicks {
		if c.ListingID != id {
			kept = append(kept, c)
		}
	}
	s.clicks = kept
}

func (s *Store) deleteSubRegion(id int64) {
	delete(s.subRegions, id)
	for lid, l := range s.listings {
		if l.SubRegionID != nil && *l.SubRegionID == id {
			s.deleteListing(lid)
		}
	}
}

func (s *Store) deleteRegion(id int64) {
	delete(s.regions, id)
	for sid, sub := range s.subRegions {
		if sub.RegionID == id {
			s.deleteSubRegion(sid)
		}
	}
	for lid, l := range s.listings {
		if l.RegionID == id {
			s.deleteListing(lid)
		}
	}
}

func (s *Store) slugTaken(slug string) bool {
	for _, r := range s.regions {
		if r.Slug == slug {
			return true
		}
	}
	return false
}

func (s *Store) subSlugTaken(slug string) bool {
	for _, sub := range s.subRegions {
		if sub.Slug == slug {
			return true
		}
	}
	return false
}

// storeNow returns timestamps the way Postgres hands them back: UTC, microsecond
// precision, without a monotonic reading.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
