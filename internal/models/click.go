package models

import (
	"time"
)

// Click is one immutable row of the click log.
type Click struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	ClickedAt time.Time `json:"clicked_at"`
}

type ClickLogEntry struct {
	ID          int64     `json:"id"`
	ListingID   int64     `json:"listing_id"`
	ListingName string    `json:"listing_name"`
	ClickedAt   time.Time `json:"clicked_at"`
}

type DashboardStats struct {
	TotalListings   int64 `json:"total_listings"`
	PremiumListings int64 `json:"premium_listings"`
	TotalClicks     int64 `json:"total_clicks"`
	TodayClicks     int64 `json:"today_clicks"`
	TotalRegions    int64 `json:"total_regions"`
	TotalSubRegions int64 `json:"total_sub_regions"`
}
