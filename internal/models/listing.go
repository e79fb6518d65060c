package models

import (
	"time"
)

type ServiceType string

const (
	ServiceTypeStore    ServiceType = "store"
	ServiceTypeDispatch ServiceType = "dispatch"
	ServiceTypeBoth     ServiceType = "both"
)

// Listing is a directory entry joined with the names of its region and sub-region.
type Listing struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	RegionID      int64       `json:"region_id"`
	RegionName    string      `json:"region_name"`
	SubRegionID   *int64      `json:"sub_region_id,omitempty"`
	SubRegionName *string     `json:"sub_region_name,omitempty"`
	Address       *string     `json:"address,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
	URL           *string     `json:"url,omitempty"`
	Description   *string     `json:"description,omitempty"`
	ImageURL      *string     `json:"image_url,omitempty"`
	IsPremium     bool        `json:"is_premium"`
	ServiceType   ServiceType `json:"service_type"`
	ClickCount    int64       `json:"click_count"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ListingFilter is the parsed form of a public listing query.
// Nil fields are not applied.
type ListingFilter struct {
	RegionID    *int64
	SubRegionID *int64
	Keyword     *string
	Limit       int
}

// ListingQuery carries the raw query parameters before validation.
type ListingQuery struct {
	RegionID    string
	SubRegionID string
	Keyword     string
	Limit       string
}

type CreateListingInput struct {
	Name        string      `json:"name" validate:"required,max=255"`
	RegionID    int64       `json:"region_id" validate:"required,gt=0"`
	SubRegionID *int64      `json:"sub_region_id,omitempty" validate:"omitempty,gt=0"`
	Address     *string     `json:"address,omitempty"`
	Phone       *string     `json:"phone,omitempty" validate:"omitempty,max=50"`
	URL         *string     `json:"url,omitempty" validate:"omitempty,url"`
	Description *string     `json:"description,omitempty"`
	ImageURL    *string     `json:"image_url,omitempty" validate:"omitempty,url"`
	IsPremium   bool        `json:"is_premium"`
	ServiceType ServiceType `json:"service_type,omitempty" validate:"omitempty,oneof=store dispatch both"`
	IsActive    *bool       `json:"is_active,omitempty"`
}

// UpdateListingInput is the allow-list of listing fields an administrator may
// change. click_count, timestamps and id are not editable.
// SubRegionID set to 0 detaches the listing from its sub-region.
type UpdateListingInput struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	RegionID    *int64       `json:"region_id,omitempty" validate:"omitempty,gt=0"`
	SubRegionID *int64       `json:"sub_region_id,omitempty" validate:"omitempty,gte=0"`
	Address     *string      `json:"address,omitempty"`
	Phone       *string      `json:"phone,omitempty" validate:"omitempty,max=50"`
	URL         *string      `json:"url,omitempty" validate:"omitempty,url"`
	Description *string      `json:"description,omitempty"`
	ImageURL    *string      `json:"image_url,omitempty" validate:"omitempty,url"`
	IsPremium   *bool        `json:"is_premium,omitempty"`
	ServiceType *ServiceType `json:"service_type,omitempty" validate:"omitempty,oneof=store dispatch both"`
	IsActive    *bool        `json:"is_active,omitempty"`
}

func (in *UpdateListingInput) IsEmpty() bool {
	return in.Name == nil && in.RegionID == nil && in.SubRegionID == nil &&
		in.Address == nil && in.Phone == nil && in.URL == nil &&
		in.Description == nil && in.ImageURL == nil && in.IsPremium == nil &&
		in.ServiceType == nil && in.IsActive == nil
}
