package models

import (
	"time"
)

type Region struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	RegionGroup  string    `json:"region_group"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type SubRegion struct {
	ID           int64     `json:"id"`
	RegionID     int64     `json:"region_id"`
	RegionName   string    `json:"region_name"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateRegionInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Slug         string `json:"slug" validate:"required,max=100,slug"`
	RegionGroup  string `json:"region_group" validate:"required,max=100"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

// UpdateRegionInput lists the only region fields an administrator may change.
type UpdateRegionInput struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	RegionGroup  *string `json:"region_group,omitempty" validate:"omitempty,min=1,max=100"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=0"`
}

func (in *UpdateRegionInput) IsEmpty() bool {
	return in.Name == nil && in.RegionGroup == nil && in.DisplayOrder == nil
}

type CreateSubRegionInput struct {
	RegionID     int64  `json:"region_id" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,max=100"`
	Slug         string `json:"slug" validate:"required,max=100,slug"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

type UpdateSubRegionInput struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=0"`
}

func (in *UpdateSubRegionInput) IsEmpty() bool {
	return in.Name == nil && in.DisplayOrder == nil
}
