package service

import (
	"cmp"
	"slices"

	"github.com/SergeiKhy/shop-directory/internal/models"
)

// CompareListings defines the public display order: premium listings first,
// then higher click counts, then lower ids. The id key makes the order total,
// so identical queries always return identical sequences.
func CompareListings(a, b models.Listing) int {
	if a.IsPremium != b.IsPremium {
		if a.IsPremium {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.ClickCount, a.ClickCount); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortListings orders listings in place for public display.
func SortListings(listings []models.Listing) {
	slices.SortFunc(listings, CompareListings)
}
