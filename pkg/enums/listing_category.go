package enums

import "fmt"

// ListingCategory describes the allowed values for the `category` column in listings.
type ListingCategory string

const (
	ListingCategoryUrbanGoods     ListingCategory = "Urban Goods"
	ListingCategorySkillsExchange ListingCategory = "Skills Exchange"
	ListingCategoryCommunityHub   ListingCategory = "Community Hub"
)

var validListingCategories = []ListingCategory{
	ListingCategoryUrbanGoods,
	ListingCategorySkillsExchange,
	ListingCategoryCommunityHub,
}

// IsValid reports whether the value matches the canonical listing category enum.
func (c ListingCategory) IsValid() bool {
	for _, candidate := range validListingCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseListingCategory converts the raw string to ListingCategory.
func ParseListingCategory(value string) (ListingCategory, error) {
	for _, candidate := range validListingCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing category %q", value)
}

func (c ListingCategory) String() string {
	return string(c)
}
