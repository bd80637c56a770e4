package enums

import "fmt"

// ListingStatus describes the allowed values for the `status` column in listings.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
)

var validListingStatuses = []ListingStatus{
	ListingStatusActive,
	ListingStatusInactive,
}

// IsValid reports whether the value matches the canonical listing status enum.
func (s ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseListingStatus converts the raw string to ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}

func (s ListingStatus) String() string {
	return string(s)
}
