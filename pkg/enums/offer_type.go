package enums

import "fmt"

// OfferType describes the allowed values for the `offer_type` column in swaps.
type OfferType string

const (
	OfferTypeItem       OfferType = "item"
	OfferTypeService    OfferType = "service"
	OfferTypeMoney      OfferType = "money"
	OfferTypeExperience OfferType = "experience"
)

var validOfferTypes = []OfferType{
	OfferTypeItem,
	OfferTypeService,
	OfferTypeMoney,
	OfferTypeExperience,
}

// IsValid reports whether the value matches the canonical offer type enum.
func (o OfferType) IsValid() bool {
	for _, candidate := range validOfferTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOfferType converts the raw string to OfferType.
func ParseOfferType(value string) (OfferType, error) {
	for _, candidate := range validOfferTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer type %q", value)
}

func (o OfferType) String() string {
	return string(o)
}
