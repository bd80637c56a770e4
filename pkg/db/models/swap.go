package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanswap/urbanswap-backend/pkg/enums"
)

// Swap tracks a proposed exchange between a requester and a listing's owner.
// OwnerID denormalizes the listing's owner at creation time for query convenience.
type Swap struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID    uuid.UUID        `gorm:"column:listing_id;type:uuid;not null;index"`
	RequesterID  uuid.UUID        `gorm:"column:requester_id;type:uuid;not null;index"`
	OwnerID      uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index"`
	OfferType    enums.OfferType  `gorm:"column:offer_type;type:text;not null"`
	OfferDetails string           `gorm:"column:offer_details;not null"`
	Message      *string          `gorm:"column:message"`
	Status       enums.SwapStatus `gorm:"column:status;type:text;not null;default:pending"`
	Listing      *Listing         `gorm:"foreignKey:ListingID"`
	Requester    *User            `gorm:"foreignKey:RequesterID"`
	Owner        *User            `gorm:"foreignKey:OwnerID"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
