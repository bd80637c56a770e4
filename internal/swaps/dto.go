package swaps

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanswap/urbanswap-backend/pkg/db/models"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
)

// CreateSwapRequest captures the payload for proposing a swap.
type CreateSwapRequest struct {
	ListingID    uuid.UUID `json:"listing_id" validate:"required"`
	OfferType    string    `json:"offer_type" validate:"required"`
	OfferDetails string    `json:"offer_details" validate:"required"`
	Message      *string   `json:"message,omitempty"`
}

// UpdateStatusRequest carries the target status for a swap transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ParticipantDTO is the trimmed user shape embedded in swap payloads.
type ParticipantDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Location  string    `json:"location"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// ListingSummaryDTO is the trimmed listing shape embedded in swap payloads.
type ListingSummaryDTO struct {
	ID       uuid.UUID             `json:"id"`
	Title    string                `json:"title"`
	Category enums.ListingCategory `json:"category"`
	ImageURL *string               `json:"image_url,omitempty"`
}

// SwapDTO is the transport shape for a swap request.
type SwapDTO struct {
	ID           uuid.UUID          `json:"id"`
	ListingID    uuid.UUID          `json:"listing_id"`
	RequesterID  uuid.UUID          `json:"requester_id"`
	OwnerID      uuid.UUID          `json:"owner_id"`
	OfferType    enums.OfferType    `json:"offer_type"`
	OfferDetails string             `json:"offer_details"`
	Message      *string            `json:"message,omitempty"`
	Status       enums.SwapStatus   `json:"status"`
	Listing      *ListingSummaryDTO `json:"listing,omitempty"`
	Requester    *ParticipantDTO    `json:"requester,omitempty"`
	Owner        *ParticipantDTO    `json:"owner,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func FromModel(s *models.Swap) *SwapDTO {
	if s == nil {
		return nil
	}
	return &SwapDTO{
		ID:           s.ID,
		ListingID:    s.ListingID,
		RequesterID:  s.RequesterID,
		OwnerID:      s.OwnerID,
		OfferType:    s.OfferType,
		OfferDetails: s.OfferDetails,
		Message:      s.Message,
		Status:       s.Status,
		Listing:      listingSummary(s.Listing),
		Requester:    participant(s.Requester),
		Owner:        participant(s.Owner),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func fromModels(rows []models.Swap) []SwapDTO {
	out := make([]SwapDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func participant(u *models.User) *ParticipantDTO {
	if u == nil {
		return nil
	}
	return &ParticipantDTO{
		ID:        u.ID,
		FullName:  u.FullName,
		Location:  u.Location,
		AvatarURL: u.AvatarURL,
	}
}

func listingSummary(l *models.Listing) *ListingSummaryDTO {
	if l == nil {
		return nil
	}
	return &ListingSummaryDTO{
		ID:       l.ID,
		Title:    l.Title,
		Category: l.Category,
		ImageURL: l.ImageURL,
	}
}
