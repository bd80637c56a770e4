package listings

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanswap/urbanswap-backend/internal/users"
	"github.com/urbanswap/urbanswap-backend/pkg/db/models"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
	"github.com/urbanswap/urbanswap-backend/pkg/pagination"
)

// CreateListingRequest captures the multipart form fields for a new listing.
type CreateListingRequest struct {
	Title           string  `json:"title" validate:"required,min=3"`
	Description     string  `json:"description" validate:"required,min=10"`
	Category        string  `json:"category" validate:"required"`
	Location        string  `json:"location" validate:"required"`
	Price           *string `json:"price,omitempty"`
	SwapPreferences *string `json:"swap_preferences,omitempty"`
}

// UpdateListingRequest holds the optional fields an owner may change.
type UpdateListingRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,min=3"`
	Description     *string `json:"description,omitempty" validate:"omitempty,min=10"`
	Category        *string `json:"category,omitempty"`
	Location        *string `json:"location,omitempty"`
	Price           *string `json:"price,omitempty"`
	SwapPreferences *string `json:"swap_preferences,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category string
	Location string
	Search   string
}

// ListingDTO is the transport shape for a listing, including its owner.
type ListingDTO struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Category        enums.ListingCategory `json:"category"`
	Location        string                `json:"location"`
	Price           *string               `json:"price,omitempty"`
	SwapPreferences *string               `json:"swap_preferences,omitempty"`
	ImageURL        *string               `json:"image_url,omitempty"`
	Status          enums.ListingStatus   `json:"status"`
	Featured        bool                  `json:"featured"`
	Owner           *users.UserDTO        `json:"owner,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ListResult bundles a page of listings with its pagination metadata.
type ListResult struct {
	Listings   []ListingDTO    `json:"listings"`
	Pagination pagination.Meta `json:"pagination"`
}

func FromModel(l *models.Listing) *ListingDTO {
	if l == nil {
		return nil
	}
	return &ListingDTO{
		ID:              l.ID,
		UserID:          l.UserID,
		Title:           l.Title,
		Description:     l.Description,
		Category:        l.Category,
		Location:        l.Location,
		Price:           l.Price,
		SwapPreferences: l.SwapPreferences,
		ImageURL:        l.ImageURL,
		Status:          l.Status,
		Featured:        l.Featured,
		Owner:           users.FromModel(l.Owner),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func fromModels(rows []models.Listing) []ListingDTO {
	out := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
