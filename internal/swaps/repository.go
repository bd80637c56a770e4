package swaps

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanswap/urbanswap-backend/pkg/db/models"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
)

// Repository exposes swap persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the swap and returns the persisted row.
func (r *Repository) Create(ctx context.Context, swap *models.Swap) (*models.Swap, error) {
	if err := r.db.WithContext(ctx).Create(swap).Error; err != nil {
		return nil, err
	}
	return swap, nil
}

// FindByID loads the swap with its listing and participants preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Swap, error) {
	var swap models.Swap
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Requester").
		Preload("Owner").
		First(&swap, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &swap, nil
}

// ListByParticipant returns swaps where the user is requester or owner,
// newest first.
func (r *Repository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Swap, error) {
	var rows []models.Swap
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Requester").
		Preload("Owner").
		Where("requester_id = ? OR owner_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateStatus writes the new status on the swap row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SwapStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Swap{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
