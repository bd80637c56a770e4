package listings

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanswap/urbanswap-backend/pkg/db/models"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
	"github.com/urbanswap/urbanswap-backend/pkg/pagination"
)

// Repository exposes listing persistence operations.
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

// Create inserts the listing and returns the persisted row.
func (r *Repository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// FindByID loads the listing with its owner preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// Update applies the column updates and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Listing, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Listing{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the listing row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id).Error
}

// List returns a page of active listings matching the filters, newest first,
// along with the total row count before paging.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Listing, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("status = ?", enums.ListingStatusActive)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filters.Location)+"%")
	}
	if filters.Search != "" {
		needle := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Listing
	err := query.
		Preload("Owner").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

// ListFeatured returns featured active listings, newest first.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Listing, error) {
	var rows []models.Listing
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("featured = ? AND status = ?", true, enums.ListingStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListByUser returns every listing owned by the user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	var rows []models.Listing
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
