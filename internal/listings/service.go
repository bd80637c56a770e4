package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/urbanswap/urbanswap-backend/internal/users"
	"github.com/urbanswap/urbanswap-backend/pkg/config"
	"github.com/urbanswap/urbanswap-backend/pkg/db/models"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
	pkgerrors "github.com/urbanswap/urbanswap-backend/pkg/errors"
	"github.com/urbanswap/urbanswap-backend/pkg/logger"
	"github.com/urbanswap/urbanswap-backend/pkg/pagination"
)

// DefaultFeaturedLimit bounds the featured rail when no limit is supplied.
const DefaultFeaturedLimit = 6

// Service defines the behavior needed by the listings controller.
type Service interface {
	List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error)
	Featured(ctx context.Context, limit int) ([]ListingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateListingRequest, imageURL *string) (*ListingDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateListingRequest, imageURL *string) (*ListingDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	MyListings(ctx context.Context, userID uuid.UUID) ([]ListingDTO, error)
}

type listingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Listing, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Listing, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Listing, error)
}

type txListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
}

type pointsRepository interface {
	AddPoints(ctx context.Context, id uuid.UUID, delta int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type featuredCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

type imageStore interface {
	Remove(publicURL string) error
}

// ServiceParams bundles the dependencies required to build a listings service.
type ServiceParams struct {
	TxRunner           txRunner
	Repo               listingRepository
	ListingRepoFactory func(tx *gorm.DB) txListingRepository
	PointsRepoFactory  func(tx *gorm.DB) pointsRepository
	Cache              featuredCache
	Images             imageStore
	Points             config.PointsConfig
	FeaturedTTL        time.Duration
	Logger             *logger.Logger
}

type service struct {
	tx             txRunner
	repo           listingRepository
	listingFactory func(tx *gorm.DB) txListingRepository
	pointsFactory  func(tx *gorm.DB) pointsRepository
	cache          featuredCache
	images         imageStore
	points         config.PointsConfig
	featuredTTL    time.Duration
	logg           *logger.Logger
}

// NewService constructs a listings service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("listing repository is required")
	}
	listingFactory := params.ListingRepoFactory
	if listingFactory == nil {
		listingFactory = func(tx *gorm.DB) txListingRepository {
			return NewRepository(tx)
		}
	}
	pointsFactory := params.PointsRepoFactory
	if pointsFactory == nil {
		pointsFactory = func(tx *gorm.DB) pointsRepository {
			return users.NewRepository(tx)
		}
	}
	return &service{
		tx:             params.TxRunner,
		repo:           params.Repo,
		listingFactory: listingFactory,
		pointsFactory:  pointsFactory,
		cache:          params.Cache,
		images:         params.Images,
		points:         params.Points,
		featuredTTL:    params.FeaturedTTL,
		logg:           params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error) {
	if filters.Category != "" && !enums.ListingCategory(filters.Category).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}

	rows, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list listings")
	}
	return &ListResult{
		Listings:   fromModels(rows),
		Pagination: pagination.NewMeta(page, total),
	}, nil
}

func (s *service) Featured(ctx context.Context, limit int) ([]ListingDTO, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.cache.CacheKey("listings", "featured", fmt.Sprint(limit))
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var dtos []ListingDTO
			if err := json.Unmarshal([]byte(cached), &dtos); err == nil {
				return dtos, nil
			}
		} else if !errors.Is(err, redislib.Nil) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "featured.cache.read_failed")
		}
	}

	rows, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list featured listings")
	}
	dtos := fromModels(rows)

	if s.cache != nil && s.featuredTTL > 0 {
		if payload, err := json.Marshal(dtos); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.featuredTTL); err != nil && s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "featured.cache.write_failed")
			}
		}
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup listing")
	}
	return FromModel(listing), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateListingRequest, imageURL *string) (*ListingDTO, error) {
	category := enums.ListingCategory(strings.TrimSpace(req.Category))
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}

	var created *models.Listing
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		listing := &models.Listing{
			UserID:          userID,
			Title:           strings.TrimSpace(req.Title),
			Description:     strings.TrimSpace(req.Description),
			Category:        category,
			Location:        strings.TrimSpace(req.Location),
			Price:           req.Price,
			SwapPreferences: req.SwapPreferences,
			ImageURL:        imageURL,
			Status:          enums.ListingStatusActive,
		}
		row, err := s.listingFactory(tx).Create(ctx, listing)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create listing")
		}

		if err := s.pointsFactory(tx).AddPoints(ctx, userID, s.points.ListingCreated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "award listing points")
		}
		created = row
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateListingRequest, imageURL *string) (*ListingDTO, error) {
	listing, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		category := enums.ListingCategory(strings.TrimSpace(*req.Category))
		if !category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		updates["category"] = category
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.SwapPreferences != nil {
		updates["swap_preferences"] = *req.SwapPreferences
	}
	if req.Status != nil {
		status := enums.ListingStatus(strings.TrimSpace(*req.Status))
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		updates["status"] = status
	}
	if imageURL != nil {
		updates["image_url"] = *imageURL
	}

	// The repository may hand back the same row instance it was given, so
	// capture the previous image before the update overwrites it.
	var oldImage *string
	if listing.ImageURL != nil {
		prev := *listing.ImageURL
		oldImage = &prev
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update listing")
	}

	if imageURL != nil && oldImage != nil && s.images != nil {
		if err := s.images.Remove(*oldImage); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "listing.image.cleanup_failed")
		}
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	listing, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete listing")
	}
	if listing.ImageURL != nil && s.images != nil {
		if err := s.images.Remove(*listing.ImageURL); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "listing.image.cleanup_failed")
		}
	}
	return nil
}

func (s *service) MyListings(ctx context.Context, userID uuid.UUID) ([]ListingDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user listings")
	}
	return fromModels(rows), nil
}

// findOwned loads a listing and hides its existence from non-owners.
func (s *service) findOwned(ctx context.Context, userID, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup listing")
	}
	if listing.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return listing, nil
}
