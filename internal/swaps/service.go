package swaps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanswap/urbanswap-backend/internal/users"
	"github.com/urbanswap/urbanswap-backend/pkg/config"
	"github.com/urbanswap/urbanswap-backend/pkg/db/models"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
	pkgerrors "github.com/urbanswap/urbanswap-backend/pkg/errors"
)

// Service defines the behavior needed by the swaps controller.
type Service interface {
	Create(ctx context.Context, requesterID uuid.UUID, req CreateSwapRequest) (*SwapDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]SwapDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*SwapDTO, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, req UpdateStatusRequest) (*SwapDTO, error)
}

type swapRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Swap, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Swap, error)
}

type txSwapRepository interface {
	Create(ctx context.Context, swap *models.Swap) (*models.Swap, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SwapStatus) error
}

type listingFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

type pointsRepository interface {
	AddPoints(ctx context.Context, id uuid.UUID, delta int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build a swaps service.
type ServiceParams struct {
	TxRunner          txRunner
	Repo              swapRepository
	Listings          listingFinder
	SwapRepoFactory   func(tx *gorm.DB) txSwapRepository
	PointsRepoFactory func(tx *gorm.DB) pointsRepository
	Points            config.PointsConfig
}

type service struct {
	tx            txRunner
	repo          swapRepository
	listings      listingFinder
	swapFactory   func(tx *gorm.DB) txSwapRepository
	pointsFactory func(tx *gorm.DB) pointsRepository
	points        config.PointsConfig
}

// NewService constructs a swaps service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("swap repository is required")
	}
	if params.Listings == nil {
		return nil, fmt.Errorf("listing repository is required")
	}
	swapFactory := params.SwapRepoFactory
	if swapFactory == nil {
		swapFactory = func(tx *gorm.DB) txSwapRepository {
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
		tx:            params.TxRunner,
		repo:          params.Repo,
		listings:      params.Listings,
		swapFactory:   swapFactory,
		pointsFactory: pointsFactory,
		points:        params.Points,
	}, nil
}

func (s *service) Create(ctx context.Context, requesterID uuid.UUID, req CreateSwapRequest) (*SwapDTO, error) {
	offerType, err := enums.ParseOfferType(strings.TrimSpace(req.OfferType))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid offer type")
	}

	listing, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup listing")
	}
	if listing.UserID == requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot request a swap on your own listing")
	}

	var created *models.Swap
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		swap := &models.Swap{
			ListingID:    listing.ID,
			RequesterID:  requesterID,
			OwnerID:      listing.UserID,
			OfferType:    offerType,
			OfferDetails: strings.TrimSpace(req.OfferDetails),
			Message:      req.Message,
			Status:       enums.SwapStatusPending,
		}
		row, err := s.swapFactory(tx).Create(ctx, swap)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create swap")
		}
		created = row
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.reload(ctx, created)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]SwapDTO, error) {
	rows, err := s.repo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list swaps")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*SwapDTO, error) {
	swap, err := s.findSwap(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParticipant(swap, userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this swap")
	}
	return FromModel(swap), nil
}

func (s *service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, req UpdateStatusRequest) (*SwapDTO, error) {
	status, err := enums.ParseSwapStatus(strings.TrimSpace(req.Status))
	if err != nil || !status.IsUpdateTarget() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	swap, err := s.findSwap(ctx, id)
	if err != nil {
		return nil, err
	}
	// Status updates hide the swap's existence from outsiders.
	if !isParticipant(swap, userID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "swap not found")
	}

	awardCompletion := status == enums.SwapStatusCompleted && swap.Status != enums.SwapStatusCompleted

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.swapFactory(tx).UpdateStatus(ctx, id, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update swap status")
		}
		if awardCompletion {
			points := s.pointsFactory(tx)
			if err := points.AddPoints(ctx, swap.RequesterID, s.points.SwapCompleted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "award requester points")
			}
			if err := points.AddPoints(ctx, swap.OwnerID, s.points.SwapCompleted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "award owner points")
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	swap.Status = status
	return s.reload(ctx, swap)
}

func (s *service) findSwap(ctx context.Context, id uuid.UUID) (*models.Swap, error) {
	swap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "swap not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup swap")
	}
	return swap, nil
}

// reload refetches the swap with associations; falls back to the in-memory
// row when the refetch misses (stubbed stores in tests).
func (s *service) reload(ctx context.Context, swap *models.Swap) (*SwapDTO, error) {
	fresh, err := s.repo.FindByID(ctx, swap.ID)
	if err != nil {
		return FromModel(swap), nil
	}
	return FromModel(fresh), nil
}

func isParticipant(swap *models.Swap, userID uuid.UUID) bool {
	return swap.RequesterID == userID || swap.OwnerID == userID
}
