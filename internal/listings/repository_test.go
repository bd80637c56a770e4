package listings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/urbanswap/urbanswap-backend/pkg/db/models"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
	"github.com/urbanswap/urbanswap-backend/pkg/pagination"
)

func setupListingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  location TEXT NOT NULL,
  phone TEXT,
  avatar_url TEXT,
  points INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	listingsTable := `
CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  location TEXT NOT NULL,
  price TEXT,
  swap_preferences TEXT,
  image_url TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	require.NoError(t, db.Exec(listingsTable).Error)
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test User",
		Location:     "Portland",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestListing(t *testing.T, db *gorm.DB, owner *models.User, mutate func(*models.Listing)) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		ID:          uuid.New(),
		UserID:      owner.ID,
		Title:       "Vintage bike",
		Description: "A well-kept vintage road bike.",
		Category:    enums.ListingCategoryUrbanGoods,
		Location:    "Portland",
		Status:      enums.ListingStatusActive,
	}
	if mutate != nil {
		mutate(listing)
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, db, "owner@example.com")

	for i := 0; i < 3; i++ {
		idx := i
		newTestListing(t, db, owner, func(l *models.Listing) {
			l.Title = fmt.Sprintf("Bike %d", idx)
			l.CreatedAt = time.Now().Add(time.Duration(idx) * time.Minute)
		})
	}
	newTestListing(t, db, owner, func(l *models.Listing) {
		l.Title = "Guitar lessons"
		l.Description = "One hour of guitar coaching."
		l.Category = enums.ListingCategorySkillsExchange
		l.Location = "Austin"
	})
	newTestListing(t, db, owner, func(l *models.Listing) {
		l.Title = "Hidden listing"
		l.Status = enums.ListingStatusInactive
	})

	rows, total, err := repo.List(ctx, ListFilters{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, enums.ListingStatusActive, row.Status)
	}

	rows, total, err = repo.List(ctx, ListFilters{Category: string(enums.ListingCategorySkillsExchange)}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Guitar lessons", rows[0].Title)

	rows, _, err = repo.List(ctx, ListFilters{Location: "aust"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Austin", rows[0].Location)

	rows, _, err = repo.List(ctx, ListFilters{Search: "coaching"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Guitar lessons", rows[0].Title)

	rows, total, err = repo.List(ctx, ListFilters{}, pagination.Params{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, rows, 1)
}

func TestRepositoryListOrdersNewestFirst(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, db, "owner@example.com")

	older := newTestListing(t, db, owner, func(l *models.Listing) {
		l.CreatedAt = time.Now().Add(-time.Hour)
	})
	newer := newTestListing(t, db, owner, func(l *models.Listing) {
		l.CreatedAt = time.Now()
	})

	rows, _, err := repo.List(ctx, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}

func TestRepositoryListPreloadsOwner(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, db, "owner@example.com")
	newTestListing(t, db, owner, nil)

	rows, _, err := repo.List(ctx, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Owner)
	assert.Equal(t, owner.Email, rows[0].Owner.Email)
}

func TestRepositoryListFeatured(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, db, "owner@example.com")

	newTestListing(t, db, owner, func(l *models.Listing) {
		l.Title = "Featured active"
		l.Featured = true
	})
	newTestListing(t, db, owner, func(l *models.Listing) {
		l.Title = "Featured inactive"
		l.Featured = true
		l.Status = enums.ListingStatusInactive
	})
	newTestListing(t, db, owner, func(l *models.Listing) {
		l.Title = "Plain active"
	})

	rows, err := repo.ListFeatured(ctx, 6)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Featured active", rows[0].Title)
}

func TestRepositoryListByUser(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, db, "owner@example.com")
	other := newTestUser(t, db, "other@example.com")

	newTestListing(t, db, owner, nil)
	newTestListing(t, db, owner, func(l *models.Listing) {
		l.Status = enums.ListingStatusInactive
	})
	newTestListing(t, db, other, nil)

	rows, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := newTestUser(t, db, "owner@example.com")
	listing := newTestListing(t, db, owner, nil)

	updated, err := repo.Update(ctx, listing.ID, map[string]any{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	require.NoError(t, repo.Delete(ctx, listing.ID))
	_, err = repo.FindByID(ctx, listing.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
