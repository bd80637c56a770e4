package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/urbanswap/urbanswap-backend/api/responses"
	"github.com/urbanswap/urbanswap-backend/api/validators"
	"github.com/urbanswap/urbanswap-backend/internal/listings"
	pkgerrors "github.com/urbanswap/urbanswap-backend/pkg/errors"
	"github.com/urbanswap/urbanswap-backend/pkg/logger"
	"github.com/urbanswap/urbanswap-backend/pkg/pagination"
)

const maxFieldLength = 2000

// ImageStore is the listing image persistence dependency for upload handlers.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(publicURL string) error
	MaxBytes() int64
}

// ListListings serves the public browse endpoint with filters and pagination.
func ListListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := listings.ListFilters{
			Category: validators.SanitizeString(r.URL.Query().Get("category"), maxFieldLength),
			Location: validators.SanitizeString(r.URL.Query().Get("location"), maxFieldLength),
			Search:   validators.SanitizeString(r.URL.Query().Get("search"), maxFieldLength),
		}

		result, err := svc.List(r.Context(), filters, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// FeaturedListings serves the featured subset, backed by a short redis cache.
func FeaturedListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", listings.DefaultFeaturedLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Featured(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listings": rows})
	}
}

// GetListing serves a single listing with its owner profile.
func GetListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		id, err := parseListingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listing": listing})
	}
}

// CreateListing accepts a multipart form with an optional image upload.
func CreateListing(svc listings.Service, store ImageStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image storage unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(store.MaxBytes()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		body := listings.CreateListingRequest{
			Title:           validators.SanitizeString(r.FormValue("title"), maxFieldLength),
			Description:     validators.SanitizeString(r.FormValue("description"), maxFieldLength),
			Category:        validators.SanitizeString(r.FormValue("category"), maxFieldLength),
			Location:        validators.SanitizeString(r.FormValue("location"), maxFieldLength),
			Price:           optionalFormValue(r, "price"),
			SwapPreferences: optionalFormValue(r, "swap_preferences"),
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		imageURL, err := saveUploadedImage(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Create(r.Context(), userID, body, imageURL)
		if err != nil {
			if imageURL != nil {
				if removeErr := store.Remove(*imageURL); removeErr != nil && logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", removeErr.Error()), "listing.image.cleanup_failed")
				}
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"listing": listing})
	}
}

// UpdateListing applies a partial update, accepting either JSON or a multipart
// form with an optional replacement image.
func UpdateListing(svc listings.Service, store ImageStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image storage unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseListingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body listings.UpdateListingRequest
		var imageURL *string
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(store.MaxBytes()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
				return
			}
			body = listings.UpdateListingRequest{
				Title:           optionalFormValue(r, "title"),
				Description:     optionalFormValue(r, "description"),
				Category:        optionalFormValue(r, "category"),
				Location:        optionalFormValue(r, "location"),
				Price:           optionalFormValue(r, "price"),
				SwapPreferences: optionalFormValue(r, "swap_preferences"),
				Status:          optionalFormValue(r, "status"),
			}
			if err := validators.ValidateStruct(&body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			imageURL, err = saveUploadedImage(r, store)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		listing, err := svc.Update(r.Context(), userID, id, body, imageURL)
		if err != nil {
			if imageURL != nil {
				if removeErr := store.Remove(*imageURL); removeErr != nil && logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", removeErr.Error()), "listing.image.cleanup_failed")
				}
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listing": listing})
	}
}

// DeleteListing removes an owned listing and its stored image.
func DeleteListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseListingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "listing deleted"})
	}
}

// MyListings serves the caller's own listings, newest first.
func MyListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.MyListings(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listings": rows})
	}
}

func parseListingID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "listingId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing id")
	}
	return id, nil
}

func optionalFormValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	trimmed := validators.SanitizeString(values[0], maxFieldLength)
	return &trimmed
}

func saveUploadedImage(r *http.Request, store ImageStore) (*string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading image upload")
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	url, err := store.Save(header.Filename, file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "storing image upload")
	}
	return &url, nil
}
