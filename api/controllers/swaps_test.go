package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/urbanswap/urbanswap-backend/internal/swaps"
	"github.com/urbanswap/urbanswap-backend/pkg/enums"
	pkgerrors "github.com/urbanswap/urbanswap-backend/pkg/errors"
)

type stubSwapsService struct {
	swap       *swaps.SwapDTO
	list       []swaps.SwapDTO
	err        error
	lastCreate *swaps.CreateSwapRequest
	lastStatus string
}

func (s *stubSwapsService) Create(ctx context.Context, requesterID uuid.UUID, req swaps.CreateSwapRequest) (*swaps.SwapDTO, error) {
	s.lastCreate = &req
	return s.swap, s.err
}

func (s *stubSwapsService) List(ctx context.Context, userID uuid.UUID) ([]swaps.SwapDTO, error) {
	return s.list, s.err
}

func (s *stubSwapsService) Get(ctx context.Context, userID, id uuid.UUID) (*swaps.SwapDTO, error) {
	return s.swap, s.err
}

func (s *stubSwapsService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, req swaps.UpdateStatusRequest) (*swaps.SwapDTO, error) {
	s.lastStatus = req.Status
	return s.swap, s.err
}

func testSwapDTO() *swaps.SwapDTO {
	return &swaps.SwapDTO{
		ID:           uuid.New(),
		ListingID:    uuid.New(),
		RequesterID:  uuid.New(),
		OwnerID:      uuid.New(),
		OfferType:    enums.OfferTypeItem,
		OfferDetails: "A set of gardening tools.",
		Status:       enums.SwapStatusPending,
	}
}

func withSwapParam(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("swapId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateSwapSuccess(t *testing.T) {
	svc := &stubSwapsService{swap: testSwapDTO()}
	handler := CreateSwap(svc, nil)

	payload := fmt.Sprintf(`{"listing_id":"%s","offer_type":"item","offer_details":"A set of gardening tools."}`, uuid.New())
	req := withAuthContext(httptest.NewRequest(http.MethodPost, "/api/swaps", bytes.NewReader([]byte(payload))), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastCreate == nil || svc.lastCreate.OfferType != "item" {
		t.Fatalf("unexpected create payload %+v", svc.lastCreate)
	}
}

func TestCreateSwapInvalidPayload(t *testing.T) {
	handler := CreateSwap(&stubSwapsService{swap: testSwapDTO()}, nil)

	req := withAuthContext(httptest.NewRequest(http.MethodPost, "/api/swaps", bytes.NewReader([]byte(`{"offer_type":"item"}`))), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListSwaps(t *testing.T) {
	svc := &stubSwapsService{list: []swaps.SwapDTO{*testSwapDTO(), *testSwapDTO()}}
	handler := ListSwaps(svc, nil)

	req := withAuthContext(httptest.NewRequest(http.MethodGet, "/api/swaps", nil), uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Swaps []swaps.SwapDTO `json:"swaps"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Swaps) != 2 {
		t.Fatalf("expected two swaps got %d", len(envelope.Data.Swaps))
	}
}

func TestGetSwapForbidden(t *testing.T) {
	svc := &stubSwapsService{err: pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this swap")}
	handler := GetSwap(svc, nil)

	id := uuid.New()
	req := withSwapParam(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/swaps/%s", id), nil), id.String())
	req = withAuthContext(req, uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestGetSwapInvalidID(t *testing.T) {
	handler := GetSwap(&stubSwapsService{swap: testSwapDTO()}, nil)

	req := withSwapParam(httptest.NewRequest(http.MethodGet, "/api/swaps/nope", nil), "nope")
	req = withAuthContext(req, uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateSwapStatus(t *testing.T) {
	swap := testSwapDTO()
	swap.Status = enums.SwapStatusCompleted
	svc := &stubSwapsService{swap: swap}
	handler := UpdateSwapStatus(svc, nil)

	id := uuid.New()
	req := withSwapParam(httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/swaps/%s/status", id), bytes.NewReader([]byte(`{"status":"completed"}`))), id.String())
	req.Header.Set("Content-Type", "application/json")
	req = withAuthContext(req, uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus != "completed" {
		t.Fatalf("expected completed got %q", svc.lastStatus)
	}

	var envelope struct {
		Data struct {
			Swap *swaps.SwapDTO `json:"swap"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Swap == nil || envelope.Data.Swap.Status != enums.SwapStatusCompleted {
		t.Fatalf("expected completed swap got %+v", envelope.Data.Swap)
	}
}

func TestUpdateSwapStatusHidden(t *testing.T) {
	svc := &stubSwapsService{err: pkgerrors.New(pkgerrors.CodeNotFound, "swap not found")}
	handler := UpdateSwapStatus(svc, nil)

	id := uuid.New()
	req := withSwapParam(httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/swaps/%s/status", id), bytes.NewReader([]byte(`{"status":"accepted"}`))), id.String())
	req.Header.Set("Content-Type", "application/json")
	req = withAuthContext(req, uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
