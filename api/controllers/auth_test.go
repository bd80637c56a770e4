package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/urbanswap/urbanswap-backend/api/middleware"
	"github.com/urbanswap/urbanswap-backend/internal/auth"
	"github.com/urbanswap/urbanswap-backend/internal/users"
	pkgerrors "github.com/urbanswap/urbanswap-backend/pkg/errors"
)

type stubAuthService struct {
	resp       *auth.AuthResponse
	user       *users.UserDTO
	err        error
	loggedOut  []string
	lastUpdate auth.UpdateProfileRequest
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return s.err
}

func (s *stubAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req auth.UpdateProfileRequest) (*users.UserDTO, error) {
	s.lastUpdate = req
	return s.user, s.err
}

func testUserDTO() *users.UserDTO {
	return &users.UserDTO{
		ID:       uuid.New(),
		Email:    "sam@example.com",
		FullName: "Sam Rivera",
		Location: "Portland",
	}
}

func TestAuthRegisterSuccess(t *testing.T) {
	user := testUserDTO()
	svc := &stubAuthService{resp: &auth.AuthResponse{Token: "access-token", User: user}}
	handler := AuthRegister(svc, nil)

	payload := `{"email":"sam@example.com","password":"secret1","full_name":"Sam Rivera","location":"Portland"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Token string         `json:"token"`
			User  *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "access-token" {
		t.Fatalf("expected token in payload got %q", envelope.Data.Token)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != user.Email {
		t.Fatalf("expected user in payload got %+v", envelope.Data.User)
	}
}

func TestAuthRegisterInvalidPayload(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte(`{"password":"secret1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	handler := AuthRegister(svc, nil)

	payload := `{"email":"sam@example.com","password":"secret1","full_name":"Sam Rivera","location":"Portland"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeConflict) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"email":"sam@example.com","password":"wrong1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "access-id"))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "access-id" {
		t.Fatalf("expected logout with access-id got %v", svc.loggedOut)
	}
}

func TestAuthLogoutWithoutSession(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthProfileSuccess(t *testing.T) {
	user := testUserDTO()
	handler := AuthProfile(&stubAuthService{user: user}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), user.ID.String()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			User *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User == nil || envelope.Data.User.ID != user.ID {
		t.Fatalf("expected user in payload got %+v", envelope.Data.User)
	}
}

func TestAuthProfileMissingContext(t *testing.T) {
	handler := AuthProfile(&stubAuthService{user: testUserDTO()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthUpdateProfilePartial(t *testing.T) {
	user := testUserDTO()
	svc := &stubAuthService{user: user}
	handler := AuthUpdateProfile(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader([]byte(`{"location":"Seattle"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), user.ID.String()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastUpdate.Location == nil || *svc.lastUpdate.Location != "Seattle" {
		t.Fatalf("expected location update got %+v", svc.lastUpdate)
	}
	if svc.lastUpdate.FullName != nil {
		t.Fatalf("expected untouched full_name got %v", *svc.lastUpdate.FullName)
	}
}
