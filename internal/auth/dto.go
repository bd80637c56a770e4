package auth

import (
	"github.com/urbanswap/urbanswap-backend/internal/users"
)

// RegisterRequest captures the payload for creating a new account.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName string  `json:"full_name" validate:"required,min=2"`
	Location string  `json:"location" validate:"required,min=2"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest holds the optional profile fields a user may change.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2"`
	Location *string `json:"location,omitempty" validate:"omitempty,min=2"`
	Phone    *string `json:"phone,omitempty"`
}

// AuthResponse contains the token and user produced by register or login.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
