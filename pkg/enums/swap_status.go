package enums

import "fmt"

// SwapStatus describes the allowed values for the `status` column in swaps.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
)

var validSwapStatuses = []SwapStatus{
	SwapStatusPending,
	SwapStatusAccepted,
	SwapStatusRejected,
	SwapStatusCancelled,
	SwapStatusCompleted,
}

// updatableSwapStatuses are the targets a participant may set through the API.
// Pending is initial-only and never a valid update target.
var updatableSwapStatuses = []SwapStatus{
	SwapStatusAccepted,
	SwapStatusRejected,
	SwapStatusCompleted,
	SwapStatusCancelled,
}

// IsValid reports whether the value matches the canonical swap status enum.
func (s SwapStatus) IsValid() bool {
	for _, candidate := range validSwapStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsUpdateTarget reports whether the value may be set via a status update.
func (s SwapStatus) IsUpdateTarget() bool {
	for _, candidate := range updatableSwapStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSwapStatus converts the raw string to SwapStatus.
func ParseSwapStatus(value string) (SwapStatus, error) {
	for _, candidate := range validSwapStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid swap status %q", value)
}

func (s SwapStatus) String() string {
	return string(s)
}
