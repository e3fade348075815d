package registration

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Errors returned by registration operations. All of them are terminal for
// the current attempt; only storage errors (returned wrapped, not as one of
// these sentinels) are worth retrying.
var (
	ErrInvalidFormat = errors.New("registration code format is invalid")
	ErrCodeNotFound  = errors.New("registration code not found")
	ErrNotActive     = errors.New("registration is not active")
	ErrNotStarted    = errors.New("registration validity has not started")
	ErrExpired       = errors.New("registration validity has expired")
	ErrAlreadyLinked = errors.New("registration is already linked to another chat")
	ErrNotBound      = errors.New("no registration is linked to this chat")
	ErrNotOwner      = errors.New("registration is linked to a different chat")
	ErrChannelBusy   = errors.New("chat is already linked to another registration")
	ErrNotFound      = errors.New("registration not found")
	ErrCodeTaken     = errors.New("registration code is already provisioned")
)

// Status is the provisioning-controlled lifecycle state of a registration.
// Only active registrations accept binds; the binding pipeline never
// changes it.
type Status string

// Known registration statuses.
const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// ParseStatus validates and normalizes a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusActive, StatusInactive, StatusSuspended:
		return s, nil
	default:
		return "", fmt.Errorf("invalid status: %s", raw)
	}
}

// Registration is a pre-provisioned device record that a chat can claim
// with its one-time code. CodeHash is the lookup key and never changes
// after creation. BoundChannelID holds at most one chat identity; only the
// binding state machine sets or clears it (together with BoundAt).
type Registration struct {
	ID             string    `json:"id"`
	Label          string    `json:"label,omitempty"`
	CodeHash       string    `json:"code_hash"`
	Status         Status    `json:"status"`
	ValidFrom      time.Time `json:"valid_from,omitzero"`
	ValidUntil     time.Time `json:"valid_until,omitzero"`
	BoundChannelID string    `json:"bound_channel_id,omitempty"`
	BoundAt        time.Time `json:"bound_at,omitzero"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Bound reports whether the registration currently holds a chat binding.
func (r Registration) Bound() bool {
	return r.BoundChannelID != ""
}

// BindOutcome is the result of a successful bind attempt. Rebound is true
// when the chat was already the holder and the bind was an idempotent
// re-confirm.
type BindOutcome struct {
	Registration Registration
	Rebound      bool
}
