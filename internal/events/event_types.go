package events

import (
	"time"

	"github.com/spec-kit/access-gateway/internal/domain"
)

// EventType enumerates supported audit event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventLoginThrottled EventType = "login_throttled"
	EventLogout         EventType = "logout"
	EventUserRegistered EventType = "user_registered"
	EventAccessDenied   EventType = "access_denied"
)

// Actor identifies who triggered an event, when known.
type Actor struct {
	UserID *int64      `json:"user_id,omitempty"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
	IP     string      `json:"ip,omitempty"`
}

// Event represents an audit event emitted by the gateway.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// AccessDeniedPayload describes a guard denial.
type AccessDeniedPayload struct {
	State  string `json:"state"`
	Reason string `json:"reason"`
	Path   string `json:"path"`
}
