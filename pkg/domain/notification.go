package domain

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies a transient user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidSeverities lists every severity the tray renders.
var ValidSeverities = []Severity{SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo}

// ValidSeverity reports whether s is one of the four fixed severities.
func ValidSeverity(s Severity) bool {
	for _, v := range ValidSeverities {
		if v == s {
			return true
		}
	}
	return false
}

// Notification is a short-lived user-facing message. A TTL of zero or
// less means it persists until explicitly dismissed.
type Notification struct {
	ID        uuid.UUID     `json:"id"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
	TTL       time.Duration `json:"ttlMs"`
	CreatedAt time.Time     `json:"created_at"`
}

// Sticky reports whether the notification outlives any timer and waits
// for an explicit dismissal.
func (n Notification) Sticky() bool {
	return n.TTL <= 0
}
