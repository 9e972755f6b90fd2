package domain

import (
	"errors"
	"time"
)

// Severity represents how disruptive a carrier advisory is.
type Severity string

const (
	SeverityInfo       Severity = "INFO"
	SeverityWarning    Severity = "WARNING"
	SeverityDisruption Severity = "DISRUPTION"
)

var (
	ErrInvalidSeverity = errors.New("invalid advisory severity")
	ErrEmptyMessage    = errors.New("advisory message is required")
)

// Advisory is a seller-facing notice about a carrier, e.g. a regional
// pickup suspension or a delayed network.
type Advisory struct {
	CarrierID string   `json:"carrier_id"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Duration  int      `json:"duration,omitempty"` // Duration in seconds. 0 means until manually cleared.
	CreatedAt time.Time `json:"created_at"`
}

// NewAdvisory creates a new Advisory and validates it.
func NewAdvisory(carrierID, message string, severity Severity, duration int) (*Advisory, error) {
	if severity != SeverityInfo && severity != SeverityWarning && severity != SeverityDisruption {
		return nil, ErrInvalidSeverity
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}

	return &Advisory{
		CarrierID: carrierID,
		Message:   message,
		Severity:  severity,
		Duration:  duration,
		CreatedAt: time.Now(),
	}, nil
}
