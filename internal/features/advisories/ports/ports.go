package ports

import (
	"context"
	"errors"

	"shipgrid/internal/features/advisories/domain"
)

// ErrUnknownCarrier is returned for advisories against carriers that are not onboarded.
var ErrUnknownCarrier = errors.New("unknown carrier")

// AdvisoryService defines the primary port for carrier advisory operations.
type AdvisoryService interface {
	SetAdvisory(ctx context.Context, carrierID, message string, severity domain.Severity, duration int) error
	GetAdvisory(ctx context.Context, carrierID string) (*domain.Advisory, error)
	RemoveAdvisory(ctx context.Context, carrierID string) error
}

// AdvisoryRepository defines the secondary port for advisory storage.
type AdvisoryRepository interface {
	Save(ctx context.Context, advisory *domain.Advisory) error
	Get(ctx context.Context, carrierID string) (*domain.Advisory, error)
	Delete(ctx context.Context, carrierID string) error
}
