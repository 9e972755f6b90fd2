package service

import (
	"context"
	"fmt"

	"shipgrid/internal/features/advisories/domain"
	"shipgrid/internal/features/advisories/ports"
	carriers "shipgrid/internal/features/carriers/domain"
)

// AdvisoryServiceImpl implements ports.AdvisoryService.
type AdvisoryServiceImpl struct {
	repo ports.AdvisoryRepository
	// known holds the onboarded carrier IDs.
	known map[string]bool
}

// NewAdvisoryService creates a new AdvisoryServiceImpl over the given carriers.
func NewAdvisoryService(repo ports.AdvisoryRepository, registry []carriers.Carrier) *AdvisoryServiceImpl {
	known := make(map[string]bool, len(registry))
	for _, c := range registry {
		known[c.ID] = true
	}

	return &AdvisoryServiceImpl{
		repo:  repo,
		known: known,
	}
}

// SetAdvisory creates and saves an advisory for an onboarded carrier.
func (s *AdvisoryServiceImpl) SetAdvisory(ctx context.Context, carrierID, message string, severity domain.Severity, duration int) error {
	if !s.known[carrierID] {
		return fmt.Errorf("carrier %s: %w", carrierID, ports.ErrUnknownCarrier)
	}

	advisory, err := domain.NewAdvisory(carrierID, message, severity, duration)
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, advisory); err != nil {
		return fmt.Errorf("service: failed to save advisory: %w", err)
	}

	return nil
}

// GetAdvisory retrieves the carrier's current advisory, nil when none is active.
func (s *AdvisoryServiceImpl) GetAdvisory(ctx context.Context, carrierID string) (*domain.Advisory, error) {
	if !s.known[carrierID] {
		return nil, fmt.Errorf("carrier %s: %w", carrierID, ports.ErrUnknownCarrier)
	}

	advisory, err := s.repo.Get(ctx, carrierID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get advisory: %w", err)
	}

	return advisory, nil
}

// RemoveAdvisory deletes the carrier's current advisory.
func (s *AdvisoryServiceImpl) RemoveAdvisory(ctx context.Context, carrierID string) error {
	if !s.known[carrierID] {
		return fmt.Errorf("carrier %s: %w", carrierID, ports.ErrUnknownCarrier)
	}

	if err := s.repo.Delete(ctx, carrierID); err != nil {
		return fmt.Errorf("service: failed to remove advisory: %w", err)
	}

	return nil
}
