package service

import (
	"context"
	"errors"
	"testing"

	"shipgrid/internal/features/advisories/domain"
	"shipgrid/internal/features/advisories/ports"
	carriers "shipgrid/internal/features/carriers/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAdvisoryRepository is a mock implementation of ports.AdvisoryRepository
type MockAdvisoryRepository struct {
	mock.Mock
}

func (m *MockAdvisoryRepository) Save(ctx context.Context, advisory *domain.Advisory) error {
	args := m.Called(ctx, advisory)
	return args.Error(0)
}

func (m *MockAdvisoryRepository) Get(ctx context.Context, carrierID string) (*domain.Advisory, error) {
	args := m.Called(ctx, carrierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Advisory), args.Error(1)
}

func (m *MockAdvisoryRepository) Delete(ctx context.Context, carrierID string) error {
	args := m.Called(ctx, carrierID)
	return args.Error(0)
}

func TestAdvisoryService_SetAdvisory(t *testing.T) {
	mockRepo := new(MockAdvisoryRepository)
	service := NewAdvisoryService(mockRepo, carriers.DefaultRegistry())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("Save", ctx, mock.AnythingOfType("*domain.Advisory")).Return(nil).Once()

		err := service.SetAdvisory(ctx, carriers.CarrierSmartship, "Pickup suspended in Pune", domain.SeverityWarning, 3600)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidSeverity", func(t *testing.T) {
		err := service.SetAdvisory(ctx, carriers.CarrierSmartship, "msg", "INVALID", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidSeverity)
	})

	t.Run("UnknownCarrier", func(t *testing.T) {
		err := service.SetAdvisory(ctx, "nope", "msg", domain.SeverityInfo, 0)
		assert.ErrorIs(t, err, ports.ErrUnknownCarrier)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo.On("Save", ctx, mock.AnythingOfType("*domain.Advisory")).Return(errors.New("redis down")).Once()

		err := service.SetAdvisory(ctx, carriers.CarrierBluedart, "msg", domain.SeverityInfo, 0)
		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAdvisoryService_GetAdvisory(t *testing.T) {
	mockRepo := new(MockAdvisoryRepository)
	service := NewAdvisoryService(mockRepo, carriers.DefaultRegistry())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		advisory := &domain.Advisory{CarrierID: carriers.CarrierDelhivery, Message: "Network delays"}
		mockRepo.On("Get", ctx, carriers.CarrierDelhivery).Return(advisory, nil).Once()

		got, err := service.GetAdvisory(ctx, carriers.CarrierDelhivery)
		assert.NoError(t, err)
		assert.Equal(t, "Network delays", got.Message)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NoneActive", func(t *testing.T) {
		mockRepo.On("Get", ctx, carriers.CarrierDelhivery).Return(nil, nil).Once()

		got, err := service.GetAdvisory(ctx, carriers.CarrierDelhivery)
		assert.NoError(t, err)
		assert.Nil(t, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownCarrier", func(t *testing.T) {
		_, err := service.GetAdvisory(ctx, "nope")
		assert.ErrorIs(t, err, ports.ErrUnknownCarrier)
	})
}

func TestAdvisoryService_RemoveAdvisory(t *testing.T) {
	mockRepo := new(MockAdvisoryRepository)
	service := NewAdvisoryService(mockRepo, carriers.DefaultRegistry())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("Delete", ctx, carriers.CarrierSmartship).Return(nil).Once()

		err := service.RemoveAdvisory(ctx, carriers.CarrierSmartship)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownCarrier", func(t *testing.T) {
		err := service.RemoveAdvisory(ctx, "nope")
		assert.ErrorIs(t, err, ports.ErrUnknownCarrier)
	})
}
