package handlers

import (
	"context"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/domain/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockFleetService struct {
	mock.Mock
}

func (m *mockFleetService) StartTrip(ctx context.Context, input services.StartTripInput) (*entities.Trip, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trip), args.Error(1)
}

func (m *mockFleetService) EndTrip(ctx context.Context, tripID uuid.UUID, input services.EndTripInput) (*entities.Trip, error) {
	args := m.Called(ctx, tripID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trip), args.Error(1)
}

func (m *mockFleetService) CancelTrip(ctx context.Context, tripID uuid.UUID, reason, actor string) (*entities.Trip, error) {
	args := m.Called(ctx, tripID, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trip), args.Error(1)
}

func (m *mockFleetService) AppendTripLog(ctx context.Context, tripID uuid.UUID, kind entities.TripLogKind, text string) (*entities.Trip, error) {
	args := m.Called(ctx, tripID, kind, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trip), args.Error(1)
}

func (m *mockFleetService) OpenMaintenance(ctx context.Context, input services.OpenMaintenanceInput) (*entities.MaintenanceRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MaintenanceRecord), args.Error(1)
}

func (m *mockFleetService) ResolveMaintenance(ctx context.Context, input services.ResolveMaintenanceInput) (*entities.MaintenanceRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MaintenanceRecord), args.Error(1)
}

func (m *mockFleetService) AddFine(ctx context.Context, fine *entities.Fine) (*entities.Fine, error) {
	args := m.Called(ctx, fine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Fine), args.Error(1)
}

func (m *mockFleetService) DeleteFine(ctx context.Context, fineID uuid.UUID, actor string) error {
	args := m.Called(ctx, fineID, actor)
	return args.Error(0)
}

func (m *mockFleetService) DriverPoints(ctx context.Context, driverID uuid.UUID) (*entities.DriverPoints, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DriverPoints), args.Error(1)
}

func (m *mockFleetService) FleetAvailability(ctx context.Context) (*entities.FleetAvailability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FleetAvailability), args.Error(1)
}

func (m *mockFleetService) GetTrip(ctx context.Context, tripID uuid.UUID) (*entities.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trip), args.Error(1)
}

func (m *mockFleetService) ListTrips(ctx context.Context, status entities.TripStatus) ([]*entities.Trip, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trip), args.Error(1)
}

func (m *mockFleetService) ListMaintenance(ctx context.Context) ([]*entities.MaintenanceRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MaintenanceRecord), args.Error(1)
}

func (m *mockFleetService) ListFines(ctx context.Context) ([]*entities.Fine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Fine), args.Error(1)
}

func (m *mockFleetService) ListFinesByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Fine, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Fine), args.Error(1)
}
