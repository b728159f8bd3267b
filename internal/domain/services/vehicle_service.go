package services

import (
	"context"
	"errors"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VehicleService интерфейс административных операций над транспортными
// средствами. Статус машины здесь не меняется: жизненным циклом владеет
// FleetService.
type VehicleService interface {
	CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) (*entities.Vehicle, error)
	GetVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*entities.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) (*entities.Vehicle, error)
	RecordTireChange(ctx context.Context, change *entities.TireChange) (*entities.TireChange, error)
	ListTireChanges(ctx context.Context, vehicleID uuid.UUID) ([]*entities.TireChange, error)
	ListMaintenanceByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceRecord, error)
}

// vehicleService реализация VehicleService
type vehicleService struct {
	store  repositories.Store
	logger *zap.Logger
}

// NewVehicleService создает новый сервис транспортных средств
func NewVehicleService(store repositories.Store, logger *zap.Logger) VehicleService {
	return &vehicleService{
		store:  store,
		logger: logger,
	}
}

// CreateVehicle регистрирует новую машину в автопарке. Номерной знак
// нормализуется и должен быть уникален.
func (s *vehicleService) CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) (*entities.Vehicle, error) {
	vehicle.Plate = entities.NormalizePlate(vehicle.Plate)

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.Vehicles().GetByPlate(ctx, vehicle.Plate)
	if err != nil && !errors.Is(err, entities.ErrVehicleNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, entities.ErrVehicleExists
	}

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	vehicle.Status = entities.VehicleAvailable

	if err := s.store.Vehicles().Create(ctx, vehicle); err != nil {
		return nil, err
	}

	s.logger.Info("Vehicle registered",
		zap.String("vehicle_id", vehicle.ID.String()),
		zap.String("plate", vehicle.Plate),
	)

	return vehicle, nil
}

// GetVehicle возвращает машину по идентификатору
func (s *vehicleService) GetVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.Vehicle, error) {
	return s.store.Vehicles().GetByID(ctx, vehicleID)
}

// ListVehicles возвращает все машины автопарка
func (s *vehicleService) ListVehicles(ctx context.Context) ([]*entities.Vehicle, error) {
	return s.store.Vehicles().List(ctx)
}

// UpdateVehicle обновляет описательные поля машины. Статус и пробег
// сохраняются из текущей записи.
func (s *vehicleService) UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) (*entities.Vehicle, error) {
	current, err := s.store.Vehicles().GetByID(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	vehicle.Plate = entities.NormalizePlate(vehicle.Plate)
	vehicle.Status = current.Status
	vehicle.CurrentKm = current.CurrentKm
	vehicle.FuelLevel = current.FuelLevel
	vehicle.LastChecklist = current.LastChecklist
	vehicle.CreatedAt = current.CreatedAt

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Vehicles().Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// RecordTireChange регистрирует замену шин
func (s *vehicleService) RecordTireChange(ctx context.Context, change *entities.TireChange) (*entities.TireChange, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}

	if change.ID == uuid.Nil {
		change.ID = uuid.New()
	}

	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Vehicles().GetByID(ctx, change.VehicleID); err != nil {
			return err
		}
		return tx.TireChanges().Create(ctx, change)
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

// ListTireChanges возвращает историю замен шин машины
func (s *vehicleService) ListTireChanges(ctx context.Context, vehicleID uuid.UUID) ([]*entities.TireChange, error) {
	return s.store.TireChanges().ListByVehicle(ctx, vehicleID)
}

// ListMaintenanceByVehicle возвращает историю обслуживания машины
func (s *vehicleService) ListMaintenanceByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceRecord, error) {
	return s.store.Maintenance().ListByVehicle(ctx, vehicleID)
}
