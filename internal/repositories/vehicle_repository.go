package repositories

import (
	"context"
	"database/sql"
	"errors"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// vehicleRepository реализация VehicleRepository поверх PostgreSQL
type vehicleRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает транспортное средство
func (r *vehicleRepository) Create(ctx context.Context, vehicle *entities.Vehicle) error {
	query := `
		INSERT INTO vehicles (
			id, plate, brand, model, year, current_km, fuel_level,
			fuel_type, status, last_checklist, created_at, updated_at
		) VALUES (
			:id, :plate, :brand, :model, :year, :current_km, :fuel_level,
			:fuel_type, :status, :last_checklist, :created_at, :updated_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, vehicle)
	if err != nil {
		r.logger.Error("Failed to create vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicle.ID.String()),
			zap.String("plate", vehicle.Plate),
		)
		return entities.NewStoreError("create vehicle", err)
	}

	return nil
}

// GetByID получает транспортное средство по ID
func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Vehicle, error) {
	var vehicle entities.Vehicle
	query := `SELECT * FROM vehicles WHERE id = $1`

	err := sqlx.GetContext(ctx, r.ext, &vehicle, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrVehicleNotFound
		}
		r.logger.Error("Failed to get vehicle by ID",
			zap.Error(err),
			zap.String("vehicle_id", id.String()),
		)
		return nil, entities.NewStoreError("get vehicle", err)
	}

	return &vehicle, nil
}

// GetByPlate получает транспортное средство по номерному знаку
func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*entities.Vehicle, error) {
	var vehicle entities.Vehicle
	query := `SELECT * FROM vehicles WHERE plate = $1`

	err := sqlx.GetContext(ctx, r.ext, &vehicle, query, entities.NormalizePlate(plate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrVehicleNotFound
		}
		r.logger.Error("Failed to get vehicle by plate",
			zap.Error(err),
			zap.String("plate", plate),
		)
		return nil, entities.NewStoreError("get vehicle by plate", err)
	}

	return &vehicle, nil
}

// Update обновляет транспортное средство
func (r *vehicleRepository) Update(ctx context.Context, vehicle *entities.Vehicle) error {
	query := `
		UPDATE vehicles SET
			plate = :plate, brand = :brand, model = :model, year = :year,
			current_km = :current_km, fuel_level = :fuel_level,
			fuel_type = :fuel_type, status = :status,
			last_checklist = :last_checklist, updated_at = :updated_at
		WHERE id = :id`

	result, err := sqlx.NamedExecContext(ctx, r.ext, query, vehicle)
	if err != nil {
		r.logger.Error("Failed to update vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicle.ID.String()),
		)
		return entities.NewStoreError("update vehicle", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("update vehicle", err)
	}

	if rowsAffected == 0 {
		return entities.ErrVehicleNotFound
	}

	return nil
}

// List получает список транспортных средств
func (r *vehicleRepository) List(ctx context.Context) ([]*entities.Vehicle, error) {
	query := `SELECT * FROM vehicles ORDER BY plate`

	var vehicles []*entities.Vehicle
	err := sqlx.SelectContext(ctx, r.ext, &vehicles, query)
	if err != nil {
		r.logger.Error("Failed to list vehicles", zap.Error(err))
		return nil, entities.NewStoreError("list vehicles", err)
	}

	return vehicles, nil
}

// Availability возвращает сводку по статусам автопарка
func (r *vehicleRepository) Availability(ctx context.Context) (*entities.FleetAvailability, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'available')   AS available,
			COUNT(*) FILTER (WHERE status = 'in_use')      AS in_use,
			COUNT(*) FILTER (WHERE status = 'maintenance') AS maintenance,
			COUNT(*)                                       AS total
		FROM vehicles`

	var availability entities.FleetAvailability
	row := r.ext.QueryRowxContext(ctx, query)
	if err := row.Scan(&availability.Available, &availability.InUse, &availability.Maintenance, &availability.Total); err != nil {
		r.logger.Error("Failed to get fleet availability", zap.Error(err))
		return nil, entities.NewStoreError("fleet availability", err)
	}

	return &availability, nil
}
