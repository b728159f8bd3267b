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

// maintenanceRepository реализация MaintenanceRepository поверх PostgreSQL
type maintenanceRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает запись о техническом обслуживании
func (r *maintenanceRepository) Create(ctx context.Context, record *entities.MaintenanceRecord) error {
	query := `
		INSERT INTO maintenance_records (
			id, vehicle_id, date, return_date, service_type, cost, km,
			categories, return_notes, created_at, updated_at
		) VALUES (
			:id, :vehicle_id, :date, :return_date, :service_type, :cost, :km,
			:categories, :return_notes, :created_at, :updated_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, record)
	if err != nil {
		r.logger.Error("Failed to create maintenance record",
			zap.Error(err),
			zap.String("record_id", record.ID.String()),
			zap.String("vehicle_id", record.VehicleID.String()),
		)
		return entities.NewStoreError("create maintenance record", err)
	}

	return nil
}

// GetByID получает запись о техническом обслуживании по ID
func (r *maintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRecord, error) {
	var record entities.MaintenanceRecord
	query := `SELECT * FROM maintenance_records WHERE id = $1`

	err := sqlx.GetContext(ctx, r.ext, &record, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrMaintenanceNotFound
		}
		r.logger.Error("Failed to get maintenance record",
			zap.Error(err),
			zap.String("record_id", id.String()),
		)
		return nil, entities.NewStoreError("get maintenance record", err)
	}

	return &record, nil
}

// Update обновляет запись о техническом обслуживании
func (r *maintenanceRepository) Update(ctx context.Context, record *entities.MaintenanceRecord) error {
	query := `
		UPDATE maintenance_records SET
			return_date = :return_date, service_type = :service_type,
			cost = :cost, km = :km, categories = :categories,
			return_notes = :return_notes, updated_at = :updated_at
		WHERE id = :id`

	result, err := sqlx.NamedExecContext(ctx, r.ext, query, record)
	if err != nil {
		r.logger.Error("Failed to update maintenance record",
			zap.Error(err),
			zap.String("record_id", record.ID.String()),
		)
		return entities.NewStoreError("update maintenance record", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("update maintenance record", err)
	}

	if rowsAffected == 0 {
		return entities.ErrMaintenanceNotFound
	}

	return nil
}

// GetOpenByVehicle получает открытую запись транспортного средства.
// Инвариант: открытых записей не более одной.
func (r *maintenanceRepository) GetOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.MaintenanceRecord, error) {
	var record entities.MaintenanceRecord
	query := `
		SELECT * FROM maintenance_records
		WHERE vehicle_id = $1 AND return_date IS NULL`

	err := sqlx.GetContext(ctx, r.ext, &record, query, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrMaintenanceNotFound
		}
		r.logger.Error("Failed to get open maintenance record",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, entities.NewStoreError("get open maintenance record", err)
	}

	return &record, nil
}

// List получает все записи о техническом обслуживании
func (r *maintenanceRepository) List(ctx context.Context) ([]*entities.MaintenanceRecord, error) {
	query := `SELECT * FROM maintenance_records ORDER BY date DESC`

	var records []*entities.MaintenanceRecord
	err := sqlx.SelectContext(ctx, r.ext, &records, query)
	if err != nil {
		r.logger.Error("Failed to list maintenance records", zap.Error(err))
		return nil, entities.NewStoreError("list maintenance records", err)
	}

	return records, nil
}

// ListByVehicle получает записи транспортного средства
func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceRecord, error) {
	query := `
		SELECT * FROM maintenance_records
		WHERE vehicle_id = $1
		ORDER BY date DESC`

	var records []*entities.MaintenanceRecord
	err := sqlx.SelectContext(ctx, r.ext, &records, query, vehicleID)
	if err != nil {
		r.logger.Error("Failed to list maintenance records by vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, entities.NewStoreError("list maintenance records by vehicle", err)
	}

	return records, nil
}
