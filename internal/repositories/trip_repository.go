package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// tripRepository реализация TripRepository поверх PostgreSQL
type tripRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает поездку
func (r *tripRepository) Create(ctx context.Context, trip *entities.Trip) error {
	query := `
		INSERT INTO trips (
			id, driver_id, vehicle_id, status, origin, destination,
			waypoints, city, state, scheduled_date, notes, start_time,
			start_km, end_time, end_km, distance, fuel_expense,
			other_expense, expense_notes, log, is_cancelled,
			cancellation_reason, cancelled_by, created_at, updated_at
		) VALUES (
			:id, :driver_id, :vehicle_id, :status, :origin, :destination,
			:waypoints, :city, :state, :scheduled_date, :notes, :start_time,
			:start_km, :end_time, :end_km, :distance, :fuel_expense,
			:other_expense, :expense_notes, :log, :is_cancelled,
			:cancellation_reason, :cancelled_by, :created_at, :updated_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, trip)
	if err != nil {
		r.logger.Error("Failed to create trip",
			zap.Error(err),
			zap.String("trip_id", trip.ID.String()),
			zap.String("status", string(trip.Status)),
		)
		return entities.NewStoreError("create trip", err)
	}

	return nil
}

// GetByID получает поездку по ID
func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error) {
	var trip entities.Trip
	query := `SELECT * FROM trips WHERE id = $1`

	err := sqlx.GetContext(ctx, r.ext, &trip, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTripNotFound
		}
		r.logger.Error("Failed to get trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, entities.NewStoreError("get trip", err)
	}

	return &trip, nil
}

// Update обновляет поездку
func (r *tripRepository) Update(ctx context.Context, trip *entities.Trip) error {
	query := `
		UPDATE trips SET
			driver_id = :driver_id, vehicle_id = :vehicle_id,
			status = :status, origin = :origin, destination = :destination,
			waypoints = :waypoints, city = :city, state = :state,
			scheduled_date = :scheduled_date, notes = :notes,
			start_time = :start_time, start_km = :start_km,
			end_time = :end_time, end_km = :end_km, distance = :distance,
			fuel_expense = :fuel_expense, other_expense = :other_expense,
			expense_notes = :expense_notes, log = :log,
			is_cancelled = :is_cancelled,
			cancellation_reason = :cancellation_reason,
			cancelled_by = :cancelled_by, updated_at = :updated_at
		WHERE id = :id`

	result, err := sqlx.NamedExecContext(ctx, r.ext, query, trip)
	if err != nil {
		r.logger.Error("Failed to update trip",
			zap.Error(err),
			zap.String("trip_id", trip.ID.String()),
		)
		return entities.NewStoreError("update trip", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("update trip", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTripNotFound
	}

	return nil
}

// Delete удаляет поездку
func (r *tripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM trips WHERE id = $1`

	result, err := r.ext.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete trip",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return entities.NewStoreError("delete trip", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("delete trip", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTripNotFound
	}

	return nil
}

// ListByStatus получает поездки в указанной фазе
func (r *tripRepository) ListByStatus(ctx context.Context, status entities.TripStatus) ([]*entities.Trip, error) {
	query := `SELECT * FROM trips WHERE status = $1 ORDER BY created_at DESC`

	var trips []*entities.Trip
	err := sqlx.SelectContext(ctx, r.ext, &trips, query, status)
	if err != nil {
		r.logger.Error("Failed to list trips by status",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, entities.NewStoreError("list trips", err)
	}

	return trips, nil
}

// GetActiveByDriver получает активную поездку водителя. У водителя
// может быть не более одной активной поездки.
func (r *tripRepository) GetActiveByDriver(ctx context.Context, driverID uuid.UUID) (*entities.Trip, error) {
	var trip entities.Trip
	query := `SELECT * FROM trips WHERE driver_id = $1 AND status = 'active'`

	err := sqlx.GetContext(ctx, r.ext, &trip, query, driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTripNotFound
		}
		r.logger.Error("Failed to get active trip by driver",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, entities.NewStoreError("get active trip by driver", err)
	}

	return &trip, nil
}

// GetActiveByVehicle получает активную поездку транспортного средства
func (r *tripRepository) GetActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.Trip, error) {
	var trip entities.Trip
	query := `SELECT * FROM trips WHERE vehicle_id = $1 AND status = 'active'`

	err := sqlx.GetContext(ctx, r.ext, &trip, query, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTripNotFound
		}
		r.logger.Error("Failed to get active trip by vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, entities.NewStoreError("get active trip by vehicle", err)
	}

	return &trip, nil
}

// ListScheduledByDate получает запланированные поездки на календарную дату
func (r *tripRepository) ListScheduledByDate(ctx context.Context, date time.Time) ([]*entities.Trip, error) {
	query := `
		SELECT * FROM trips
		WHERE status = 'scheduled' AND scheduled_date::date = $1::date
		ORDER BY scheduled_date`

	var trips []*entities.Trip
	err := sqlx.SelectContext(ctx, r.ext, &trips, query, date)
	if err != nil {
		r.logger.Error("Failed to list scheduled trips by date",
			zap.Error(err),
			zap.Time("date", date),
		)
		return nil, entities.NewStoreError("list scheduled trips", err)
	}

	return trips, nil
}
