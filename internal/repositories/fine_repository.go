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

// fineRepository реализация FineRepository поверх PostgreSQL
type fineRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает штраф
func (r *fineRepository) Create(ctx context.Context, fine *entities.Fine) error {
	query := `
		INSERT INTO fines (
			id, driver_id, vehicle_id, date, value, points, description, created_at
		) VALUES (
			:id, :driver_id, :vehicle_id, :date, :value, :points, :description, :created_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, fine)
	if err != nil {
		r.logger.Error("Failed to create fine",
			zap.Error(err),
			zap.String("fine_id", fine.ID.String()),
			zap.String("driver_id", fine.DriverID.String()),
		)
		return entities.NewStoreError("create fine", err)
	}

	return nil
}

// GetByID получает штраф по ID
func (r *fineRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Fine, error) {
	var fine entities.Fine
	query := `SELECT * FROM fines WHERE id = $1`

	err := sqlx.GetContext(ctx, r.ext, &fine, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrFineNotFound
		}
		r.logger.Error("Failed to get fine",
			zap.Error(err),
			zap.String("fine_id", id.String()),
		)
		return nil, entities.NewStoreError("get fine", err)
	}

	return &fine, nil
}

// Delete удаляет штраф. Удаление является административным действием,
// а не обычным событием жизненного цикла.
func (r *fineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM fines WHERE id = $1`

	result, err := r.ext.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete fine",
			zap.Error(err),
			zap.String("fine_id", id.String()),
		)
		return entities.NewStoreError("delete fine", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("delete fine", err)
	}

	if rowsAffected == 0 {
		return entities.ErrFineNotFound
	}

	return nil
}

// List получает все штрафы
func (r *fineRepository) List(ctx context.Context) ([]*entities.Fine, error) {
	query := `SELECT * FROM fines ORDER BY date DESC`

	var fines []*entities.Fine
	err := sqlx.SelectContext(ctx, r.ext, &fines, query)
	if err != nil {
		r.logger.Error("Failed to list fines", zap.Error(err))
		return nil, entities.NewStoreError("list fines", err)
	}

	return fines, nil
}

// ListByDriver получает штрафы водителя
func (r *fineRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Fine, error) {
	query := `SELECT * FROM fines WHERE driver_id = $1 ORDER BY date DESC`

	var fines []*entities.Fine
	err := sqlx.SelectContext(ctx, r.ext, &fines, query, driverID)
	if err != nil {
		r.logger.Error("Failed to list fines by driver",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, entities.NewStoreError("list fines by driver", err)
	}

	return fines, nil
}

// SumPointsByDriver возвращает сумму штрафных баллов водителя
func (r *fineRepository) SumPointsByDriver(ctx context.Context, driverID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(SUM(points), 0) FROM fines WHERE driver_id = $1`

	var sum int
	err := sqlx.GetContext(ctx, r.ext, &sum, query, driverID)
	if err != nil {
		r.logger.Error("Failed to sum fine points",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return 0, entities.NewStoreError("sum fine points", err)
	}

	return sum, nil
}
