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

// driverRepository реализация DriverRepository поверх PostgreSQL
type driverRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает водителя
func (r *driverRepository) Create(ctx context.Context, driver *entities.Driver) error {
	query := `
		INSERT INTO drivers (
			id, full_name, username, password_hash, password_changed,
			role, cnh, cnh_category, initial_points, created_at, updated_at
		) VALUES (
			:id, :full_name, :username, :password_hash, :password_changed,
			:role, :cnh, :cnh_category, :initial_points, :created_at, :updated_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, driver)
	if err != nil {
		r.logger.Error("Failed to create driver",
			zap.Error(err),
			zap.String("driver_id", driver.ID.String()),
			zap.String("username", driver.Username),
		)
		return entities.NewStoreError("create driver", err)
	}

	return nil
}

// GetByID получает водителя по ID
func (r *driverRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error) {
	var driver entities.Driver
	query := `SELECT * FROM drivers WHERE id = $1 AND deleted_at IS NULL`

	err := sqlx.GetContext(ctx, r.ext, &driver, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrDriverNotFound
		}
		r.logger.Error("Failed to get driver by ID",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return nil, entities.NewStoreError("get driver", err)
	}

	return &driver, nil
}

// GetByUsername получает водителя по имени пользователя
func (r *driverRepository) GetByUsername(ctx context.Context, username string) (*entities.Driver, error) {
	var driver entities.Driver
	query := `SELECT * FROM drivers WHERE username = $1 AND deleted_at IS NULL`

	err := sqlx.GetContext(ctx, r.ext, &driver, query, entities.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrDriverNotFound
		}
		r.logger.Error("Failed to get driver by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, entities.NewStoreError("get driver by username", err)
	}

	return &driver, nil
}

// Update обновляет данные водителя
func (r *driverRepository) Update(ctx context.Context, driver *entities.Driver) error {
	query := `
		UPDATE drivers SET
			full_name = :full_name, username = :username,
			password_hash = :password_hash, password_changed = :password_changed,
			role = :role, cnh = :cnh, cnh_category = :cnh_category,
			initial_points = :initial_points, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`

	result, err := sqlx.NamedExecContext(ctx, r.ext, query, driver)
	if err != nil {
		r.logger.Error("Failed to update driver",
			zap.Error(err),
			zap.String("driver_id", driver.ID.String()),
		)
		return entities.NewStoreError("update driver", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("update driver", err)
	}

	if rowsAffected == 0 {
		return entities.ErrDriverNotFound
	}

	return nil
}

// SoftDelete мягкое удаление водителя
func (r *driverRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE drivers
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.ext.ExecContext(ctx, query, now, id)
	if err != nil {
		r.logger.Error("Failed to soft delete driver",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return entities.NewStoreError("soft delete driver", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("soft delete driver", err)
	}

	if rowsAffected == 0 {
		return entities.ErrDriverNotFound
	}

	return nil
}

// List получает список водителей
func (r *driverRepository) List(ctx context.Context) ([]*entities.Driver, error) {
	query := `SELECT * FROM drivers WHERE deleted_at IS NULL ORDER BY full_name`

	var drivers []*entities.Driver
	err := sqlx.SelectContext(ctx, r.ext, &drivers, query)
	if err != nil {
		r.logger.Error("Failed to list drivers", zap.Error(err))
		return nil, entities.NewStoreError("list drivers", err)
	}

	return drivers, nil
}
