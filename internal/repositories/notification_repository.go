package repositories

import (
	"context"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// notificationRepository реализация NotificationRepository поверх PostgreSQL
type notificationRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает уведомление
func (r *notificationRepository) Create(ctx context.Context, notification *entities.AppNotification) error {
	query := `
		INSERT INTO notifications (
			id, driver_id, kind, message, is_read, created_at
		) VALUES (
			:id, :driver_id, :kind, :message, :is_read, :created_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, notification)
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.Error(err),
			zap.String("driver_id", notification.DriverID.String()),
			zap.String("kind", string(notification.Kind)),
		)
		return entities.NewStoreError("create notification", err)
	}

	return nil
}

// ListByDriver получает уведомления водителя
func (r *notificationRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.AppNotification, error) {
	query := `SELECT * FROM notifications WHERE driver_id = $1 ORDER BY created_at DESC`

	var notifications []*entities.AppNotification
	err := sqlx.SelectContext(ctx, r.ext, &notifications, query, driverID)
	if err != nil {
		r.logger.Error("Failed to list notifications",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, entities.NewStoreError("list notifications", err)
	}

	return notifications, nil
}

// MarkRead помечает уведомление прочитанным. Единственное изменяемое
// поле уведомления после создания.
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`

	result, err := r.ext.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return entities.NewStoreError("mark notification read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return entities.NewStoreError("mark notification read", err)
	}

	if rowsAffected == 0 {
		return entities.ErrNotificationNotFound
	}

	return nil
}
