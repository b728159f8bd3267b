package repositories

import (
	"context"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// tireChangeRepository реализация TireChangeRepository поверх PostgreSQL
type tireChangeRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает запись о замене шин
func (r *tireChangeRepository) Create(ctx context.Context, change *entities.TireChange) error {
	query := `
		INSERT INTO tire_changes (
			id, vehicle_id, date, km, position, brand, notes, created_at
		) VALUES (
			:id, :vehicle_id, :date, :km, :position, :brand, :notes, :created_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, change)
	if err != nil {
		r.logger.Error("Failed to create tire change",
			zap.Error(err),
			zap.String("vehicle_id", change.VehicleID.String()),
		)
		return entities.NewStoreError("create tire change", err)
	}

	return nil
}

// ListByVehicle получает записи о замене шин транспортного средства
func (r *tireChangeRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.TireChange, error) {
	query := `SELECT * FROM tire_changes WHERE vehicle_id = $1 ORDER BY date DESC`

	var changes []*entities.TireChange
	err := sqlx.SelectContext(ctx, r.ext, &changes, query, vehicleID)
	if err != nil {
		r.logger.Error("Failed to list tire changes",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, entities.NewStoreError("list tire changes", err)
	}

	return changes, nil
}

// auditLogRepository реализация AuditLogRepository поверх PostgreSQL
type auditLogRepository struct {
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Create создает запись журнала аудита
func (r *auditLogRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, entity_id, kind, actor, message, created_at
		) VALUES (
			:id, :entity_id, :kind, :actor, :message, :created_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.ext, query, entry)
	if err != nil {
		r.logger.Error("Failed to create audit log entry",
			zap.Error(err),
			zap.String("entity_id", entry.EntityID.String()),
			zap.String("kind", string(entry.Kind)),
		)
		return entities.NewStoreError("create audit log", err)
	}

	return nil
}

// ListByEntity получает записи журнала аудита для сущности
func (r *auditLogRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*entities.AuditLog, error) {
	query := `SELECT * FROM audit_logs WHERE entity_id = $1 ORDER BY created_at DESC`

	var entries []*entities.AuditLog
	err := sqlx.SelectContext(ctx, r.ext, &entries, query, entityID)
	if err != nil {
		r.logger.Error("Failed to list audit log entries",
			zap.Error(err),
			zap.String("entity_id", entityID.String()),
		)
		return nil, entities.NewStoreError("list audit logs", err)
	}

	return entries, nil
}
