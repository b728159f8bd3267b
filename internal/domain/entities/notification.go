package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind тип уведомления
type NotificationKind string

const (
	NotificationFineIssued          NotificationKind = "fine_issued"
	NotificationMaintenanceOpened   NotificationKind = "maintenance_opened"
	NotificationMaintenanceResolved NotificationKind = "maintenance_resolved"
)

// AppNotification уведомление пользователя. После создания изменяется
// только флаг IsRead.
type AppNotification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	DriverID  uuid.UUID        `json:"driver_id" db:"driver_id"`
	Kind      NotificationKind `json:"kind" db:"kind"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// NewNotification создает новое уведомление
func NewNotification(driverID uuid.UUID, kind NotificationKind, message string) *AppNotification {
	return &AppNotification{
		ID:        uuid.New(),
		DriverID:  driverID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// AuditKind тип записи аудита
type AuditKind string

const (
	AuditTripCancelled       AuditKind = "trip_cancelled"
	AuditFineDeleted         AuditKind = "fine_deleted"
	AuditPasswordReset       AuditKind = "password_reset"
	AuditScheduleDeleted     AuditKind = "schedule_deleted"
)

// AuditLog запись журнала аудита, append-only
type AuditLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EntityID  uuid.UUID `json:"entity_id" db:"entity_id"`
	Kind      AuditKind `json:"kind" db:"kind"`
	Actor     string    `json:"actor" db:"actor"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewAuditLog создает запись журнала аудита
func NewAuditLog(entityID uuid.UUID, kind AuditKind, actor, message string) *AuditLog {
	return &AuditLog{
		ID:        uuid.New(),
		EntityID:  entityID,
		Kind:      kind,
		Actor:     actor,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
