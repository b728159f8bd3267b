package repositories

import (
	"context"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
)

// VehicleRepository интерфейс для работы с транспортными средствами
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entities.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*entities.Vehicle, error)
	Update(ctx context.Context, vehicle *entities.Vehicle) error
	List(ctx context.Context) ([]*entities.Vehicle, error)
	Availability(ctx context.Context) (*entities.FleetAvailability, error)
}

// DriverRepository интерфейс для работы с водителями
type DriverRepository interface {
	Create(ctx context.Context, driver *entities.Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error)
	GetByUsername(ctx context.Context, username string) (*entities.Driver, error)
	Update(ctx context.Context, driver *entities.Driver) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*entities.Driver, error)
}

// TripRepository интерфейс для работы с поездками. Запланированные,
// активные и завершенные поездки являются непересекающимися
// представлениями одной таблицы, отфильтрованными по фазе.
type TripRepository interface {
	Create(ctx context.Context, trip *entities.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error)
	Update(ctx context.Context, trip *entities.Trip) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStatus(ctx context.Context, status entities.TripStatus) ([]*entities.Trip, error)
	GetActiveByDriver(ctx context.Context, driverID uuid.UUID) (*entities.Trip, error)
	GetActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.Trip, error)
	ListScheduledByDate(ctx context.Context, date time.Time) ([]*entities.Trip, error)
}

// MaintenanceRepository интерфейс для работы с записями о техническом
// обслуживании
type MaintenanceRepository interface {
	Create(ctx context.Context, record *entities.MaintenanceRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRecord, error)
	Update(ctx context.Context, record *entities.MaintenanceRecord) error
	GetOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.MaintenanceRecord, error)
	List(ctx context.Context) ([]*entities.MaintenanceRecord, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceRecord, error)
}

// FineRepository интерфейс для работы со штрафами
type FineRepository interface {
	Create(ctx context.Context, fine *entities.Fine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Fine, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*entities.Fine, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Fine, error)
	SumPointsByDriver(ctx context.Context, driverID uuid.UUID) (int, error)
}

// TireChangeRepository интерфейс для работы с записями о замене шин
type TireChangeRepository interface {
	Create(ctx context.Context, change *entities.TireChange) error
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.TireChange, error)
}

// NotificationRepository интерфейс для работы с уведомлениями
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.AppNotification) error
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.AppNotification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// AuditLogRepository интерфейс для работы с журналом аудита
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entities.AuditLog) error
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*entities.AuditLog, error)
}

// Store агрегирует репозитории сущностей и предоставляет транзакционную
// границу. InTx выполняет функцию над Store, привязанным к одной
// транзакции: либо фиксируются все записи операции, либо ни одной.
type Store interface {
	Vehicles() VehicleRepository
	Drivers() DriverRepository
	Trips() TripRepository
	Maintenance() MaintenanceRepository
	Fines() FineRepository
	TireChanges() TireChangeRepository
	Notifications() NotificationRepository
	AuditLogs() AuditLogRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
