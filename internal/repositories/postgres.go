package repositories

import (
	"context"

	"fleet-service/internal/infrastructure/database"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// postgresStore реализация Store поверх PostgreSQL. Вне транзакции
// репозитории работают через пул соединений; внутри InTx все
// репозитории привязаны к одной транзакции.
type postgresStore struct {
	db     *database.DB
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// NewPostgresStore создает Store поверх PostgreSQL
func NewPostgresStore(db *database.DB, logger *zap.Logger) Store {
	return &postgresStore{
		db:     db,
		ext:    db.DB,
		logger: logger,
	}
}

// Vehicles возвращает репозиторий транспортных средств
func (s *postgresStore) Vehicles() VehicleRepository {
	return &vehicleRepository{ext: s.ext, logger: s.logger}
}

// Drivers возвращает репозиторий водителей
func (s *postgresStore) Drivers() DriverRepository {
	return &driverRepository{ext: s.ext, logger: s.logger}
}

// Trips возвращает репозиторий поездок
func (s *postgresStore) Trips() TripRepository {
	return &tripRepository{ext: s.ext, logger: s.logger}
}

// Maintenance возвращает репозиторий записей о техническом обслуживании
func (s *postgresStore) Maintenance() MaintenanceRepository {
	return &maintenanceRepository{ext: s.ext, logger: s.logger}
}

// Fines возвращает репозиторий штрафов
func (s *postgresStore) Fines() FineRepository {
	return &fineRepository{ext: s.ext, logger: s.logger}
}

// TireChanges возвращает репозиторий записей о замене шин
func (s *postgresStore) TireChanges() TireChangeRepository {
	return &tireChangeRepository{ext: s.ext, logger: s.logger}
}

// Notifications возвращает репозиторий уведомлений
func (s *postgresStore) Notifications() NotificationRepository {
	return &notificationRepository{ext: s.ext, logger: s.logger}
}

// AuditLogs возвращает репозиторий журнала аудита
func (s *postgresStore) AuditLogs() AuditLogRepository {
	return &auditLogRepository{ext: s.ext, logger: s.logger}
}

// InTx выполняет функцию в транзакции. Вложенный вызов InTx выполняется
// в уже открытой транзакции.
func (s *postgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	return s.db.TransactionWithContext(ctx, func(tx *sqlx.Tx) error {
		return fn(&postgresStore{ext: tx, logger: s.logger})
	})
}
