package services

import (
	"context"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/domain/restriction"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleInput параметры создания или изменения запланированной поездки
type ScheduleInput struct {
	DriverID      uuid.UUID
	VehicleID     uuid.UUID
	Origin        string
	Destination   string
	Waypoints     []string
	City          string
	State         string
	ScheduledDate time.Time
	Notes         string
}

// SchedulingService проверяет и сохраняет запланированные поездки.
// Перед записью назначение проходит через движок ограничений; любое
// сработавшее правило возвращается вызывающему, запись не выполняется.
type SchedulingService interface {
	CreateOrUpdateSchedule(ctx context.Context, input ScheduleInput, excludeID uuid.UUID) (*entities.Trip, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID, actor string) error
	ListSchedules(ctx context.Context) ([]*entities.Trip, error)
}

// schedulingService реализация SchedulingService
type schedulingService struct {
	store  repositories.Store
	engine *restriction.Engine
	locker *VehicleLocker
	logger *zap.Logger
}

// NewSchedulingService создает новый SchedulingService
func NewSchedulingService(
	store repositories.Store,
	engine *restriction.Engine,
	locker *VehicleLocker,
	logger *zap.Logger,
) SchedulingService {
	return &schedulingService{
		store:  store,
		engine: engine,
		locker: locker,
		logger: logger,
	}
}

// CreateOrUpdateSchedule проверяет назначение по движку ограничений и
// сохраняет запланированную поездку. Проверка и запись выполняются под
// блокировкой транспортного средства: два одновременных бронирования
// одного транспортного средства на одну дату не могут пройти обе
// проверки. При редактировании запись исключает себя из поиска
// конфликтов.
func (s *schedulingService) CreateOrUpdateSchedule(ctx context.Context, input ScheduleInput, excludeID uuid.UUID) (*entities.Trip, error) {
	if input.Destination == "" || input.ScheduledDate.IsZero() {
		return nil, entities.ErrInvalidTripData
	}

	unlock := s.locker.Lock(input.VehicleID)
	defer unlock()

	var trip *entities.Trip
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		vehicle, err := tx.Vehicles().GetByID(ctx, input.VehicleID)
		if err != nil {
			return err
		}

		if _, err := tx.Drivers().GetByID(ctx, input.DriverID); err != nil {
			return err
		}

		snapshot, err := tx.Trips().ListByStatus(ctx, entities.TripScheduled)
		if err != nil {
			return err
		}

		if r := s.engine.CheckAssignment(vehicle, input.ScheduledDate, input.City, input.State, input.Destination, snapshot, excludeID); r != nil {
			return r
		}

		if excludeID != uuid.Nil {
			trip, err = tx.Trips().GetByID(ctx, excludeID)
			if err != nil {
				return err
			}

			if trip.Status != entities.TripScheduled {
				return entities.ErrInvalidTripPhase
			}

			trip.DriverID = input.DriverID
			trip.VehicleID = input.VehicleID
			trip.Origin = input.Origin
			trip.Destination = input.Destination
			trip.Waypoints = input.Waypoints
			trip.City = input.City
			trip.State = input.State
			trip.ScheduledDate = &input.ScheduledDate
			trip.Notes = input.Notes
			trip.UpdatedAt = time.Now()

			return tx.Trips().Update(ctx, trip)
		}

		trip = entities.NewScheduledTrip(input.DriverID, input.VehicleID, input.Origin, input.Destination, input.City, input.State, input.Waypoints, input.ScheduledDate, input.Notes)
		if err := trip.Validate(); err != nil {
			return err
		}

		return tx.Trips().Create(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Schedule saved",
		zap.String("trip_id", trip.ID.String()),
		zap.String("vehicle_id", input.VehicleID.String()),
		zap.Time("scheduled_date", input.ScheduledDate),
	)

	return trip, nil
}

// DeleteSchedule безусловно удаляет запланированную поездку. Каскадных
// эффектов на другие сущности нет.
func (s *schedulingService) DeleteSchedule(ctx context.Context, id uuid.UUID, actor string) error {
	return s.store.InTx(ctx, func(tx repositories.Store) error {
		trip, err := tx.Trips().GetByID(ctx, id)
		if err != nil {
			return err
		}

		if trip.Status != entities.TripScheduled {
			return entities.ErrInvalidTripPhase
		}

		if err := tx.Trips().Delete(ctx, id); err != nil {
			return err
		}

		entry := entities.NewAuditLog(id, entities.AuditScheduleDeleted, actor, "scheduled trip removed")
		return tx.AuditLogs().Create(ctx, entry)
	})
}

// ListSchedules получает все запланированные поездки
func (s *schedulingService) ListSchedules(ctx context.Context) ([]*entities.Trip, error) {
	return s.store.Trips().ListByStatus(ctx, entities.TripScheduled)
}
