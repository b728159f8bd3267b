package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher интерфейс для публикации событий автопарка
type EventPublisher interface {
	PublishFleetEvent(ctx context.Context, eventType string, entityID uuid.UUID, data interface{}) error
}

// StartTripInput параметры начала поездки. Либо ScheduledTripID
// (продвижение запланированной поездки), либо поля новой поездки.
type StartTripInput struct {
	ScheduledTripID *uuid.UUID
	DriverID        uuid.UUID
	VehicleID       uuid.UUID
	Origin          string
	Destination     string
	Waypoints       []string
	City            string
	State           string
	StartTime       time.Time
	Checklist       entities.Checklist
}

// EndTripInput параметры завершения поездки
type EndTripInput struct {
	EndKm        int
	EndTime      time.Time
	FuelExpense  float64
	OtherExpense float64
	ExpenseNotes string
}

// OpenMaintenanceInput параметры постановки на техническое обслуживание
type OpenMaintenanceInput struct {
	VehicleID   uuid.UUID
	Date        time.Time
	ServiceType string
	Cost        float64
	Km          int
	Categories  []string
}

// ResolveMaintenanceInput параметры снятия с технического обслуживания
type ResolveMaintenanceInput struct {
	VehicleID  uuid.UUID
	RecordID   uuid.UUID
	ExitKm     int
	ExitDate   time.Time
	Cost       *float64
	Notes      string
	Checked    []string
}

// FleetService машина состояний автопарка: владеет правилами переходов
// статуса транспортных средств и жизненного цикла поездок. Каждая
// операция выполняется как единая атомарная единица работы: все записи
// фиксируются вместе или не фиксируются вовсе.
type FleetService interface {
	StartTrip(ctx context.Context, input StartTripInput) (*entities.Trip, error)
	EndTrip(ctx context.Context, tripID uuid.UUID, input EndTripInput) (*entities.Trip, error)
	CancelTrip(ctx context.Context, tripID uuid.UUID, reason, actor string) (*entities.Trip, error)
	AppendTripLog(ctx context.Context, tripID uuid.UUID, kind entities.TripLogKind, text string) (*entities.Trip, error)
	OpenMaintenance(ctx context.Context, input OpenMaintenanceInput) (*entities.MaintenanceRecord, error)
	ResolveMaintenance(ctx context.Context, input ResolveMaintenanceInput) (*entities.MaintenanceRecord, error)
	AddFine(ctx context.Context, fine *entities.Fine) (*entities.Fine, error)
	DeleteFine(ctx context.Context, fineID uuid.UUID, actor string) error
	DriverPoints(ctx context.Context, driverID uuid.UUID) (*entities.DriverPoints, error)
	FleetAvailability(ctx context.Context) (*entities.FleetAvailability, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*entities.Trip, error)
	ListTrips(ctx context.Context, status entities.TripStatus) ([]*entities.Trip, error)
	ListMaintenance(ctx context.Context) ([]*entities.MaintenanceRecord, error)
	ListFines(ctx context.Context) ([]*entities.Fine, error)
	ListFinesByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Fine, error)
}

// fleetService реализация FleetService
type fleetService struct {
	store      repositories.Store
	locker     *VehicleLocker
	dispatcher *NotificationDispatcher
	eventBus   EventPublisher
	logger     *zap.Logger
}

// NewFleetService создает новый FleetService
func NewFleetService(
	store repositories.Store,
	locker *VehicleLocker,
	dispatcher *NotificationDispatcher,
	eventBus EventPublisher,
	logger *zap.Logger,
) FleetService {
	return &fleetService{
		store:      store,
		locker:     locker,
		dispatcher: dispatcher,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// StartTrip начинает поездку. Транспортное средство должно быть
// доступно, показание одометра в чек-листе не может быть меньше
// текущего. Запланированная поездка при продвижении поглощается.
func (s *fleetService) StartTrip(ctx context.Context, input StartTripInput) (*entities.Trip, error) {
	vehicleID := input.VehicleID
	if input.ScheduledTripID != nil {
		scheduled, err := s.store.Trips().GetByID(ctx, *input.ScheduledTripID)
		if err != nil {
			return nil, err
		}
		vehicleID = scheduled.VehicleID
	}

	unlock := s.locker.Lock(vehicleID)
	defer unlock()

	startTime := input.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	var trip *entities.Trip
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		vehicle, err := tx.Vehicles().GetByID(ctx, vehicleID)
		if err != nil {
			return err
		}

		if !vehicle.IsAvailable() {
			return entities.ErrVehicleUnavailable
		}

		if input.Checklist.Km < vehicle.CurrentKm {
			return entities.ErrInvalidOdometerReading
		}

		if input.ScheduledTripID != nil {
			trip, err = tx.Trips().GetByID(ctx, *input.ScheduledTripID)
			if err != nil {
				return err
			}
		} else {
			trip = &entities.Trip{
				ID:          uuid.New(),
				DriverID:    input.DriverID,
				VehicleID:   input.VehicleID,
				Status:      entities.TripScheduled,
				Origin:      input.Origin,
				Destination: input.Destination,
				Waypoints:   input.Waypoints,
				City:        input.City,
				State:       input.State,
				Log:         entities.TripLog{},
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
		}

		// У водителя не более одной активной поездки
		if _, err := tx.Trips().GetActiveByDriver(ctx, trip.DriverID); err == nil {
			return entities.ErrDriverHasTrip
		} else if !errors.Is(err, entities.ErrTripNotFound) {
			return err
		}

		if err := trip.Start(input.Checklist.Km, startTime); err != nil {
			return err
		}

		// Валидация после перехода: требование даты планирования
		// относится только к сохраненным запланированным поездкам
		if err := trip.Validate(); err != nil {
			return err
		}

		checklist := input.Checklist
		if checklist.CreatedAt.IsZero() {
			checklist.CreatedAt = startTime
		}

		vehicle.ChangeStatus(entities.VehicleInUse)
		if err := vehicle.AdvanceOdometer(checklist.Km); err != nil {
			return err
		}
		vehicle.LastChecklist = entities.ChecklistSnapshot{Checklist: &checklist}
		vehicle.FuelLevel = checklist.FuelLevel

		if input.ScheduledTripID != nil {
			if err := tx.Trips().Update(ctx, trip); err != nil {
				return err
			}
		} else {
			if err := tx.Trips().Create(ctx, trip); err != nil {
				return err
			}
		}

		return tx.Vehicles().Update(ctx, vehicle)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Trip started",
		zap.String("trip_id", trip.ID.String()),
		zap.String("vehicle_id", vehicleID.String()),
		zap.String("driver_id", trip.DriverID.String()),
	)
	s.publishEvent(ctx, "trip.started", trip.ID, map[string]interface{}{
		"vehicle_id": vehicleID.String(),
		"driver_id":  trip.DriverID.String(),
		"start_km":   input.Checklist.Km,
	})

	return trip, nil
}

// EndTrip завершает активную поездку. Конечное показание одометра
// строго больше начального: поездка с нулевым расстоянием считается
// ошибкой ввода и отклоняется.
func (s *fleetService) EndTrip(ctx context.Context, tripID uuid.UUID, input EndTripInput) (*entities.Trip, error) {
	current, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(current.VehicleID)
	defer unlock()

	endTime := input.EndTime
	if endTime.IsZero() {
		endTime = time.Now()
	}

	var trip *entities.Trip
	err = s.store.InTx(ctx, func(tx repositories.Store) error {
		trip, err = tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		if err := trip.Complete(input.EndKm, endTime, input.FuelExpense, input.OtherExpense, input.ExpenseNotes); err != nil {
			return err
		}

		vehicle, err := tx.Vehicles().GetByID(ctx, trip.VehicleID)
		if err != nil {
			return err
		}

		vehicle.ChangeStatus(entities.VehicleAvailable)
		if err := vehicle.AdvanceOdometer(input.EndKm); err != nil {
			return err
		}

		if err := tx.Trips().Update(ctx, trip); err != nil {
			return err
		}

		return tx.Vehicles().Update(ctx, vehicle)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Trip completed",
		zap.String("trip_id", trip.ID.String()),
		zap.Int("distance", *trip.Distance),
	)
	s.publishEvent(ctx, "trip.completed", trip.ID, map[string]interface{}{
		"vehicle_id": trip.VehicleID.String(),
		"distance":   *trip.Distance,
	})

	return trip, nil
}

// CancelTrip отменяет активную поездку. Причина обязательна для
// журнала аудита; показание одометра не меняется, отмененная поездка
// расстояние не записывает.
func (s *fleetService) CancelTrip(ctx context.Context, tripID uuid.UUID, reason, actor string) (*entities.Trip, error) {
	current, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(current.VehicleID)
	defer unlock()

	var trip *entities.Trip
	err = s.store.InTx(ctx, func(tx repositories.Store) error {
		trip, err = tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		if err := trip.Cancel(reason, actor, time.Now()); err != nil {
			return err
		}

		vehicle, err := tx.Vehicles().GetByID(ctx, trip.VehicleID)
		if err != nil {
			return err
		}
		vehicle.ChangeStatus(entities.VehicleAvailable)

		if err := tx.Trips().Update(ctx, trip); err != nil {
			return err
		}

		if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
			return err
		}

		entry := entities.NewAuditLog(trip.ID, entities.AuditTripCancelled, actor, reason)
		return tx.AuditLogs().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Trip cancelled",
		zap.String("trip_id", trip.ID.String()),
		zap.String("actor", actor),
	)
	s.publishEvent(ctx, "trip.cancelled", trip.ID, map[string]interface{}{
		"vehicle_id": trip.VehicleID.String(),
		"reason":     reason,
		"actor":      actor,
	})

	return trip, nil
}

// AppendTripLog добавляет запись в журнал активной поездки
func (s *fleetService) AppendTripLog(ctx context.Context, tripID uuid.UUID, kind entities.TripLogKind, text string) (*entities.Trip, error) {
	var trip *entities.Trip
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		var err error
		trip, err = tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		if err := trip.AppendLog(kind, text); err != nil {
			return err
		}

		return tx.Trips().Update(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// OpenMaintenance ставит транспортное средство на техническое
// обслуживание. Транспортное средство в активной поездке сначала
// должно завершить или отменить ее: прямого перехода in_use ->
// maintenance не существует.
func (s *fleetService) OpenMaintenance(ctx context.Context, input OpenMaintenanceInput) (*entities.MaintenanceRecord, error) {
	unlock := s.locker.Lock(input.VehicleID)
	defer unlock()

	record := entities.NewMaintenanceRecord(input.VehicleID, input.Date, input.ServiceType, input.Cost, input.Km, input.Categories)
	if err := record.Validate(); err != nil {
		return nil, err
	}

	var notifications []*entities.AppNotification
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		vehicle, err := tx.Vehicles().GetByID(ctx, input.VehicleID)
		if err != nil {
			return err
		}

		if !vehicle.IsAvailable() {
			return entities.ErrVehicleUnavailable
		}

		if _, err := tx.Maintenance().GetOpenByVehicle(ctx, input.VehicleID); err == nil {
			return entities.ErrMaintenanceOpen
		} else if !errors.Is(err, entities.ErrMaintenanceNotFound) {
			return err
		}

		if err := tx.Maintenance().Create(ctx, record); err != nil {
			return err
		}

		vehicle.ChangeStatus(entities.VehicleMaintenance)
		if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
			return err
		}

		notifications, err = s.dispatcher.NotifyMaintenance(ctx, tx, vehicle, entities.NotificationMaintenanceOpened)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance opened",
		zap.String("record_id", record.ID.String()),
		zap.String("vehicle_id", input.VehicleID.String()),
		zap.String("service_type", input.ServiceType),
	)
	s.dispatcher.Broadcast(notifications...)
	s.publishEvent(ctx, "maintenance.opened", record.ID, map[string]interface{}{
		"vehicle_id":   input.VehicleID.String(),
		"service_type": input.ServiceType,
	})

	return record, nil
}

// ResolveMaintenance снимает транспортное средство с технического
// обслуживания. Все заявленные категории должны быть подтверждены:
// частичное подтверждение отклоняется, а не принимается с
// предупреждением.
func (s *fleetService) ResolveMaintenance(ctx context.Context, input ResolveMaintenanceInput) (*entities.MaintenanceRecord, error) {
	unlock := s.locker.Lock(input.VehicleID)
	defer unlock()

	var record *entities.MaintenanceRecord
	var notifications []*entities.AppNotification
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		var err error
		record, err = tx.Maintenance().GetByID(ctx, input.RecordID)
		if err != nil {
			return err
		}

		if record.VehicleID != input.VehicleID {
			return entities.ErrMaintenanceNotFound
		}

		if err := record.Resolve(input.ExitKm, input.ExitDate, input.Cost, input.Notes, input.Checked); err != nil {
			return err
		}

		vehicle, err := tx.Vehicles().GetByID(ctx, input.VehicleID)
		if err != nil {
			return err
		}

		vehicle.ChangeStatus(entities.VehicleAvailable)
		if err := vehicle.AdvanceOdometer(input.ExitKm); err != nil {
			return err
		}

		if err := tx.Maintenance().Update(ctx, record); err != nil {
			return err
		}

		if err := tx.Vehicles().Update(ctx, vehicle); err != nil {
			return err
		}

		notifications, err = s.dispatcher.NotifyMaintenance(ctx, tx, vehicle, entities.NotificationMaintenanceResolved)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance resolved",
		zap.String("record_id", record.ID.String()),
		zap.String("vehicle_id", input.VehicleID.String()),
	)
	s.dispatcher.Broadcast(notifications...)
	s.publishEvent(ctx, "maintenance.resolved", record.ID, map[string]interface{}{
		"vehicle_id": input.VehicleID.String(),
		"exit_km":    input.ExitKm,
	})

	return record, nil
}

// AddFine регистрирует штраф и создает уведомление для водителя.
// Состояние транспортных средств и поездок не затрагивается.
func (s *fleetService) AddFine(ctx context.Context, fine *entities.Fine) (*entities.Fine, error) {
	if err := fine.Validate(); err != nil {
		return nil, err
	}

	var notification *entities.AppNotification
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Drivers().GetByID(ctx, fine.DriverID); err != nil {
			return err
		}

		if err := tx.Fines().Create(ctx, fine); err != nil {
			return err
		}

		var err error
		notification, err = s.dispatcher.NotifyFineIssued(ctx, tx, fine)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fine registered",
		zap.String("fine_id", fine.ID.String()),
		zap.String("driver_id", fine.DriverID.String()),
		zap.Int("points", fine.Points),
	)
	s.dispatcher.Broadcast(notification)
	s.publishEvent(ctx, "fine.issued", fine.ID, map[string]interface{}{
		"driver_id": fine.DriverID.String(),
		"points":    fine.Points,
	})

	return fine, nil
}

// DeleteFine удаляет штраф. Административное действие, фиксируется
// в журнале аудита.
func (s *fleetService) DeleteFine(ctx context.Context, fineID uuid.UUID, actor string) error {
	return s.store.InTx(ctx, func(tx repositories.Store) error {
		fine, err := tx.Fines().GetByID(ctx, fineID)
		if err != nil {
			return err
		}

		if err := tx.Fines().Delete(ctx, fineID); err != nil {
			return err
		}

		message := fmt.Sprintf("fine of %.2f (%d points) removed", fine.Value, fine.Points)
		entry := entities.NewAuditLog(fine.DriverID, entities.AuditFineDeleted, actor, message)
		return tx.AuditLogs().Create(ctx, entry)
	})
}

// DriverPoints возвращает суммарные штрафные баллы водителя:
// перенесенные баллы плюс сумма баллов по штрафам. Значение вычисляется
// по запросу и нигде не кэшируется.
func (s *fleetService) DriverPoints(ctx context.Context, driverID uuid.UUID) (*entities.DriverPoints, error) {
	driver, err := s.store.Drivers().GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	finePoints, err := s.store.Fines().SumPointsByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return &entities.DriverPoints{
		DriverID:      driverID,
		InitialPoints: driver.InitialPoints,
		FinePoints:    finePoints,
		Total:         driver.InitialPoints + finePoints,
	}, nil
}

// FleetAvailability возвращает сводку по статусам автопарка
func (s *fleetService) FleetAvailability(ctx context.Context) (*entities.FleetAvailability, error) {
	return s.store.Vehicles().Availability(ctx)
}

// GetTrip возвращает поездку по идентификатору
func (s *fleetService) GetTrip(ctx context.Context, tripID uuid.UUID) (*entities.Trip, error) {
	return s.store.Trips().GetByID(ctx, tripID)
}

// ListTrips возвращает поездки в заданной фазе
func (s *fleetService) ListTrips(ctx context.Context, status entities.TripStatus) ([]*entities.Trip, error) {
	return s.store.Trips().ListByStatus(ctx, status)
}

// ListMaintenance возвращает все записи о техническом обслуживании
func (s *fleetService) ListMaintenance(ctx context.Context) ([]*entities.MaintenanceRecord, error) {
	return s.store.Maintenance().List(ctx)
}

// ListFines возвращает все штрафы автопарка
func (s *fleetService) ListFines(ctx context.Context) ([]*entities.Fine, error) {
	return s.store.Fines().List(ctx)
}

// ListFinesByDriver возвращает штрафы конкретного водителя
func (s *fleetService) ListFinesByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Fine, error) {
	return s.store.Fines().ListByDriver(ctx, driverID)
}

// publishEvent публикует событие после фиксации транзакции. Ошибка
// публикации не откатывает уже зафиксированную операцию.
func (s *fleetService) publishEvent(ctx context.Context, eventType string, entityID uuid.UUID, data interface{}) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.PublishFleetEvent(ctx, eventType, entityID, data); err != nil {
		s.logger.Error("Failed to publish fleet event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("entity_id", entityID.String()),
		)
	}
}
