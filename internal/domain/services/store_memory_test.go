package services

import (
	"context"
	"sync"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
)

// memStore потокобезопасная реализация repositories.Store в памяти.
// Хранит копии сущностей, чтобы изменения незафиксированных объектов
// не просачивались в хранилище.
type memStore struct {
	mu sync.Mutex

	vehicles      map[uuid.UUID]entities.Vehicle
	drivers       map[uuid.UUID]entities.Driver
	trips         map[uuid.UUID]entities.Trip
	maintenance   map[uuid.UUID]entities.MaintenanceRecord
	fines         map[uuid.UUID]entities.Fine
	tireChanges   []entities.TireChange
	notifications map[uuid.UUID]entities.AppNotification
	auditLogs     []entities.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		vehicles:      make(map[uuid.UUID]entities.Vehicle),
		drivers:       make(map[uuid.UUID]entities.Driver),
		trips:         make(map[uuid.UUID]entities.Trip),
		maintenance:   make(map[uuid.UUID]entities.MaintenanceRecord),
		fines:         make(map[uuid.UUID]entities.Fine),
		notifications: make(map[uuid.UUID]entities.AppNotification),
	}
}

func (m *memStore) Vehicles() repositories.VehicleRepository        { return &memVehicleRepo{m} }
func (m *memStore) Drivers() repositories.DriverRepository          { return &memDriverRepo{m} }
func (m *memStore) Trips() repositories.TripRepository              { return &memTripRepo{m} }
func (m *memStore) Maintenance() repositories.MaintenanceRepository { return &memMaintenanceRepo{m} }
func (m *memStore) Fines() repositories.FineRepository              { return &memFineRepo{m} }
func (m *memStore) TireChanges() repositories.TireChangeRepository  { return &memTireChangeRepo{m} }
func (m *memStore) Notifications() repositories.NotificationRepository {
	return &memNotificationRepo{m}
}
func (m *memStore) AuditLogs() repositories.AuditLogRepository { return &memAuditLogRepo{m} }

func (m *memStore) InTx(ctx context.Context, fn func(repositories.Store) error) error {
	return fn(m)
}

type memVehicleRepo struct{ s *memStore }

func (r *memVehicleRepo) Create(ctx context.Context, vehicle *entities.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *memVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vehicle, ok := r.s.vehicles[id]
	if !ok {
		return nil, entities.ErrVehicleNotFound
	}
	return &vehicle, nil
}

func (r *memVehicleRepo) GetByPlate(ctx context.Context, plate string) (*entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, vehicle := range r.s.vehicles {
		if vehicle.Plate == plate {
			v := vehicle
			return &v, nil
		}
	}
	return nil, entities.ErrVehicleNotFound
}

func (r *memVehicleRepo) Update(ctx context.Context, vehicle *entities.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[vehicle.ID]; !ok {
		return entities.ErrVehicleNotFound
	}
	r.s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *memVehicleRepo) List(ctx context.Context) ([]*entities.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entities.Vehicle, 0, len(r.s.vehicles))
	for _, vehicle := range r.s.vehicles {
		v := vehicle
		result = append(result, &v)
	}
	return result, nil
}

func (r *memVehicleRepo) Availability(ctx context.Context) (*entities.FleetAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	summary := &entities.FleetAvailability{}
	for _, vehicle := range r.s.vehicles {
		summary.Total++
		switch vehicle.Status {
		case entities.VehicleAvailable:
			summary.Available++
		case entities.VehicleInUse:
			summary.InUse++
		case entities.VehicleMaintenance:
			summary.Maintenance++
		}
	}
	return summary, nil
}

type memDriverRepo struct{ s *memStore }

func (r *memDriverRepo) Create(ctx context.Context, driver *entities.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.drivers[driver.ID] = *driver
	return nil
}

func (r *memDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	driver, ok := r.s.drivers[id]
	if !ok || driver.DeletedAt != nil {
		return nil, entities.ErrDriverNotFound
	}
	return &driver, nil
}

func (r *memDriverRepo) GetByUsername(ctx context.Context, username string) (*entities.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, driver := range r.s.drivers {
		if driver.Username == username && driver.DeletedAt == nil {
			d := driver
			return &d, nil
		}
	}
	return nil, entities.ErrDriverNotFound
}

func (r *memDriverRepo) Update(ctx context.Context, driver *entities.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.drivers[driver.ID]; !ok {
		return entities.ErrDriverNotFound
	}
	r.s.drivers[driver.ID] = *driver
	return nil
}

func (r *memDriverRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	driver, ok := r.s.drivers[id]
	if !ok {
		return entities.ErrDriverNotFound
	}
	now := time.Now()
	driver.DeletedAt = &now
	r.s.drivers[id] = driver
	return nil
}

func (r *memDriverRepo) List(ctx context.Context) ([]*entities.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entities.Driver, 0, len(r.s.drivers))
	for _, driver := range r.s.drivers {
		if driver.DeletedAt != nil {
			continue
		}
		d := driver
		result = append(result, &d)
	}
	return result, nil
}

type memTripRepo struct{ s *memStore }

func (r *memTripRepo) Create(ctx context.Context, trip *entities.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.trips[trip.ID] = *trip
	return nil
}

func (r *memTripRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	trip, ok := r.s.trips[id]
	if !ok {
		return nil, entities.ErrTripNotFound
	}
	return &trip, nil
}

func (r *memTripRepo) Update(ctx context.Context, trip *entities.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[trip.ID]; !ok {
		return entities.ErrTripNotFound
	}
	r.s.trips[trip.ID] = *trip
	return nil
}

func (r *memTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[id]; !ok {
		return entities.ErrTripNotFound
	}
	delete(r.s.trips, id)
	return nil
}

func (r *memTripRepo) ListByStatus(ctx context.Context, status entities.TripStatus) ([]*entities.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.Trip
	for _, trip := range r.s.trips {
		if trip.Status == status {
			t := trip
			result = append(result, &t)
		}
	}
	return result, nil
}

func (r *memTripRepo) GetActiveByDriver(ctx context.Context, driverID uuid.UUID) (*entities.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, trip := range r.s.trips {
		if trip.DriverID == driverID && trip.Status == entities.TripActive {
			t := trip
			return &t, nil
		}
	}
	return nil, entities.ErrTripNotFound
}

func (r *memTripRepo) GetActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, trip := range r.s.trips {
		if trip.VehicleID == vehicleID && trip.Status == entities.TripActive {
			t := trip
			return &t, nil
		}
	}
	return nil, entities.ErrTripNotFound
}

func (r *memTripRepo) ListScheduledByDate(ctx context.Context, date time.Time) ([]*entities.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	y, mo, d := date.Date()
	var result []*entities.Trip
	for _, trip := range r.s.trips {
		if trip.Status != entities.TripScheduled || trip.ScheduledDate == nil {
			continue
		}
		ty, tmo, td := trip.ScheduledDate.Date()
		if ty == y && tmo == mo && td == d {
			t := trip
			result = append(result, &t)
		}
	}
	return result, nil
}

type memMaintenanceRepo struct{ s *memStore }

func (r *memMaintenanceRepo) Create(ctx context.Context, record *entities.MaintenanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.maintenance[record.ID] = *record
	return nil
}

func (r *memMaintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record, ok := r.s.maintenance[id]
	if !ok {
		return nil, entities.ErrMaintenanceNotFound
	}
	return &record, nil
}

func (r *memMaintenanceRepo) Update(ctx context.Context, record *entities.MaintenanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.maintenance[record.ID]; !ok {
		return entities.ErrMaintenanceNotFound
	}
	r.s.maintenance[record.ID] = *record
	return nil
}

func (r *memMaintenanceRepo) GetOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entities.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, record := range r.s.maintenance {
		if record.VehicleID == vehicleID && record.ReturnDate == nil {
			m := record
			return &m, nil
		}
	}
	return nil, entities.ErrMaintenanceNotFound
}

func (r *memMaintenanceRepo) List(ctx context.Context) ([]*entities.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.MaintenanceRecord
	for _, record := range r.s.maintenance {
		m := record
		result = append(result, &m)
	}
	return result, nil
}

func (r *memMaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.MaintenanceRecord
	for _, record := range r.s.maintenance {
		if record.VehicleID == vehicleID {
			m := record
			result = append(result, &m)
		}
	}
	return result, nil
}

type memFineRepo struct{ s *memStore }

func (r *memFineRepo) Create(ctx context.Context, fine *entities.Fine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.fines[fine.ID] = *fine
	return nil
}

func (r *memFineRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Fine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fine, ok := r.s.fines[id]
	if !ok {
		return nil, entities.ErrFineNotFound
	}
	return &fine, nil
}

func (r *memFineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.fines[id]; !ok {
		return entities.ErrFineNotFound
	}
	delete(r.s.fines, id)
	return nil
}

func (r *memFineRepo) List(ctx context.Context) ([]*entities.Fine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.Fine
	for _, fine := range r.s.fines {
		f := fine
		result = append(result, &f)
	}
	return result, nil
}

func (r *memFineRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Fine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.Fine
	for _, fine := range r.s.fines {
		if fine.DriverID == driverID {
			f := fine
			result = append(result, &f)
		}
	}
	return result, nil
}

func (r *memFineRepo) SumPointsByDriver(ctx context.Context, driverID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, fine := range r.s.fines {
		if fine.DriverID == driverID {
			total += fine.Points
		}
	}
	return total, nil
}

type memTireChangeRepo struct{ s *memStore }

func (r *memTireChangeRepo) Create(ctx context.Context, change *entities.TireChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tireChanges = append(r.s.tireChanges, *change)
	return nil
}

func (r *memTireChangeRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.TireChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.TireChange
	for _, change := range r.s.tireChanges {
		if change.VehicleID == vehicleID {
			c := change
			result = append(result, &c)
		}
	}
	return result, nil
}

type memNotificationRepo struct{ s *memStore }

func (r *memNotificationRepo) Create(ctx context.Context, notification *entities.AppNotification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications[notification.ID] = *notification
	return nil
}

func (r *memNotificationRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.AppNotification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.AppNotification
	for _, notification := range r.s.notifications {
		if notification.DriverID == driverID {
			n := notification
			result = append(result, &n)
		}
	}
	return result, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notification, ok := r.s.notifications[id]
	if !ok {
		return entities.ErrNotificationNotFound
	}
	notification.IsRead = true
	r.s.notifications[id] = notification
	return nil
}

type memAuditLogRepo struct{ s *memStore }

func (r *memAuditLogRepo) Create(ctx context.Context, entry *entities.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.auditLogs = append(r.s.auditLogs, *entry)
	return nil
}

func (r *memAuditLogRepo) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*entities.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.AuditLog
	for _, entry := range r.s.auditLogs {
		if entry.EntityID == entityID {
			e := entry
			result = append(result, &e)
		}
	}
	return result, nil
}
