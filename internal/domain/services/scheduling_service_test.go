package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/domain/restriction"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type schedulingFixture struct {
	store   *memStore
	service SchedulingService
}

func newSchedulingFixture() *schedulingFixture {
	store := newMemStore()
	engine := restriction.NewEngine(restriction.DefaultPolicy())
	return &schedulingFixture{
		store:   store,
		service: NewSchedulingService(store, engine, NewVehicleLocker(), zap.NewNop()),
	}
}

func (f *schedulingFixture) seedVehicle(t *testing.T, plate string) *entities.Vehicle {
	t.Helper()
	vehicle := entities.NewVehicle(plate, "Fiat", "Strada", 2021, 10000, "flex")
	require.NoError(t, f.store.Vehicles().Create(context.Background(), vehicle))
	return vehicle
}

func (f *schedulingFixture) seedDriver(t *testing.T, username string) *entities.Driver {
	t.Helper()
	driver := entities.NewDriver("Test Driver", username, "hash", "12345678900", "B")
	require.NoError(t, f.store.Drivers().Create(context.Background(), driver))
	return driver
}

// tuesday возвращает ближайший вторник не раньше завтрашнего дня
func tuesday() time.Time {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != time.Tuesday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.Local)
}

func TestSchedulingService_CreateSchedule(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	driver := f.seedDriver(t, "joao")

	trip, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      driver.ID,
		VehicleID:     vehicle.ID,
		Origin:        "Garage",
		Destination:   "Campinas",
		City:          "campinas",
		State:         "SP",
		ScheduledDate: tuesday(),
	}, uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, entities.TripScheduled, trip.Status)

	schedules, err := f.service.ListSchedules(context.Background())
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
}

func TestSchedulingService_CreateSchedule_CirculationBlocked(t *testing.T) {
	f := newSchedulingFixture()
	// Финальная цифра 1: ротация блокирует понедельник
	vehicle := f.seedVehicle(t, "ABC1231")
	driver := f.seedDriver(t, "joao")

	monday := tuesday().AddDate(0, 0, -1)

	_, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      driver.ID,
		VehicleID:     vehicle.ID,
		Destination:   "São Paulo",
		City:          "são paulo",
		State:         "SP",
		ScheduledDate: monday,
	}, uuid.Nil)

	require.Error(t, err)
	re, ok := entities.IsRestriction(err)
	require.True(t, ok)
	assert.Equal(t, entities.RestrictionCirculation, re.Kind)

	// Запись не сохраняется
	schedules, err := f.service.ListSchedules(context.Background())
	require.NoError(t, err)
	assert.Empty(t, schedules)
}

func TestSchedulingService_CreateSchedule_VehicleDateConflict(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	first := f.seedDriver(t, "joao")
	second := f.seedDriver(t, "maria")

	date := tuesday()

	_, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      first.ID,
		VehicleID:     vehicle.ID,
		Destination:   "Campinas",
		ScheduledDate: date,
	}, uuid.Nil)
	require.NoError(t, err)

	// Та же машина, та же дата, другое время дня
	_, err = f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      second.ID,
		VehicleID:     vehicle.ID,
		Destination:   "Sorocaba",
		ScheduledDate: date.Add(5 * time.Hour),
	}, uuid.Nil)

	require.Error(t, err)
	re, ok := entities.IsRestriction(err)
	require.True(t, ok)
	assert.Equal(t, entities.RestrictionConflict, re.Kind)
}

func TestSchedulingService_CreateSchedule_MaintenanceLockout(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	driver := f.seedDriver(t, "joao")

	vehicle.ChangeStatus(entities.VehicleMaintenance)
	require.NoError(t, f.store.Vehicles().Update(context.Background(), vehicle))

	_, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      driver.ID,
		VehicleID:     vehicle.ID,
		Destination:   "Campinas",
		ScheduledDate: tuesday(),
	}, uuid.Nil)

	require.Error(t, err)
	re, ok := entities.IsRestriction(err)
	require.True(t, ok)
	assert.Equal(t, entities.RestrictionMaintenance, re.Kind)
}

func TestSchedulingService_UpdateSchedule_ExcludesSelf(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	driver := f.seedDriver(t, "joao")

	date := tuesday()

	trip, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      driver.ID,
		VehicleID:     vehicle.ID,
		Destination:   "Campinas",
		ScheduledDate: date,
	}, uuid.Nil)
	require.NoError(t, err)

	// Перенос времени на ту же дату не конфликтует с собственной записью
	updated, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      driver.ID,
		VehicleID:     vehicle.ID,
		Destination:   "Sorocaba",
		ScheduledDate: date.Add(3 * time.Hour),
	}, trip.ID)

	require.NoError(t, err)
	assert.Equal(t, trip.ID, updated.ID)
	assert.Equal(t, "Sorocaba", updated.Destination)

	schedules, err := f.service.ListSchedules(context.Background())
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
}

func TestSchedulingService_UpdateSchedule_NotScheduled(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	driver := f.seedDriver(t, "joao")

	trip := entities.NewScheduledTrip(driver.ID, vehicle.ID, "", "Campinas", "", "", nil, tuesday(), "")
	require.NoError(t, trip.Start(10000, time.Now()))
	require.NoError(t, f.store.Trips().Create(context.Background(), trip))

	_, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      driver.ID,
		VehicleID:     vehicle.ID,
		Destination:   "Sorocaba",
		ScheduledDate: tuesday(),
	}, trip.ID)

	assert.ErrorIs(t, err, entities.ErrInvalidTripPhase)
}

func TestSchedulingService_DeleteSchedule(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	driver := f.seedDriver(t, "joao")

	trip, err := f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
		DriverID:      driver.ID,
		VehicleID:     vehicle.ID,
		Destination:   "Campinas",
		ScheduledDate: tuesday(),
	}, uuid.Nil)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteSchedule(context.Background(), trip.ID, "admin"))

	schedules, err := f.service.ListSchedules(context.Background())
	require.NoError(t, err)
	assert.Empty(t, schedules)

	entries, err := f.store.AuditLogs().ListByEntity(context.Background(), trip.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.AuditScheduleDeleted, entries[0].Kind)
}

func TestSchedulingService_DeleteSchedule_WrongPhase(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	driver := f.seedDriver(t, "joao")

	trip := entities.NewScheduledTrip(driver.ID, vehicle.ID, "", "Campinas", "", "", nil, tuesday(), "")
	require.NoError(t, trip.Start(10000, time.Now()))
	require.NoError(t, f.store.Trips().Create(context.Background(), trip))

	err := f.service.DeleteSchedule(context.Background(), trip.ID, "admin")

	assert.ErrorIs(t, err, entities.ErrInvalidTripPhase)
}

func TestSchedulingService_ConcurrentBooking_SameVehicleDate(t *testing.T) {
	f := newSchedulingFixture()
	vehicle := f.seedVehicle(t, "ABC1234")
	first := f.seedDriver(t, "joao")
	second := f.seedDriver(t, "maria")

	date := tuesday()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, driverID := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, driverID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.service.CreateOrUpdateSchedule(context.Background(), ScheduleInput{
				DriverID:      driverID,
				VehicleID:     vehicle.ID,
				Destination:   "Campinas",
				ScheduledDate: date,
			}, uuid.Nil)
		}(i, driverID)
	}
	wg.Wait()

	// Проверка и запись идут под блокировкой машины: проходит ровно одна
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			re, ok := entities.IsRestriction(err)
			require.True(t, ok)
			assert.Equal(t, entities.RestrictionConflict, re.Kind)
		}
	}
	assert.Equal(t, 1, succeeded)

	schedules, err := f.service.ListSchedules(context.Background())
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
}
