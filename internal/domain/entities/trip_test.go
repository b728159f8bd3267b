package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduledTrip() *Trip {
	return NewScheduledTrip(
		uuid.New(), uuid.New(),
		"Garage", "Campinas",
		"campinas", "SP",
		[]string{"Jundiai"},
		time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		"weekly delivery",
	)
}

func TestNewScheduledTrip(t *testing.T) {
	trip := newTestScheduledTrip()

	assert.NotEqual(t, uuid.Nil, trip.ID)
	assert.Equal(t, TripScheduled, trip.Status)
	assert.NotNil(t, trip.ScheduledDate)
	assert.False(t, trip.IsTerminal())
	assert.NoError(t, trip.Validate())
}

func TestTrip_Start(t *testing.T) {
	trip := newTestScheduledTrip()
	startTime := time.Now()

	err := trip.Start(15000, startTime)

	require.NoError(t, err)
	assert.Equal(t, TripActive, trip.Status)
	require.NotNil(t, trip.StartKm)
	assert.Equal(t, 15000, *trip.StartKm)
	require.NotNil(t, trip.StartTime)
	assert.Equal(t, startTime, *trip.StartTime)
}

func TestTrip_Start_InvalidPhase(t *testing.T) {
	tests := []struct {
		name   string
		status TripStatus
	}{
		{"Already active", TripActive},
		{"Completed", TripCompleted},
		{"Cancelled", TripCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := newTestScheduledTrip()
			trip.Status = tt.status

			err := trip.Start(15000, time.Now())

			assert.ErrorIs(t, err, ErrInvalidTripPhase)
		})
	}
}

func TestTrip_Complete(t *testing.T) {
	trip := newTestScheduledTrip()
	require.NoError(t, trip.Start(15000, time.Now()))

	err := trip.Complete(15180, time.Now(), 250.0, 40.0, "toll")

	require.NoError(t, err)
	assert.Equal(t, TripCompleted, trip.Status)
	require.NotNil(t, trip.Distance)
	assert.Equal(t, 180, *trip.Distance)
	assert.Equal(t, 250.0, trip.FuelExpense)
	assert.Equal(t, 40.0, trip.OtherExpense)
	assert.True(t, trip.IsTerminal())
}

func TestTrip_Complete_OdometerNotAdvanced(t *testing.T) {
	tests := []struct {
		name  string
		endKm int
	}{
		{"End equals start", 15000},
		{"End below start", 14900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := newTestScheduledTrip()
			require.NoError(t, trip.Start(15000, time.Now()))

			err := trip.Complete(tt.endKm, time.Now(), 0, 0, "")

			assert.ErrorIs(t, err, ErrInvalidOdometerReading)
			assert.Equal(t, TripActive, trip.Status)
			assert.Nil(t, trip.Distance)
		})
	}
}

func TestTrip_Complete_NotActive(t *testing.T) {
	trip := newTestScheduledTrip()

	err := trip.Complete(15100, time.Now(), 0, 0, "")

	assert.ErrorIs(t, err, ErrTripNotActive)
}

func TestTrip_Cancel(t *testing.T) {
	trip := newTestScheduledTrip()
	require.NoError(t, trip.Start(15000, time.Now()))

	err := trip.Cancel("vehicle broke down", "admin", time.Now())

	require.NoError(t, err)
	assert.Equal(t, TripCancelled, trip.Status)
	assert.True(t, trip.IsCancelled)
	assert.Equal(t, "vehicle broke down", trip.CancellationReason)
	assert.Equal(t, "admin", trip.CancelledBy)
	// Отмена не заполняет поля завершения
	assert.Nil(t, trip.EndKm)
	assert.Nil(t, trip.Distance)
}

func TestTrip_Cancel_RequiresReason(t *testing.T) {
	trip := newTestScheduledTrip()
	require.NoError(t, trip.Start(15000, time.Now()))

	err := trip.Cancel("", "admin", time.Now())

	assert.ErrorIs(t, err, ErrMissingCancellationReason)
	assert.Equal(t, TripActive, trip.Status)
	assert.False(t, trip.IsCancelled)
}

func TestTrip_Cancel_TerminalIsImmutable(t *testing.T) {
	trip := newTestScheduledTrip()
	require.NoError(t, trip.Start(15000, time.Now()))
	require.NoError(t, trip.Complete(15100, time.Now(), 0, 0, ""))

	err := trip.Cancel("too late", "admin", time.Now())

	assert.ErrorIs(t, err, ErrTripNotActive)
	assert.Equal(t, TripCompleted, trip.Status)
}

func TestTrip_AppendLog(t *testing.T) {
	trip := newTestScheduledTrip()
	require.NoError(t, trip.Start(15000, time.Now()))

	require.NoError(t, trip.AppendLog(TripLogDeparture, "left the garage"))
	require.NoError(t, trip.AppendLog(TripLogInTransit, "stopped for fuel"))

	require.Len(t, trip.Log, 2)
	assert.Equal(t, TripLogDeparture, trip.Log[0].Kind)
	assert.Equal(t, "stopped for fuel", trip.Log[1].Text)
}

func TestTrip_AppendLog_NotActive(t *testing.T) {
	trip := newTestScheduledTrip()

	err := trip.AppendLog(TripLogDeparture, "left the garage")

	assert.ErrorIs(t, err, ErrTripNotActive)
	assert.Empty(t, trip.Log)
}

func TestTrip_AppendLog_EmptyText(t *testing.T) {
	trip := newTestScheduledTrip()
	require.NoError(t, trip.Start(15000, time.Now()))

	err := trip.AppendLog(TripLogArrival, "")

	assert.ErrorIs(t, err, ErrInvalidTripData)
}

func TestTrip_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Trip)
		expectedErr error
	}{
		{"Valid trip", func(tr *Trip) {}, nil},
		{"Missing driver", func(tr *Trip) { tr.DriverID = uuid.Nil }, ErrInvalidTripData},
		{"Missing vehicle", func(tr *Trip) { tr.VehicleID = uuid.Nil }, ErrInvalidTripData},
		{"Missing destination", func(tr *Trip) { tr.Destination = "" }, ErrInvalidTripData},
		{"Scheduled without date", func(tr *Trip) { tr.ScheduledDate = nil }, ErrInvalidTripData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := newTestScheduledTrip()
			tt.mutate(trip)

			assert.Equal(t, tt.expectedErr, trip.Validate())
		})
	}
}
