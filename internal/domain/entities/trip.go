package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TripStatus фаза жизненного цикла поездки
type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// TripLogKind тип записи в журнале поездки
type TripLogKind string

const (
	TripLogDeparture TripLogKind = "departure"
	TripLogInTransit TripLogKind = "in_transit"
	TripLogArrival   TripLogKind = "arrival"
)

// TripLogEntry запись в журнале поездки. Журнал append-only,
// записи после создания не изменяются.
type TripLogEntry struct {
	Kind      TripLogKind `json:"kind"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// TripLog журнал поездки, сериализуется в jsonb
type TripLog []TripLogEntry

// Value реализует интерфейс driver.Valuer для сериализации в БД
func (l TripLog) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan реализует интерфейс sql.Scanner для десериализации из БД
func (l *TripLog) Scan(value interface{}) error {
	if value == nil {
		*l = TripLog{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TripLog", value)
	}

	return json.Unmarshal(bytes, l)
}

// Waypoints промежуточные точки маршрута, сериализуются в jsonb
type Waypoints []string

// Value реализует интерфейс driver.Valuer для сериализации в БД
func (w Waypoints) Value() (driver.Value, error) {
	if w == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w)
}

// Scan реализует интерфейс sql.Scanner для десериализации из БД
func (w *Waypoints) Scan(value interface{}) error {
	if value == nil {
		*w = Waypoints{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Waypoints", value)
	}

	return json.Unmarshal(bytes, w)
}

// Trip представляет поездку на любой фазе жизненного цикла.
// Фаза задается явным полем Status: scheduled -> active ->
// {completed, cancelled}. Терминальные фазы неизменяемы.
type Trip struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	DriverID           uuid.UUID  `json:"driver_id" db:"driver_id"`
	VehicleID          uuid.UUID  `json:"vehicle_id" db:"vehicle_id"`
	Status             TripStatus `json:"status" db:"status"`
	Origin             string     `json:"origin" db:"origin"`
	Destination        string     `json:"destination" db:"destination"`
	Waypoints          Waypoints  `json:"waypoints" db:"waypoints"`
	City               string     `json:"city" db:"city"`
	State              string     `json:"state" db:"state"`
	ScheduledDate      *time.Time `json:"scheduled_date,omitempty" db:"scheduled_date"`
	Notes              string     `json:"notes,omitempty" db:"notes"`
	StartTime          *time.Time `json:"start_time,omitempty" db:"start_time"`
	StartKm            *int       `json:"start_km,omitempty" db:"start_km"`
	EndTime            *time.Time `json:"end_time,omitempty" db:"end_time"`
	EndKm              *int       `json:"end_km,omitempty" db:"end_km"`
	Distance           *int       `json:"distance,omitempty" db:"distance"`
	FuelExpense        float64    `json:"fuel_expense" db:"fuel_expense"`
	OtherExpense       float64    `json:"other_expense" db:"other_expense"`
	ExpenseNotes       string     `json:"expense_notes,omitempty" db:"expense_notes"`
	Log                TripLog    `json:"log" db:"log"`
	IsCancelled        bool       `json:"is_cancelled" db:"is_cancelled"`
	CancellationReason string     `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CancelledBy        string     `json:"cancelled_by,omitempty" db:"cancelled_by"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// NewScheduledTrip создает запланированную поездку
func NewScheduledTrip(driverID, vehicleID uuid.UUID, origin, destination, city, state string, waypoints []string, scheduledDate time.Time, notes string) *Trip {
	now := time.Now()
	return &Trip{
		ID:            uuid.New(),
		DriverID:      driverID,
		VehicleID:     vehicleID,
		Status:        TripScheduled,
		Origin:        origin,
		Destination:   destination,
		Waypoints:     waypoints,
		City:          city,
		State:         state,
		ScheduledDate: &scheduledDate,
		Notes:         notes,
		Log:           TripLog{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsTerminal проверяет, находится ли поездка в терминальной фазе
func (t *Trip) IsTerminal() bool {
	return t.Status == TripCompleted || t.Status == TripCancelled
}

// Start переводит поездку в активную фазу. Запланированная поездка
// при этом поглощается: та же запись меняет фазу, дубликат не создается.
func (t *Trip) Start(startKm int, startTime time.Time) error {
	if t.Status != TripScheduled {
		return ErrInvalidTripPhase
	}

	t.Status = TripActive
	t.StartTime = &startTime
	t.StartKm = &startKm
	t.UpdatedAt = time.Now()
	return nil
}

// Complete переводит активную поездку в завершенную фазу.
// Пройденное расстояние всегда строго положительно.
func (t *Trip) Complete(endKm int, endTime time.Time, fuelExpense, otherExpense float64, expenseNotes string) error {
	if t.Status != TripActive {
		return ErrTripNotActive
	}

	if t.StartKm == nil || endKm <= *t.StartKm {
		return ErrInvalidOdometerReading
	}

	distance := endKm - *t.StartKm
	t.Status = TripCompleted
	t.EndTime = &endTime
	t.EndKm = &endKm
	t.Distance = &distance
	t.FuelExpense = fuelExpense
	t.OtherExpense = otherExpense
	t.ExpenseNotes = expenseNotes
	t.UpdatedAt = time.Now()
	return nil
}

// Cancel переводит активную поездку в отмененную фазу. Причина отмены
// обязательна. Поля расстояния и расходов не заполняются: отмененная
// и завершенная поездки взаимоисключающие.
func (t *Trip) Cancel(reason, actor string, endTime time.Time) error {
	if t.Status != TripActive {
		return ErrTripNotActive
	}

	if reason == "" {
		return ErrMissingCancellationReason
	}

	t.Status = TripCancelled
	t.IsCancelled = true
	t.CancellationReason = reason
	t.CancelledBy = actor
	t.EndTime = &endTime
	t.UpdatedAt = time.Now()
	return nil
}

// AppendLog добавляет запись в журнал активной поездки
func (t *Trip) AppendLog(kind TripLogKind, text string) error {
	if t.Status != TripActive {
		return ErrTripNotActive
	}

	if text == "" {
		return ErrInvalidTripData
	}

	t.Log = append(t.Log, TripLogEntry{
		Kind:      kind,
		Text:      text,
		CreatedAt: time.Now(),
	})
	t.UpdatedAt = time.Now()
	return nil
}

// Validate проверяет валидность данных поездки
func (t *Trip) Validate() error {
	if t.DriverID == uuid.Nil || t.VehicleID == uuid.Nil {
		return ErrInvalidTripData
	}

	if t.Destination == "" {
		return ErrInvalidTripData
	}

	if t.Status == TripScheduled && t.ScheduledDate == nil {
		return ErrInvalidTripData
	}

	return nil
}
