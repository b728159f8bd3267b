package entities

import (
	"time"

	"github.com/google/uuid"
)

// Fine представляет штраф, выписанный водителю. Записи append-only:
// удаление возможно только как явное действие администратора.
type Fine struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DriverID    uuid.UUID `json:"driver_id" db:"driver_id"`
	VehicleID   uuid.UUID `json:"vehicle_id" db:"vehicle_id"`
	Date        time.Time `json:"date" db:"date"`
	Value       float64   `json:"value" db:"value"`
	Points      int       `json:"points" db:"points"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NewFine создает новый штраф
func NewFine(driverID, vehicleID uuid.UUID, date time.Time, value float64, points int, description string) *Fine {
	return &Fine{
		ID:          uuid.New(),
		DriverID:    driverID,
		VehicleID:   vehicleID,
		Date:        date,
		Value:       value,
		Points:      points,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// Validate проверяет валидность данных штрафа
func (f *Fine) Validate() error {
	if f.DriverID == uuid.Nil || f.VehicleID == uuid.Nil {
		return ErrInvalidFineData
	}

	if f.Value < 0 || f.Points < 0 {
		return ErrInvalidFineData
	}

	return nil
}

// TireChange запись о замене шин, append-only
type TireChange struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VehicleID uuid.UUID `json:"vehicle_id" db:"vehicle_id"`
	Date      time.Time `json:"date" db:"date"`
	Km        int       `json:"km" db:"km"`
	Position  string    `json:"position" db:"position"`
	Brand     string    `json:"brand" db:"brand"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewTireChange создает запись о замене шин
func NewTireChange(vehicleID uuid.UUID, date time.Time, km int, position, brand, notes string) *TireChange {
	return &TireChange{
		ID:        uuid.New(),
		VehicleID: vehicleID,
		Date:      date,
		Km:        km,
		Position:  position,
		Brand:     brand,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
}

// Validate проверяет валидность записи о замене шин
func (t *TireChange) Validate() error {
	if t.VehicleID == uuid.Nil {
		return ErrInvalidTireChangeData
	}

	if t.Km < 0 {
		return ErrInvalidOdometerReading
	}

	return nil
}
