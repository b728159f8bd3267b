package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// VehicleStatus статус транспортного средства
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleInUse       VehicleStatus = "in_use"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Checklist чек-лист состояния транспортного средства, заполняется
// водителем при выезде. Хранится как снимок на момент начала поездки.
type Checklist struct {
	Km        int       `json:"km"`
	FuelLevel int       `json:"fuel_level"`
	TiresOK   bool      `json:"tires_ok"`
	OilOK     bool      `json:"oil_ok"`
	WaterOK   bool      `json:"water_ok"`
	LightsOK  bool      `json:"lights_ok"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChecklistSnapshot снимок чек-листа для сериализации в jsonb
type ChecklistSnapshot struct {
	*Checklist
}

// Value реализует интерфейс driver.Valuer для сериализации в БД
func (c ChecklistSnapshot) Value() (driver.Value, error) {
	if c.Checklist == nil {
		return nil, nil
	}
	return json.Marshal(c.Checklist)
}

// Scan реализует интерфейс sql.Scanner для десериализации из БД
func (c *ChecklistSnapshot) Scan(value interface{}) error {
	if value == nil {
		c.Checklist = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ChecklistSnapshot", value)
	}

	c.Checklist = &Checklist{}
	return json.Unmarshal(bytes, c.Checklist)
}

// Vehicle представляет транспортное средство автопарка
type Vehicle struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	Plate         string            `json:"plate" db:"plate"`
	Brand         string            `json:"brand" db:"brand"`
	Model         string            `json:"model" db:"model"`
	Year          int               `json:"year" db:"year"`
	CurrentKm     int               `json:"current_km" db:"current_km"`
	FuelLevel     int               `json:"fuel_level" db:"fuel_level"`
	FuelType      string            `json:"fuel_type" db:"fuel_type"`
	Status        VehicleStatus     `json:"status" db:"status"`
	LastChecklist ChecklistSnapshot `json:"last_checklist,omitempty" db:"last_checklist"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// NormalizePlate приводит номерной знак к каноническому виду:
// верхний регистр, без пробелов и разделителей
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewVehicle создает новое транспортное средство
func NewVehicle(plate, brand, model string, year, currentKm int, fuelType string) *Vehicle {
	now := time.Now()
	return &Vehicle{
		ID:        uuid.New(),
		Plate:     NormalizePlate(plate),
		Brand:     brand,
		Model:     model,
		Year:      year,
		CurrentKm: currentKm,
		FuelType:  fuelType,
		Status:    VehicleAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAvailable проверяет, доступно ли транспортное средство для поездки
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleAvailable
}

// InMaintenance проверяет, находится ли транспортное средство в ремонте
func (v *Vehicle) InMaintenance() bool {
	return v.Status == VehicleMaintenance
}

// ChangeStatus изменяет статус транспортного средства
func (v *Vehicle) ChangeStatus(status VehicleStatus) {
	v.Status = status
	v.UpdatedAt = time.Now()
}

// AdvanceOdometer обновляет показание одометра. Значение не может
// уменьшаться относительно текущего.
func (v *Vehicle) AdvanceOdometer(km int) error {
	if km < v.CurrentKm {
		return ErrInvalidOdometerReading
	}
	v.CurrentKm = km
	v.UpdatedAt = time.Now()
	return nil
}

// Validate проверяет валидность данных транспортного средства
func (v *Vehicle) Validate() error {
	if NormalizePlate(v.Plate) == "" {
		return ErrInvalidPlate
	}

	if v.Brand == "" || v.Model == "" {
		return ErrInvalidVehicleData
	}

	if v.Year <= 0 {
		return ErrInvalidVehicleData
	}

	if v.CurrentKm < 0 {
		return ErrInvalidOdometerReading
	}

	return nil
}

// FleetAvailability сводка по статусам автопарка
type FleetAvailability struct {
	Available   int `json:"available"`
	InUse       int `json:"in_use"`
	Maintenance int `json:"maintenance"`
	Total       int `json:"total"`
}
