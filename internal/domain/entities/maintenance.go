package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ServiceCategories перечень обязательных категорий обслуживания,
// сериализуется в jsonb
type ServiceCategories []string

// Value реализует интерфейс driver.Valuer для сериализации в БД
func (c ServiceCategories) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan реализует интерфейс sql.Scanner для десериализации из БД
func (c *ServiceCategories) Scan(value interface{}) error {
	if value == nil {
		*c = ServiceCategories{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ServiceCategories", value)
	}

	return json.Unmarshal(bytes, c)
}

// MaintenanceRecord представляет запись о техническом обслуживании.
// Запись без ReturnDate считается открытой: транспортное средство
// находится в ремонте. У транспортного средства не может быть более
// одной открытой записи одновременно.
type MaintenanceRecord struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	VehicleID   uuid.UUID         `json:"vehicle_id" db:"vehicle_id"`
	Date        time.Time         `json:"date" db:"date"`
	ReturnDate  *time.Time        `json:"return_date,omitempty" db:"return_date"`
	ServiceType string            `json:"service_type" db:"service_type"`
	Cost        float64           `json:"cost" db:"cost"`
	Km          int               `json:"km" db:"km"`
	Categories  ServiceCategories `json:"categories" db:"categories"`
	ReturnNotes string            `json:"return_notes,omitempty" db:"return_notes"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// NewMaintenanceRecord создает открытую запись о техническом обслуживании
func NewMaintenanceRecord(vehicleID uuid.UUID, date time.Time, serviceType string, cost float64, km int, categories []string) *MaintenanceRecord {
	now := time.Now()
	return &MaintenanceRecord{
		ID:          uuid.New(),
		VehicleID:   vehicleID,
		Date:        date,
		ServiceType: serviceType,
		Cost:        cost,
		Km:          km,
		Categories:  categories,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOpen проверяет, открыта ли запись
func (m *MaintenanceRecord) IsOpen() bool {
	return m.ReturnDate == nil
}

// CoversAllCategories проверяет, что в закрывающем чек-листе отмечены
// все заявленные категории обслуживания. Частичное подтверждение
// не допускается.
func (m *MaintenanceRecord) CoversAllCategories(checked []string) bool {
	set := make(map[string]struct{}, len(checked))
	for _, c := range checked {
		set[c] = struct{}{}
	}

	for _, required := range m.Categories {
		if _, ok := set[required]; !ok {
			return false
		}
	}

	return true
}

// Resolve закрывает запись о техническом обслуживании
func (m *MaintenanceRecord) Resolve(exitKm int, exitDate time.Time, cost *float64, notes string, checked []string) error {
	if !m.IsOpen() {
		return ErrMaintenanceNotOpen
	}

	if exitKm < m.Km {
		return ErrInvalidOdometerReading
	}

	if !m.CoversAllCategories(checked) {
		return ErrIncompleteChecklist
	}

	m.ReturnDate = &exitDate
	if cost != nil {
		m.Cost = *cost
	}
	m.ReturnNotes = notes
	m.UpdatedAt = time.Now()
	return nil
}

// Validate проверяет валидность записи о техническом обслуживании
func (m *MaintenanceRecord) Validate() error {
	if m.VehicleID == uuid.Nil {
		return ErrInvalidMaintenanceData
	}

	if m.ServiceType == "" {
		return ErrInvalidMaintenanceData
	}

	if m.Km < 0 {
		return ErrInvalidOdometerReading
	}

	return nil
}
