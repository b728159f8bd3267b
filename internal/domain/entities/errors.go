package entities

import (
	"errors"
	"fmt"
)

// Domain errors for fleet entities
var (
	// Vehicle errors
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrVehicleExists          = errors.New("vehicle already exists")
	ErrVehicleUnavailable     = errors.New("vehicle is not available")
	ErrVehicleNotInUse        = errors.New("vehicle is not in use")
	ErrInvalidPlate           = errors.New("invalid license plate")
	ErrInvalidVehicleData     = errors.New("invalid vehicle data")
	ErrInvalidOdometerReading = errors.New("invalid odometer reading")

	// Driver errors
	ErrDriverNotFound   = errors.New("driver not found")
	ErrDriverExists     = errors.New("driver already exists")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidLicense   = errors.New("invalid license number")
	ErrDriverHasTrip    = errors.New("driver already has an active trip")
	ErrInvalidPassword  = errors.New("invalid credentials")

	// Trip errors
	ErrTripNotFound              = errors.New("trip not found")
	ErrTripNotActive             = errors.New("trip is not active")
	ErrInvalidTripPhase          = errors.New("invalid trip phase")
	ErrInvalidTripData           = errors.New("invalid trip data")
	ErrMissingCancellationReason = errors.New("cancellation reason is required")

	// Maintenance errors
	ErrMaintenanceNotFound    = errors.New("maintenance record not found")
	ErrMaintenanceNotOpen     = errors.New("maintenance record is not open")
	ErrMaintenanceOpen        = errors.New("vehicle already has an open maintenance record")
	ErrIncompleteChecklist    = errors.New("maintenance checklist is incomplete")
	ErrInvalidMaintenanceData = errors.New("invalid maintenance data")

	// Fine and log errors
	ErrFineNotFound          = errors.New("fine not found")
	ErrInvalidFineData       = errors.New("invalid fine data")
	ErrInvalidTireChangeData = errors.New("invalid tire change data")
	ErrNotificationNotFound  = errors.New("notification not found")
)

// RestrictionKind тип ограничения, блокирующего назначение
type RestrictionKind string

const (
	RestrictionMaintenance RestrictionKind = "MAINTENANCE_LOCKOUT"
	RestrictionConflict    RestrictionKind = "CONFLICT_VEHICLE"
	RestrictionCirculation RestrictionKind = "CIRCULATION"
)

// RestrictionError ошибка планирования: назначение заблокировано
// правилом. Несет машинно-читаемый тип и сообщение для отображения
// без дополнительного контекста.
type RestrictionError struct {
	Kind    RestrictionKind
	Message string
}

// Error реализует интерфейс error
func (e *RestrictionError) Error() string {
	return fmt.Sprintf("restriction %s: %s", e.Kind, e.Message)
}

// IsRestriction проверяет, является ли ошибка нарушением ограничения
func IsRestriction(err error) (*RestrictionError, bool) {
	var re *RestrictionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// StoreError ошибка взаимодействия с хранилищем. Отличается от ошибок
// валидации: это состояние системы, а не ошибка пользователя. Повтор
// операции на усмотрение вызывающего, ядро повторов не выполняет.
type StoreError struct {
	Op  string
	Err error
}

// Error реализует интерфейс error
func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

// Unwrap возвращает исходную ошибку
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError оборачивает ошибку хранилища
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsTransient проверяет, является ли ошибка временной ошибкой хранилища
func IsTransient(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
