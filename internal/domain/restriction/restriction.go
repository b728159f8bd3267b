// Package restriction реализует чистые проверки допустимости
// назначения поездки: правило ротации по номерному знаку, разрешение
// города назначения и обнаружение конфликтов расписания. Функции не
// имеют побочных эффектов и работают над переданным снимком расписания.
package restriction

import (
	"fmt"
	"strings"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
)

// Engine движок проверки ограничений поверх политики юрисдикции
type Engine struct {
	policy *Policy
}

// NewEngine создает движок проверки ограничений
func NewEngine(policy *Policy) *Engine {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Engine{policy: policy}
}

// lastPlateDigit возвращает последний буквенно-цифровой символ
// нормализованного номерного знака и признак того, что это цифра
func lastPlateDigit(plate string) (byte, bool) {
	normalized := entities.NormalizePlate(plate)
	if normalized == "" {
		return 0, false
	}

	last := normalized[len(normalized)-1]
	if last < '0' || last > '9' {
		return 0, false
	}
	return last, true
}

// IsCirculationRestricted проверяет, запрещена ли циркуляция для
// номерного знака в указанную дату. Выходные всегда разрешены; знак,
// оканчивающийся не на цифру, не ограничивается.
func (e *Engine) IsCirculationRestricted(plate string, date time.Time) bool {
	restricted, ok := e.policy.Rotation[date.Weekday()]
	if !ok {
		return false
	}

	digit, isDigit := lastPlateDigit(plate)
	if !isDigit {
		return false
	}

	for _, d := range restricted {
		if d == digit {
			return true
		}
	}
	return false
}

// ResolvesToRestrictedCity определяет, указывает ли назначение на
// ограниченный город. Непустое поле города авторитетно: сопоставление
// точное, текст назначения не анализируется. При пустом городе
// выполняется поиск псевдонимов по подстроке в тексте назначения,
// подавленный квалификаторами "весь штат"/"интерьер" и голой
// аббревиатурой штата.
func (e *Engine) ResolvesToRestrictedCity(city, state, destinationText string) bool {
	if strings.TrimSpace(city) != "" {
		folded := Fold(city)
		for _, alias := range e.policy.CityAliases {
			if folded == alias {
				return true
			}
		}
		return false
	}

	folded := Fold(destinationText)
	if folded == "" {
		return false
	}

	for _, term := range e.policy.SuppressTerms {
		if strings.Contains(folded, term) {
			return false
		}
	}

	for _, alias := range e.policy.CityAliases {
		if strings.Contains(folded, alias) {
			return true
		}
	}

	// Голая аббревиатура штата сама по себе городом не считается
	return false
}

// sameDay проверяет совпадение календарной даты
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FindVehicleDateConflict ищет другую запланированную поездку того же
// транспортного средства на ту же календарную дату. Редактируемая
// запись исключается из поиска: поездка не конфликтует со своей
// предыдущей версией.
func (e *Engine) FindVehicleDateConflict(vehicleID uuid.UUID, date time.Time, schedule []*entities.Trip, excludeTripID uuid.UUID) *entities.Trip {
	for _, trip := range schedule {
		if trip.Status != entities.TripScheduled || trip.ScheduledDate == nil {
			continue
		}

		if trip.ID == excludeTripID {
			continue
		}

		if trip.VehicleID == vehicleID && sameDay(*trip.ScheduledDate, date) {
			return trip
		}
	}
	return nil
}

// CheckAssignment проверяет назначение по всем правилам в порядке
// приоритета: блокировка по ремонту фундаментальнее остальных и
// проверяется первой, затем конфликт расписания, затем ротация.
// Возвращает первое применимое ограничение или nil.
func (e *Engine) CheckAssignment(vehicle *entities.Vehicle, date time.Time, city, state, destinationText string, schedule []*entities.Trip, excludeTripID uuid.UUID) *entities.RestrictionError {
	if vehicle.InMaintenance() {
		return &entities.RestrictionError{
			Kind:    entities.RestrictionMaintenance,
			Message: fmt.Sprintf("vehicle %s is in maintenance and cannot be scheduled", vehicle.Plate),
		}
	}

	if conflict := e.FindVehicleDateConflict(vehicle.ID, date, schedule, excludeTripID); conflict != nil {
		return &entities.RestrictionError{
			Kind:    entities.RestrictionConflict,
			Message: fmt.Sprintf("vehicle %s is already scheduled on %s", vehicle.Plate, date.Format("2006-01-02")),
		}
	}

	if e.ResolvesToRestrictedCity(city, state, destinationText) && e.IsCirculationRestricted(vehicle.Plate, date) {
		return &entities.RestrictionError{
			Kind:    entities.RestrictionCirculation,
			Message: fmt.Sprintf("plate %s is restricted in %s on %s", vehicle.Plate, e.policy.City, date.Weekday()),
		}
	}

	return nil
}
