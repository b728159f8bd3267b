package services

import (
	"sync"

	"github.com/google/uuid"
)

// VehicleLocker сериализует операции над одним транспортным средством.
// Последовательность "прочитать снимок, проверить, записать" без
// взаимного исключения позволила бы двум одновременным запросам пройти
// проверку и оба зафиксировать запись.
type VehicleLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewVehicleLocker создает VehicleLocker
func NewVehicleLocker() *VehicleLocker {
	return &VehicleLocker{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock блокирует транспортное средство и возвращает функцию разблокировки
func (l *VehicleLocker) Lock(vehicleID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[vehicleID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[vehicleID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
