package services

import (
	"context"
	"fmt"
	"sync"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationDispatcher выводит уведомления из переходов состояния
// и раздает зафиксированные уведомления живым подписчикам. Запись
// уведомления выполняется в той же транзакции, что и породивший его
// переход; рассылка подписчикам происходит после фиксации.
type NotificationDispatcher struct {
	logger *zap.Logger

	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan *entities.AppNotification
}

// NewNotificationDispatcher создает NotificationDispatcher
func NewNotificationDispatcher(logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		logger:      logger,
		subscribers: make(map[uuid.UUID]chan *entities.AppNotification),
	}
}

// NotifyFineIssued создает уведомление о новом штрафе для водителя
func (d *NotificationDispatcher) NotifyFineIssued(ctx context.Context, store repositories.Store, fine *entities.Fine) (*entities.AppNotification, error) {
	message := fmt.Sprintf("A fine of %.2f (%d points) was registered on %s", fine.Value, fine.Points, fine.Date.Format("2006-01-02"))
	notification := entities.NewNotification(fine.DriverID, entities.NotificationFineIssued, message)

	if err := store.Notifications().Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// NotifyMaintenance создает уведомления об открытии или закрытии
// ремонта для всех администраторов
func (d *NotificationDispatcher) NotifyMaintenance(ctx context.Context, store repositories.Store, vehicle *entities.Vehicle, kind entities.NotificationKind) ([]*entities.AppNotification, error) {
	drivers, err := store.Drivers().List(ctx)
	if err != nil {
		return nil, err
	}

	var message string
	switch kind {
	case entities.NotificationMaintenanceOpened:
		message = fmt.Sprintf("Vehicle %s entered maintenance", vehicle.Plate)
	case entities.NotificationMaintenanceResolved:
		message = fmt.Sprintf("Vehicle %s returned from maintenance", vehicle.Plate)
	default:
		return nil, nil
	}

	var created []*entities.AppNotification
	for _, driver := range drivers {
		if !driver.IsAdmin() {
			continue
		}

		notification := entities.NewNotification(driver.ID, kind, message)
		if err := store.Notifications().Create(ctx, notification); err != nil {
			return nil, err
		}
		created = append(created, notification)
	}

	return created, nil
}

// Subscribe подписывает водителя на живые уведомления
func (d *NotificationDispatcher) Subscribe(driverID uuid.UUID) chan *entities.AppNotification {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := make(chan *entities.AppNotification, 16)
	d.subscribers[driverID] = ch
	return ch
}

// Unsubscribe отписывает водителя от живых уведомлений
func (d *NotificationDispatcher) Unsubscribe(driverID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ch, ok := d.subscribers[driverID]; ok {
		close(ch)
		delete(d.subscribers, driverID)
	}
}

// Broadcast раздает зафиксированные уведомления подписчикам.
// Медленный подписчик пропускает уведомление, доставка не блокируется.
func (d *NotificationDispatcher) Broadcast(notifications ...*entities.AppNotification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, notification := range notifications {
		if notification == nil {
			continue
		}

		ch, ok := d.subscribers[notification.DriverID]
		if !ok {
			continue
		}

		select {
		case ch <- notification:
		default:
			d.logger.Warn("Notification subscriber is slow, dropping",
				zap.String("driver_id", notification.DriverID.String()),
			)
		}
	}
}
