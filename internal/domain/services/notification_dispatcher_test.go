package services

import (
	"context"
	"testing"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationDispatcher_Broadcast(t *testing.T) {
	dispatcher := NewNotificationDispatcher(zap.NewNop())
	driverID := uuid.New()

	ch := dispatcher.Subscribe(driverID)
	defer dispatcher.Unsubscribe(driverID)

	notification := entities.NewNotification(driverID, entities.NotificationFineIssued, "fine registered")
	dispatcher.Broadcast(notification)

	select {
	case got := <-ch:
		assert.Equal(t, notification.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestNotificationDispatcher_Broadcast_NoSubscriber(t *testing.T) {
	dispatcher := NewNotificationDispatcher(zap.NewNop())

	// Уведомление для неподписанного водителя молча отбрасывается
	dispatcher.Broadcast(entities.NewNotification(uuid.New(), entities.NotificationFineIssued, "fine registered"))
	dispatcher.Broadcast(nil)
}

func TestNotificationDispatcher_Broadcast_SlowSubscriberDropped(t *testing.T) {
	dispatcher := NewNotificationDispatcher(zap.NewNop())
	driverID := uuid.New()

	ch := dispatcher.Subscribe(driverID)
	defer dispatcher.Unsubscribe(driverID)

	// Буфер подписчика переполняется, лишние уведомления отбрасываются
	for i := 0; i < cap(ch)+5; i++ {
		dispatcher.Broadcast(entities.NewNotification(driverID, entities.NotificationFineIssued, "fine registered"))
	}

	assert.Equal(t, cap(ch), len(ch))
}

func TestNotificationDispatcher_Unsubscribe_ClosesChannel(t *testing.T) {
	dispatcher := NewNotificationDispatcher(zap.NewNop())
	driverID := uuid.New()

	ch := dispatcher.Subscribe(driverID)
	dispatcher.Unsubscribe(driverID)

	_, open := <-ch
	assert.False(t, open)

	// Повторная отписка безопасна
	dispatcher.Unsubscribe(driverID)
}

func TestNotificationDispatcher_NotifyFineIssued_Persists(t *testing.T) {
	store := newMemStore()
	dispatcher := NewNotificationDispatcher(zap.NewNop())

	driver := entities.NewDriver("Joao Silva", "joao", "hash", "12345678900", "B")
	require.NoError(t, store.Drivers().Create(context.Background(), driver))

	fine := entities.NewFine(driver.ID, uuid.New(), time.Now(), 150.0, 4, "speeding")
	notification, err := dispatcher.NotifyFineIssued(context.Background(), store, fine)

	require.NoError(t, err)
	require.NotNil(t, notification)
	assert.Equal(t, driver.ID, notification.DriverID)
	assert.False(t, notification.IsRead)

	stored, err := store.Notifications().ListByDriver(context.Background(), driver.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entities.NotificationFineIssued, stored[0].Kind)
}
