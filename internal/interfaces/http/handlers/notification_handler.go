package handlers

import (
	"net/http"
	"time"

	"fleet-service/internal/domain/services"
	"fleet-service/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const streamPingInterval = 30 * time.Second

// NotificationHandler обработчик HTTP запросов для уведомлений
type NotificationHandler struct {
	store      repositories.Store
	dispatcher *services.NotificationDispatcher
	logger     *zap.Logger
}

// NewNotificationHandler создает новый NotificationHandler
func NewNotificationHandler(store repositories.Store, dispatcher *services.NotificationDispatcher, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListNotifications получает уведомления вошедшего водителя
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	notifications, err := h.store.Notifications().ListByDriver(c.Request.Context(), driverID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// MarkRead помечает уведомление прочитанным
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid notification ID format",
		})
		return
	}

	if err := h.store.Notifications().MarkRead(c.Request.Context(), notificationID); err != nil {
		handleServiceError(c, h.logger, err, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}

// Stream отдает живые уведомления водителя по веб-сокету
func (h *NotificationHandler) Stream(c *gin.Context) {
	driverID, ok := currentDriverID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return
	}
	defer conn.Close()

	ch := h.dispatcher.Subscribe(driverID)
	defer h.dispatcher.Unsubscribe(driverID)

	h.logger.Info("Notification stream opened",
		zap.String("driver_id", driverID.String()),
	)

	// Читающая горутина нужна только для обнаружения закрытия соединения
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case notification, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteJSON(notification); err != nil {
				h.logger.Warn("Failed to write notification to stream",
					zap.Error(err),
					zap.String("driver_id", driverID.String()),
				)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
