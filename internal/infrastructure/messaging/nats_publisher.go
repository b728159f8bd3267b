package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleet-service/internal/config"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// fleetEvent конверт события автопарка
type fleetEvent struct {
	EventType string      `json:"event_type"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NATSPublisher публикует события автопарка в NATS
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher создает подключение к NATS
func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientID),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ReconnectWait(cfg.ReconnectDelay),
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Connected to NATS", zap.String("url", cfg.URL))

	return &NATSPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

// PublishFleetEvent публикует событие автопарка. Тип события становится
// суффиксом темы: fleet.trip.started, fleet.maintenance.opened и т.д.
func (p *NATSPublisher) PublishFleetEvent(ctx context.Context, eventType string, entityID uuid.UUID, data interface{}) error {
	event := fleetEvent{
		EventType: eventType,
		EntityID:  entityID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal fleet event: %w", err)
	}

	subject := "fleet." + eventType
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish fleet event: %w", err)
	}

	p.logger.Debug("Fleet event published",
		zap.String("subject", subject),
		zap.String("entity_id", entityID.String()),
	)

	return nil
}

// Close закрывает подключение к NATS
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("Failed to drain NATS connection", zap.Error(err))
	}
	p.conn.Close()
}
