package cache

import (
	"context"
	"fmt"
	"time"

	"fleet-service/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client обертка над Redis клиентом
type Client struct {
	*redis.Client
	logger *zap.Logger
}

// NewRedisClient создает подключение к Redis
func NewRedisClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.GetRedisAddr(),
		Password:   cfg.Password,
		DB:         cfg.Database,
		MaxRetries: cfg.MaxRetries,
		PoolSize:   cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.GetRedisAddr()))

	return &Client{
		Client: client,
		logger: logger,
	}, nil
}

// Allow проверяет лимит частоты запросов для ключа: не более limit
// обращений за window. Окно фиксированное, счетчик с TTL.
func (c *Client) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	counterKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := c.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := c.Expire(ctx, counterKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	return count <= int64(limit), nil
}
