package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/parkir/internal/pkg/config"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss возвращается, когда ключа нет в кэше
var ErrCacheMiss = errors.New("cache miss")

// Client обертка над redis.Client с JSON кэшем и счетчиками лимитов
type Client struct {
	client *redis.Client
}

// New создает Redis клиент без проверки подключения.
// Команды будут возвращать ошибку, пока Redis недоступен
func New(cfg *config.RedisConfig) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &Client{client: rdb}
}

// NewClient создает новый Redis клиент и проверяет подключение
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	c := New(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return c, nil
}

// Ping проверяет подключение к Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetJSON читает значение и декодирует его в dst. Нет ключа - ErrCacheMiss
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON кодирует value в JSON и сохраняет с TTL
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Del удаляет ключи
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// Allow реализует счетчик фиксированного окна.
// Возвращает false, когда в текущем окне уже было limit запросов
func (c *Client) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	// Первый запрос в окне задает TTL
	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return false, count, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return count <= int64(limit), count, nil
}

// Close закрывает подключение
func (c *Client) Close() error {
	return c.client.Close()
}
