package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"

	"github.com/homescout/homescout/internal/telemetry"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisClient is the subset of the Redis client used by the store,
// extracted so tests can substitute a mock.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore implements Store over Redis. Expiry is enforced server-side via
// the key TTL rather than by file modification time.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisStore connects to Redis and returns a Store backed by it.
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	ctx := context.Background()
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "redis_connection",
		"service":   "cache",
		"addr":      config.Addr,
		"db":        config.DB,
	})

	logger.Info("Establishing Redis connection")

	client := redis.NewClient(&redis.Options{
		Addr:       config.Addr,
		Password:   config.Password,
		DB:         config.DB,
		MaxRetries: 3,
	})
	client.AddHook(redisotel.NewTracingHook())

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Error("Failed to connect to Redis")
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connected successfully")
	return &RedisStore{client: client, ttl: config.TTL}, nil
}

// NewRedisStoreWithClient wraps an existing client; used by tests.
func NewRedisStoreWithClient(client RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the cached payload for key, or (nil, false) on a miss. Redis
// errors and invalid payloads degrade to a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "cache_get",
		"key":       key,
		"service":   "cache",
	})

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			logger.Debug("Cache miss - key not found")
		} else {
			logger.WithError(err).Warn("Cache read failed, treating as miss")
		}
		return nil, false
	}

	payload := []byte(val)
	if !json.Valid(payload) {
		logger.Warn("Cache payload is not valid JSON, treating as miss")
		return nil, false
	}

	logger.Debug("Cache hit")
	return payload, true
}

// Set stores the payload under key with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, payload []byte) error {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation":   "cache_set",
		"key":         key,
		"ttl_seconds": s.ttl.Seconds(),
		"service":     "cache",
	})

	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		logger.WithError(err).Error("Failed to set cache value")
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	logger.Debug("Cache entry written")
	return nil
}

// HealthCheck verifies Redis connectivity
func (s *RedisStore) HealthCheck(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
