package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flightdelays/internal/models"
)

// Key identifies one comparison. Results are only reused within the same UTC day.
type Key struct {
	Airline      string
	FlightNumber string
	Position     int
	Day          time.Time
}

func NewKey(req models.ComparisonRequest, now time.Time) Key {
	return Key{
		Airline:      req.Airline,
		FlightNumber: req.FlightNumber,
		Position:     req.Position,
		Day:          now,
	}
}

type Cache interface {
	Get(ctx context.Context, key Key) (*models.ComparisonResult, bool)
	Set(ctx context.Context, key Key, result *models.ComparisonResult) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      10 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key Key) (*models.ComparisonResult, bool) {
	data, err := c.client.Get(ctx, generateKey(key)).Bytes()
	if err != nil {
		return nil, false
	}

	var result models.ComparisonResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}

	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key Key, result *models.ComparisonResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, generateKey(key), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key Key) (*models.ComparisonResult, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, key Key, result *models.ComparisonResult) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(key Key) string {
	keyData := struct {
		Airline      string
		FlightNumber string
		Position     int
		Day          string
	}{
		Airline:      strings.ToUpper(strings.TrimSpace(key.Airline)),
		FlightNumber: strings.TrimSpace(key.FlightNumber),
		Position:     key.Position,
		Day:          key.Day.UTC().Format("2006-01-02"),
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "comparison:" + hex.EncodeToString(hash[:])
}
