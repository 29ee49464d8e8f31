package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure Redis implements the interface.
var _ driven.PlaceCache = (*Redis)(nil)

const redisPrefix = "atlas:places:"

// Redis is a PlaceCache shared across processes. Values are JSON encoded.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis connects to addr and selects db. Returns nil when addr is empty.
func OpenRedis(addr string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, DB: db})
}

// NewRedis wraps a client. A zero ttl keeps entries indefinitely.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Ping verifies the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get treats a missing key and any backend error as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]domain.Place, bool) {
	raw, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("redis get %s: %v", key, err)
		}
		return nil, false
	}
	places, err := decodePlaces(raw)
	if err != nil {
		logger.Warn("redis decode %s: %v", key, err)
		return nil, false
	}
	return places, true
}

// Set stores places under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, places []domain.Place) error {
	raw, err := encodePlaces(places)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisPrefix+key, raw, r.ttl).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func encodePlaces(places []domain.Place) ([]byte, error) {
	if places == nil {
		places = []domain.Place{}
	}
	return json.Marshal(places)
}

func decodePlaces(raw []byte) ([]domain.Place, error) {
	var places []domain.Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, err
	}
	return places, nil
}
