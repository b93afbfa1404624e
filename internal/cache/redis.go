package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/standings/internal/standings"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no standings are cached for a league
var ErrCacheMiss = errors.New("cache miss")

const standingsKeyPrefix = "standings:"

// RedisCache holds the latest rendered standings per league
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// SetStandings stores the rendered messages for a league with TTL
func (rc *RedisCache) SetStandings(ctx context.Context, leagueKey string, messages []standings.Message, ttl time.Duration) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encoding standings: %w", err)
	}
	return rc.client.Set(ctx, standingsKey(leagueKey), data, ttl).Err()
}

// GetStandings returns the cached messages for a league
func (rc *RedisCache) GetStandings(ctx context.Context, leagueKey string) ([]standings.Message, error) {
	data, err := rc.client.Get(ctx, standingsKey(leagueKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var messages []standings.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decoding cached standings: %w", err)
	}
	return messages, nil
}

// DeleteStandings removes cached standings for the given leagues
func (rc *RedisCache) DeleteStandings(ctx context.Context, leagueKeys ...string) error {
	keys := make([]string, 0, len(leagueKeys))
	for _, leagueKey := range leagueKeys {
		keys = append(keys, standingsKey(leagueKey))
	}
	return rc.client.Del(ctx, keys...).Err()
}

func standingsKey(leagueKey string) string {
	return standingsKeyPrefix + leagueKey
}
