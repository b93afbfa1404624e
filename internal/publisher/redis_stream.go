package publisher

import (
	"context"
	"time"

	"github.com/fortuna/standings/internal/standings"
	"github.com/redis/go-redis/v9"
)

// StreamPrefix prefixes the per-league Redis stream name
const StreamPrefix = "standings."

// RedisStreamPublisher publishes rendered standings to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		maxLen: 1000,
	}
}

// Close closes the Redis connection
func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}

// StreamName returns the stream a league's standings are published to
func StreamName(leagueKey string) string {
	return StreamPrefix + leagueKey
}

// PublishStandings appends one standings message to the league's stream
func (p *RedisStreamPublisher) PublishStandings(ctx context.Context, leagueKey string, msg standings.Message) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName(leagueKey),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"league_key": leagueKey,
			"kind":       string(msg.Kind),
			"text":       msg.Text,
			"timestamp":  time.Now().Unix(),
		},
	}).Err()
}
