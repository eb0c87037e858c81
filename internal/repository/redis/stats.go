package redis

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client
var redisEnabled bool

// InitRedis initializes the Redis connection. Startup does not fail when
// Redis is unreachable; stats just stop accumulating.
func InitRedis(addr, password string) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx := context.Background()
	err := RedisClient.Ping(ctx).Err()
	if err != nil {
		log.Printf("[REDIS] Warning: Could not connect to Redis: %v. Match stats disabled.", err)
		redisEnabled = false
		return nil
	}

	redisEnabled = true
	log.Println("[REDIS] Connected successfully")
	return nil
}

// IsRedisEnabled returns whether Redis is available
func IsRedisEnabled() bool {
	return redisEnabled
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

const (
	keyTotalMatches = "stats:matches"
	keyDraws        = "stats:draws"
	keyWins         = "stats:wins"
)

// StatsCache accumulates aggregate match counters in Redis.
type StatsCache struct {
	client *redis.Client
}

func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// RecordMatch bumps the aggregate counters for one finished match.
func (s *StatsCache) RecordMatch(winner string, players []string, drawn bool) {
	if !redisEnabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pipe := s.client.Pipeline()
	pipe.Incr(ctx, keyTotalMatches)
	if drawn {
		pipe.Incr(ctx, keyDraws)
	} else if winner != "" {
		pipe.HIncrBy(ctx, keyWins, winner, 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[REDIS] Failed to record match stats: %v", err)
	}
}

// Stats is the API-facing shape of the aggregate counters.
type Stats struct {
	TotalMatches int64            `json:"totalMatches"`
	Draws        int64            `json:"draws"`
	Wins         map[string]int64 `json:"wins"`
}

// Snapshot reads the current counters.
func (s *StatsCache) Snapshot(ctx context.Context) (Stats, error) {
	stats := Stats{Wins: map[string]int64{}}
	if !redisEnabled {
		return stats, nil
	}

	total, err := s.client.Get(ctx, keyTotalMatches).Int64()
	if err != nil && err != redis.Nil {
		return stats, err
	}
	draws, err := s.client.Get(ctx, keyDraws).Int64()
	if err != nil && err != redis.Nil {
		return stats, err
	}
	wins, err := s.client.HGetAll(ctx, keyWins).Result()
	if err != nil {
		return stats, err
	}

	stats.TotalMatches = total
	stats.Draws = draws
	for name, count := range wins {
		n, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			continue
		}
		stats.Wins[name] = n
	}
	return stats, nil
}
