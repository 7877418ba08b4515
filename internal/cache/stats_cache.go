package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"ticketify/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type StatsCache interface {
	Get(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, bool, error)
	// Generation changes on every Invalidate. Read it before loading the stats to Set.
	Generation(ctx context.Context, organizerID uuid.UUID) (int64, error)
	// Set stores stats unless an Invalidate happened after generation was read.
	Set(ctx context.Context, organizerID uuid.UUID, generation int64, stats *model.OrganizerStats) error
	Invalidate(ctx context.Context, organizerID uuid.UUID) error
}

type RedisStatsCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	return &RedisStatsCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

func StatsKey(organizerID uuid.UUID) string {
	return fmt.Sprintf("stats:organizer:%s", organizerID)
}

func StatsGenerationKey(organizerID uuid.UUID) string {
	return fmt.Sprintf("stats:organizer:%s:gen", organizerID)
}

// SetStatsScript writes KEYS[1] only while KEYS[2] still holds the generation in ARGV[1].
const SetStatsScript = `
	local gen = redis.call('GET', KEYS[2]) or '0'
	if gen ~= ARGV[1] then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	return 1
`

// InvalidateStatsScript bumps the generation and drops the cached stats together.
const InvalidateStatsScript = `
	redis.call('INCR', KEYS[2])
	return redis.call('DEL', KEYS[1])
`

func (c *RedisStatsCacheImpl) Get(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerStats, bool, error) {
	raw, err := c.client.Get(ctx, StatsKey(organizerID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats model.OrganizerStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, true, nil
}

func (c *RedisStatsCacheImpl) Generation(ctx context.Context, organizerID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, StatsGenerationKey(organizerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *RedisStatsCacheImpl) Set(ctx context.Context, organizerID uuid.UUID, generation int64, stats *model.OrganizerStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	keys := []string{StatsKey(organizerID), StatsGenerationKey(organizerID)}
	return c.client.Eval(ctx, SetStatsScript, keys,
		strconv.FormatInt(generation, 10), string(raw), c.ttl.Milliseconds()).Err()
}

func (c *RedisStatsCacheImpl) Invalidate(ctx context.Context, organizerID uuid.UUID) error {
	keys := []string{StatsKey(organizerID), StatsGenerationKey(organizerID)}
	return c.client.Eval(ctx, InvalidateStatsScript, keys).Err()
}
