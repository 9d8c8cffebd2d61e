// Package cache implements the month summary cache on Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

const (
	summaryKeyPrefix = "summary:"
	versionKeyPrefix = "summary-version:"
	globalVersionKey = versionKeyPrefix + "all"
	alertKeyPrefix   = "alerted:"

	// DefaultSummaryTTL bounds how stale a summary can get if an invalidation is lost.
	DefaultSummaryTTL = 10 * time.Minute

	alertTTL  = 90 * 24 * time.Hour
	scanBatch = 100
)

// setIfCurrent writes KEYS[1] only while the month counter (KEYS[2]) plus the
// global counter (KEYS[3]) still equal ARGV[1]. Both counters only grow, so
// any invalidation changes the sum.
var setIfCurrent = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0') + tonumber(redis.call('GET', KEYS[3]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// redisSummaryCache implements adapter.SummaryCache.
type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSummaryCache creates a new Redis-backed summary cache.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) adapter.SummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &redisSummaryCache{
		client: client,
		ttl:    ttl,
	}
}

func summaryKey(month valueobject.Month) string {
	return summaryKeyPrefix + month.String()
}

func versionKey(month valueobject.Month) string {
	return versionKeyPrefix + month.String()
}

// Get returns the cached summary, or nil on a miss.
func (c *redisSummaryCache) Get(ctx context.Context, month valueobject.Month) (*entity.MonthSummary, error) {
	data, err := c.client.Get(ctx, summaryKey(month)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}

	var summary entity.MonthSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return &summary, nil
}

// Version returns the sum of the month's counter and the global counter.
func (c *redisSummaryCache) Version(ctx context.Context, month valueobject.Month) (int64, error) {
	values, err := c.client.MGet(ctx, versionKey(month), globalVersionKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read summary version: %w", err)
	}
	var version int64
	for _, value := range values {
		if value == nil {
			continue
		}
		n, err := strconv.ParseInt(fmt.Sprint(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse summary version: %w", err)
		}
		version += n
	}
	return version, nil
}

// Set stores the summary under its month unless the month was invalidated
// after version was read.
func (c *redisSummaryCache) Set(ctx context.Context, summary *entity.MonthSummary, version int64) (bool, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return false, fmt.Errorf("failed to encode summary: %w", err)
	}
	keys := []string{summaryKey(summary.Month), versionKey(summary.Month), globalVersionKey}
	stored, err := setIfCurrent.Run(ctx, c.client, keys, version, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache summary: %w", err)
	}
	return stored == 1, nil
}

// Invalidate bumps the versions of the given months and drops their summaries.
func (c *redisSummaryCache) Invalidate(ctx context.Context, months ...valueobject.Month) error {
	if len(months) == 0 {
		return nil
	}
	keys := make([]string, len(months))
	for i, month := range months {
		keys[i] = summaryKey(month)
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, month := range months {
			pipe.Incr(ctx, versionKey(month))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate summaries: %w", err)
	}
	return nil
}

// InvalidateAll bumps the global version and drops every cached summary.
// Alert markers are kept.
func (c *redisSummaryCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, globalVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summaries: %w", err)
	}
	iter := c.client.Scan(ctx, 0, summaryKeyPrefix+"*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan summaries: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summaries: %w", err)
	}
	return nil
}

// MarkAlerted sets the alert marker if it is absent and reports whether it did.
func (c *redisSummaryCache) MarkAlerted(ctx context.Context, key string) (bool, error) {
	ok, err := c.client.SetNX(ctx, alertKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), alertTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark alert: %w", err)
	}
	return ok, nil
}
