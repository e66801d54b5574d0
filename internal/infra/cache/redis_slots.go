// Package cache keeps computed availability in redis.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/metrics"
)

// versionTTL must outlive any cached hash.
const versionTTL = 7 * 24 * time.Hour

// setIfCurrent writes the field only while the date's version equals ARGV[1].
var setIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
redis.call('EXPIRE', KEYS[2], ARGV[4])
return 1
`)

// RedisSlotCache stores one hash per date, keyed by service and duration,
// so that a write on a date drops every service's slots for it at once.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func dateKey(date string) string {
	return "availability:" + date
}

func versionKey(date string) string {
	return "availability:version:" + date
}

func fieldKey(key domain.SlotKey) string {
	return strconv.FormatUint(uint64(key.ServiceID), 10) + ":" + strconv.Itoa(key.Duration)
}

// Version returns the date's invalidation counter, or -1 when redis cannot
// be read so that the following Set is skipped.
func (c *RedisSlotCache) Version(ctx context.Context, date string) int64 {
	v, err := c.client.Get(ctx, versionKey(date)).Int64()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		log.Printf("[cache][availability] version %s failed: %v", date, err)
		return -1
	}
	return v
}

func (c *RedisSlotCache) Get(ctx context.Context, key domain.SlotKey) ([]domain.TimeSlot, bool) {
	raw, err := c.client.HGet(ctx, dateKey(key.Date), fieldKey(key)).Bytes()
	if err == redis.Nil {
		metrics.AvailabilityCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		log.Printf("[cache][availability] get %s failed: %v", key.Date, err)
		metrics.AvailabilityCache.WithLabelValues("error").Inc()
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		metrics.AvailabilityCache.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.AvailabilityCache.WithLabelValues("hit").Inc()
	return slots, true
}

func (c *RedisSlotCache) Set(ctx context.Context, key domain.SlotKey, version int64, slots []domain.TimeSlot) {
	if version < 0 {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	ttl := int64(c.ttl / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	written, err := setIfCurrent.Run(ctx, c.client,
		[]string{versionKey(key.Date), dateKey(key.Date)},
		strconv.FormatInt(version, 10), fieldKey(key), raw, ttl,
	).Int()
	if err != nil {
		log.Printf("[cache][availability] set %s failed: %v", key.Date, err)
		return
	}
	if written == 0 {
		metrics.AvailabilityCache.WithLabelValues("stale").Inc()
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, dates ...string) {
	pipe := c.client.TxPipeline()
	n := 0
	for _, d := range dates {
		if d == "" {
			continue
		}
		pipe.Incr(ctx, versionKey(d))
		pipe.Expire(ctx, versionKey(d), versionTTL)
		pipe.Del(ctx, dateKey(d))
		n++
	}
	if n == 0 {
		return
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[cache][availability] invalidate %v failed: %v", dates, err)
	}
}

// NoopSlotCache is used when no redis is configured.
type NoopSlotCache struct{}

func (NoopSlotCache) Version(context.Context, string) int64 { return 0 }
func (NoopSlotCache) Get(context.Context, domain.SlotKey) ([]domain.TimeSlot, bool) {
	return nil, false
}
func (NoopSlotCache) Set(context.Context, domain.SlotKey, int64, []domain.TimeSlot) {}
func (NoopSlotCache) Invalidate(context.Context, ...string)                         {}

var (
	_ domain.SlotCache = (*RedisSlotCache)(nil)
	_ domain.SlotCache = NoopSlotCache{}
)
