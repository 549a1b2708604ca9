package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Deduper guards handlers against redelivered events. It fails open: when
// redis is unreachable the event is processed.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Deduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func key(scope, id string) string {
	return fmt.Sprintf("dedup:%s:%s", scope, id)
}

// AcquireOnce returns true the first time scope+id is seen within the TTL.
func (d *Deduper) AcquireOnce(ctx context.Context, scope, id string) bool {
	if d.rdb == nil {
		return true
	}
	k := key(scope, id)
	ok, err := d.rdb.SetNX(ctx, k, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("dedup_check_failed", "scope", scope, "id", id, "error", err)
		return true
	}
	if !ok {
		d.logger.Info("dedup_skipped", "scope", scope, "id", id, "dedup_key", k)
	}
	return ok
}

// Release drops the guard so a failed event can be retried on redelivery.
func (d *Deduper) Release(ctx context.Context, scope, id string) {
	if d.rdb == nil {
		return
	}
	if err := d.rdb.Del(ctx, key(scope, id)).Err(); err != nil {
		d.logger.Warn("dedup_release_failed", "scope", scope, "id", id, "error", err)
	}
}
