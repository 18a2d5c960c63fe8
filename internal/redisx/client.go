package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Dedup remembers ids for TTLDedup.
type Dedup struct {
	RDB *redis.Client
}

// FirstSeen records id under scope and reports whether it was new. SET NX
// makes the check and the write one step, so two workers cannot both win.
func (d *Dedup) FirstSeen(ctx context.Context, scope, id string) (bool, error) {
	return d.RDB.SetNX(ctx, Key(scope, id), "1", TTLDedup).Result()
}

// Forget removes a mark so a failed input can be retried.
func (d *Dedup) Forget(ctx context.Context, scope, id string) error {
	return d.RDB.Del(ctx, Key(scope, id)).Err()
}

func Key(scope, id string) string { return fmt.Sprintf(KeyDedup, scope, id) }
