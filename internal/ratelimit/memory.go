package ratelimit

import (
	"context"
	"time"

	libratelimit "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter enforces per-key request rates against an in-memory store.
// The simulator holds all state in process, so the limiter does too.
type Limiter struct {
	Store libratelimit.Store
}

// NewMemoryLimiter builds a limiter backed by an in-process store.
func NewMemoryLimiter(prefix string) Limiter {
	return Limiter{
		Store: memory.NewStoreWithOptions(libratelimit.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: time.Minute,
		}),
	}
}

// Allow registers an event for the given key and returns whether it is within the limit.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error) {
	if l.Store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}

	rate := libratelimit.Rate{Period: window, Limit: int64(max)}
	lctx, err := libratelimit.New(l.Store, rate).Get(ctx, key)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}

	return !lctx.Reached, int(lctx.Remaining), time.Unix(lctx.Reset, 0), nil
}
