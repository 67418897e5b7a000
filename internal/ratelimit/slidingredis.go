package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlidingWindow counts events per key inside a rolling window using a Redis
// sorted set. A zero Max or Window disables enforcement.
type SlidingWindow struct {
	Client *redis.Client
	Prefix string
	Window time.Duration
	Max    int
}

// Decision is the outcome of a single Take call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Take records one event for key and reports whether it fits in the window.
func (s SlidingWindow) Take(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	resetAt := now.Add(s.Window)
	if s.Client == nil || s.Max <= 0 || s.Window <= 0 {
		return Decision{Allowed: true, Remaining: s.Max, ResetAt: resetAt}, nil
	}

	redisKey := s.Prefix + key
	cutoff := strconv.FormatInt(now.Add(-s.Window).UnixNano(), 10)
	member := key + ":" + uuid.NewString()

	pipe := s.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, s.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{ResetAt: resetAt}, err
	}

	current := int(countCmd.Val())
	remaining := s.Max - current
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   current <= s.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
