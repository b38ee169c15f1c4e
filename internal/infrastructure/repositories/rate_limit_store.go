package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Veerendratanneru7/transport/domain"
)

// RateLimitStoreImpl implements domain.RateLimitStore using Redis. Counters
// live under their own keys so they survive a challenge being replaced or
// cleared within the same session.
type RateLimitStoreImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRateLimitStore creates a new rate limit store
func NewRateLimitStore(client *redis.Client, ttl time.Duration) domain.RateLimitStore {
	return &RateLimitStoreImpl{client: client, ttl: ttl}
}

func (s *RateLimitStoreImpl) countKey(sessionID string) string { return "otpcnt:" + sessionID }
func (s *RateLimitStoreImpl) lastKey(sessionID string) string  { return "otplast:" + sessionID }

// Counters implements domain.RateLimitStore. A session with no recorded
// issuance reports zero issued and a zero last time.
func (s *RateLimitStoreImpl) Counters(ctx context.Context, sessionID string) (int, time.Time, error) {
	issued := 0
	raw, err := s.client.Get(ctx, s.countKey(sessionID)).Result()
	if err != nil && err != redis.Nil {
		return 0, time.Time{}, err
	}
	if err == nil {
		issued, err = strconv.Atoi(raw)
		if err != nil {
			return 0, time.Time{}, err
		}
	}

	var last time.Time
	rawLast, err := s.client.Get(ctx, s.lastKey(sessionID)).Result()
	if err != nil && err != redis.Nil {
		return 0, time.Time{}, err
	}
	if err == nil {
		nanos, parseErr := strconv.ParseInt(rawLast, 10, 64)
		if parseErr != nil {
			return 0, time.Time{}, parseErr
		}
		last = time.Unix(0, nanos).UTC()
	}

	return issued, last, nil
}

// NoteIssued implements domain.RateLimitStore
func (s *RateLimitStoreImpl) NoteIssued(ctx context.Context, sessionID string, at time.Time) error {
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, s.countKey(sessionID))
	pipe.Expire(ctx, s.countKey(sessionID), s.ttl)
	pipe.Set(ctx, s.lastKey(sessionID), strconv.FormatInt(at.UnixNano(), 10), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
