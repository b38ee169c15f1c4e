package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Veerendratanneru7/transport/domain"
)

// ChallengeStoreImpl implements domain.ChallengeStore using Redis. Saving a
// challenge for a session that already has one replaces it in place, so at
// most one challenge is pending per session token.
type ChallengeStoreImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewChallengeStore creates a new challenge store. The ttl bounds how long a
// session can keep issuing codes, not a single code's validity.
func NewChallengeStore(client *redis.Client, ttl time.Duration) domain.ChallengeStore {
	return &ChallengeStoreImpl{
		client: client,
		prefix: "otpch:",
		ttl:    ttl,
	}
}

// Save implements domain.ChallengeStore
func (s *ChallengeStoreImpl) Save(ctx context.Context, sessionID string, ch *domain.OtpChallenge) error {
	key := s.prefix + sessionID
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Find implements domain.ChallengeStore
func (s *ChallengeStoreImpl) Find(ctx context.Context, sessionID string) (*domain.OtpChallenge, error) {
	key := s.prefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}

	var ch domain.OtpChallenge
	if err := json.Unmarshal([]byte(data), &ch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}

	return &ch, nil
}

// Delete implements domain.ChallengeStore
func (s *ChallengeStoreImpl) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}
