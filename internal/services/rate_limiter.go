package services

import (
	"context"
	"time"

	"github.com/Veerendratanneru7/transport/domain"
)

// RateLimiterImpl enforces the per-session issuance cap and resend cooldown
// over a domain.RateLimitStore. Counters belong to the session token, not the
// challenge, so clearing a challenge never resets them.
type RateLimiterImpl struct {
	store    domain.RateLimitStore
	max      int
	cooldown time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(store domain.RateLimitStore, max int, cooldown time.Duration) *RateLimiterImpl {
	return &RateLimiterImpl{
		store:    store,
		max:      max,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Allow reports whether the session may be issued another code. The cooldown
// only applies when enforceCooldown is set and at least one code was already
// issued; the cap applies always.
func (l *RateLimiterImpl) Allow(ctx context.Context, sessionID string, enforceCooldown bool) error {
	issued, last, err := l.store.Counters(ctx, sessionID)
	if err != nil {
		return err
	}
	if issued >= l.max {
		return domain.ErrTooManyRequests
	}
	if enforceCooldown && issued > 0 && l.now().Sub(last) < l.cooldown {
		return domain.ErrCooldown
	}
	return nil
}

// Note records a successful issuance for the session.
func (l *RateLimiterImpl) Note(ctx context.Context, sessionID string) error {
	return l.store.NoteIssued(ctx, sessionID, l.now().UTC())
}
