package commands

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit configures the per-user token bucket. PerSecond <= 0 disables
// limiting.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

const (
	maxTrackedUsers = 10000
	limiterIdleTTL  = 10 * time.Minute
)

type userLimit struct {
	limiter *rate.Limiter
	seen    time.Time
}

// userLimiter hands out one token bucket per user id.
type userLimiter struct {
	cfg   RateLimit
	users map[string]*userLimit
	now   func() time.Time
	mu    sync.Mutex
}

func newUserLimiter(cfg RateLimit) *userLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &userLimiter{
		cfg:   cfg,
		users: make(map[string]*userLimit),
		now:   time.Now,
	}
}

// Allow reports whether the user may dispatch now.
func (l *userLimiter) Allow(userID string) bool {
	if l.cfg.PerSecond <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.users[userID]
	if !ok {
		if len(l.users) >= maxTrackedUsers {
			l.pruneLocked(now)
		}
		entry = &userLimit{limiter: rate.NewLimiter(rate.Limit(l.cfg.PerSecond), l.cfg.Burst)}
		l.users[userID] = entry
	}
	entry.seen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *userLimiter) pruneLocked(now time.Time) {
	for id, entry := range l.users {
		if now.Sub(entry.seen) > limiterIdleTTL {
			delete(l.users, id)
		}
	}
}
