// Package state stores short-lived interactive state: the pending choices a
// user was offered when a lookup could not be resolved to a single result.
package state

import (
	"context"
	"time"
)

// Choice is one selectable candidate of an ActiveInteraction.
type Choice struct {
	QualifiedName      string `json:"qualified_name"`
	Exact              bool   `json:"exact"`
	CaseSensitiveExact bool   `json:"case_sensitive_exact"`
}

// ActiveInteraction is the stored state behind a message that offers
// choices. The choice id of an entry is its index in Choices.
type ActiveInteraction struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	CreatedAt        time.Time `json:"created_at"`
	Choices          []Choice  `json:"choices"`
	ShortDescription bool      `json:"short_description"`
	OmitTags         bool      `json:"omit_tags"`
}

// Choice returns the candidate with the given choice id.
func (a *ActiveInteraction) Choice(id int) (Choice, bool) {
	if id < 0 || id >= len(a.Choices) {
		return Choice{}, false
	}
	return a.Choices[id], true
}

// Expired reports whether the interaction is older than ttl at now.
// A non-positive ttl never expires.
func (a *ActiveInteraction) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(a.CreatedAt) >= ttl
}

// Store is the interface for interaction storage backends.
type Store interface {
	// Put stores an interaction, replacing any previous one with the same id.
	Put(ctx context.Context, interaction *ActiveInteraction) error

	// Get returns the interaction without consuming it.
	Get(ctx context.Context, id string) (*ActiveInteraction, bool, error)

	// Take removes and returns the interaction. Of several concurrent calls
	// for the same id, at most one observes it.
	Take(ctx context.Context, id string) (*ActiveInteraction, bool, error)

	// Sweep removes every interaction that has expired at now.
	Sweep(ctx context.Context, now time.Time) (int, error)

	// Len returns the number of stored, unexpired interactions.
	Len(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// BackendType represents the storage backend type.
type BackendType string

const (
	BackendMemory BackendType = "memory"
	BackendRedis  BackendType = "redis"
)

// Config configures the interaction store.
type Config struct {
	Backend BackendType   // Storage backend (memory or redis)
	TTL     time.Duration // Age after which an interaction is gone

	// Redis backend config
	RedisAddr     string // Redis address (host:port)
	RedisPassword string // Redis password
	RedisDB       int    // Redis database number
	RedisPrefix   string // Key prefix for namespacing
}
