package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"doctor/pkg/logger"
)

// RedisStore keeps interactions in Redis so several bot processes can share
// them. Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	log    *logger.Logger
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Addr     string        // Redis address (host:port)
	Password string        // Redis password
	DB       int           // Redis database number
	Prefix   string        // Key prefix for namespacing
	TTL      time.Duration // Key expiry
}

// NewRedisStore creates a new Redis-based interaction store.
func NewRedisStore(log *logger.Logger, cfg *RedisStoreConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "doctor:interaction:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	log.Info("Connected to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("prefix", cfg.Prefix))

	return &RedisStore{
		log:    log,
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

func (s *RedisStore) prefixKey(id string) string {
	return s.prefix + id
}

// Put stores an interaction with the configured TTL.
func (s *RedisStore) Put(ctx context.Context, interaction *ActiveInteraction) error {
	data, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("marshaling interaction: %w", err)
	}

	if err := s.client.Set(ctx, s.prefixKey(interaction.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the interaction without removing it.
func (s *RedisStore) Get(ctx context.Context, id string) (*ActiveInteraction, bool, error) {
	val, err := s.client.Get(ctx, s.prefixKey(id)).Result()
	return s.decode(val, err)
}

// Take uses GETDEL, which Redis executes atomically.
func (s *RedisStore) Take(ctx context.Context, id string) (*ActiveInteraction, bool, error) {
	val, err := s.client.GetDel(ctx, s.prefixKey(id)).Result()
	return s.decode(val, err)
}

// Sweep is a no-op: Redis expires keys on its own.
func (s *RedisStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

// Len counts keys under the store prefix.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return count, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) decode(val string, err error) (*ActiveInteraction, bool, error) {
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var interaction ActiveInteraction
	if err := json.NewDecoder(strings.NewReader(val)).Decode(&interaction); err != nil {
		return nil, false, fmt.Errorf("unmarshaling interaction: %w", err)
	}

	// Keys written with a longer TTL before a config change still honor the
	// current one.
	if interaction.Expired(s.now(), s.ttl) {
		return nil, false, nil
	}
	return &interaction, true, nil
}
