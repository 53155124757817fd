package state

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"doctor/pkg/config"
	"doctor/pkg/logger"
)

// Module is the fx module for interaction state.
var Module = fx.Module("state",
	fx.Provide(NewInteractionStore),
	fx.Provide(NewInteractionSweeper),
	fx.Invoke(func(*Sweeper) {}),
)

// NewInteractionStore creates the interaction store for fx.
func NewInteractionStore(
	lc fx.Lifecycle,
	log *logger.Logger,
	cfg *config.Config,
) (Store, error) {
	storeConfig := &Config{
		Backend:     BackendType(cfg.Interactions.Backend),
		TTL:         cfg.InteractionTTL(),
		RedisPrefix: cfg.Interactions.Prefix,
	}
	if storeConfig.Backend == BackendRedis {
		storeConfig.RedisAddr = cfg.Redis.Addr
		storeConfig.RedisPassword = cfg.Redis.Password
		storeConfig.RedisDB = cfg.Redis.DB
	}

	store, err := NewStore(log, storeConfig)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Interaction store initialized",
				zap.String("backend", string(storeConfig.Backend)),
				zap.Duration("ttl", storeConfig.TTL))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// NewInteractionSweeper creates the expiry sweeper for fx.
func NewInteractionSweeper(
	lc fx.Lifecycle,
	log *logger.Logger,
	cfg *config.Config,
	store Store,
) *Sweeper {
	sweeper := NewSweeper(log, store, cfg.SweepInterval())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})

	return sweeper
}
