package doc

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"doctor/pkg/commands"
	"doctor/pkg/config"
	"doctor/pkg/logger"
	"doctor/pkg/state"
)

// Module provides the Javadoc index and registers the doc command.
var Module = fx.Module("doc",
	fx.Provide(ProvideIndex),
	fx.Provide(NewRenderer),
	fx.Provide(ProvideResolver),
	fx.Invoke(registerCommand),
)

func indexOptions(cfg *config.Config) IndexOptions {
	return IndexOptions{
		Paths:       cfg.IndexPaths(),
		MaxResults:  cfg.Index.MaxResults,
		MaxDistance: cfg.Index.MaxDistance,
	}
}

// ProvideIndex loads the index and keeps it in sync with its files and
// with the index section of the configuration.
func ProvideIndex(lc fx.Lifecycle, log *logger.Logger, cfg *config.Config, cfgWatcher *config.Watcher) (*Index, error) {
	log = log.Named("doc")
	index := NewIndex(log, indexOptions(cfg))
	if err := index.Load(); err != nil {
		return nil, err
	}

	watcher, err := NewWatcher(log, index)
	if err != nil {
		return nil, err
	}

	cfgWatcher.AddHandler(func(next *config.Config) error {
		index.SetOptions(indexOptions(next))
		if err := index.Load(); err != nil {
			return err
		}
		return watcher.Sync()
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return watcher.Start()
		},
		OnStop: func(ctx context.Context) error {
			return watcher.Stop()
		},
	})

	return index, nil
}

// ProvideResolver wires the resolver to the index and interaction store.
func ProvideResolver(log *logger.Logger, index *Index, store state.Store, renderer *Renderer) *Resolver {
	return NewResolver(log.Named("resolver"), index, index, store, renderer)
}

func registerCommand(executor *commands.Executor, resolver *Resolver, index *Index, log *logger.Logger) error {
	if err := executor.Register(NewCommand(resolver)); err != nil {
		return err
	}
	log.Info("Registered doc command", zap.Int("indexed_elements", index.Len()))
	return nil
}
