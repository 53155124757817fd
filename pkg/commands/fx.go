package commands

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"doctor/pkg/config"
	"doctor/pkg/logger"
	"doctor/pkg/state"
)

// Module provides the executor and registers the built-in commands.
var Module = fx.Module("commands",
	fx.Provide(ProvideExecutor),
	fx.Invoke(registerBuiltins),
)

// ProvideExecutor creates the executor with the configured rate limit.
func ProvideExecutor(log *logger.Logger, cfg *config.Config) *Executor {
	return NewExecutor(log.Named("executor"), RateLimit{
		PerSecond: cfg.RateLimit.PerSecond,
		Burst:     cfg.RateLimit.Burst,
	})
}

// registerBuiltins registers built-in commands on startup.
func registerBuiltins(executor *Executor, store state.Store, log *logger.Logger) error {
	builtins := []Command{
		NewHelpCommand(executor),
		NewStatusCommand(store),
	}
	for _, cmd := range builtins {
		if err := executor.Register(cmd); err != nil {
			log.Error("Failed to register builtin command", zap.String("command", cmd.Name()), zap.Error(err))
			return err
		}
	}

	log.Info("Registered builtin commands", zap.Int("count", len(executor.Commands())))
	return nil
}
