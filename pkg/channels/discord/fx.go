package discord

import (
	"context"

	"go.uber.org/fx"

	"doctor/pkg/commands"
	"doctor/pkg/config"
	"doctor/pkg/logger"
)

// Module provides the Discord channel and registers the commands that need it.
var Module = fx.Module("discord",
	fx.Provide(ProvideChannel),
	fx.Provide(func(c *Channel) commands.SlashRegistrar { return c }),
	fx.Invoke(registerChannel),
)

// ProvideChannel creates the Discord channel from configuration.
func ProvideChannel(log *logger.Logger, cfg *config.Config, executor *commands.Executor) (*Channel, error) {
	return NewChannel(log.Named("discord"), cfg.Discord, executor)
}

func registerChannel(lc fx.Lifecycle, log *logger.Logger, cfg *config.Config, executor *commands.Executor, channel *Channel, registrar commands.SlashRegistrar) error {
	cmd := commands.NewUpdateSlashesCommand(log.Named("update-slashes"), executor, registrar, cfg.Discord.OwnerID)
	if err := executor.Register(cmd); err != nil {
		return err
	}

	if !channel.IsEnabled() {
		log.Warn("Discord channel disabled")
		return nil
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return channel.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return channel.Stop(ctx)
		},
	})
	return nil
}
