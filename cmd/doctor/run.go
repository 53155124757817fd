package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"doctor/pkg/channels/discord"
	"doctor/pkg/commands"
	"doctor/pkg/config"
	"doctor/pkg/doc"
	"doctor/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Discord bot in the foreground",
	Long: `Run the Discord bot in the foreground until interrupted.

When the bot was installed with 'doctor service install', the service
manager calls this command as well.`,
	Run: runBot,
}

func runBot(cmd *cobra.Command, args []string) {
	if isService() {
		if err := RunService(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running service: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := newBotApp()
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error building bot: %v\n", err)
		os.Exit(1)
	}

	// Run blocks until SIGINT or SIGTERM.
	app.Run()
}

func newBotApp(opts ...fx.Option) *fx.App {
	return fx.New(
		coreModules(defaultLoggerConfig),
		discord.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *logger.Logger, cfg *config.Config, executor *commands.Executor, index *doc.Index) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					names := make([]string, 0, len(executor.Commands()))
					for _, c := range executor.Commands() {
						names = append(names, c.Name())
					}
					log.Info("Bot started",
						zap.Bool("discord", cfg.Discord.Enabled),
						zap.Strings("commands", names),
						zap.Int("indexed_elements", index.Len()),
						zap.String("interactions", cfg.Interactions.Backend))
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.Info("Bot stopped")
					return nil
				},
			})
		}),

		fx.Options(opts...),
		fx.NopLogger,
	)
}

// isService reports whether a service manager started the process.
func isService() bool {
	return os.Getenv("INVOCATION_ID") != "" || // systemd
		os.Getenv("_") == "/bin/launchd" ||
		os.Getenv("SERVICE_NAME") != ""
}
