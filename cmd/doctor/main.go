// Package main is the entry point for the doctor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"doctor/pkg/commands"
	"doctor/pkg/config"
	"doctor/pkg/doc"
	"doctor/pkg/logger"
	"doctor/pkg/state"
	"doctor/pkg/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "doctor",
	Short: "doctor - Javadoc lookups in chat",
	Long: `doctor answers documentation queries for Java elements in Discord.

It resolves fuzzy queries against a local Javadoc index, asks the requester
to pick when a query is ambiguous, and renders the chosen element.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(versionCmd)
}

// coreModules wires everything except a chat front-end.
func coreModules(loggerConfig func(*config.Config) *logger.Config) fx.Option {
	return fx.Options(
		fx.Provide(config.ProvideConfigWithPath(configPath)),
		fx.Provide(loggerConfig),
		logger.Module,
		config.Module,
		state.Module,
		commands.Module,
		doc.Module,
	)
}

func defaultLoggerConfig(cfg *config.Config) *logger.Config {
	return cfg.Logger.ToLoggerConfig()
}

// quietLoggerConfig keeps log lines out of interactive output.
func quietLoggerConfig(cfg *config.Config) *logger.Config {
	lc := cfg.Logger.ToLoggerConfig()
	if lc.Level == logger.LevelDebug || lc.Level == logger.LevelInfo {
		lc.Level = logger.LevelWarn
	}
	return lc
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
