package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"doctor/pkg/commands"
)

var queryCmd = &cobra.Command{
	Use:   "query <message>",
	Short: "Dispatch one message against the local index",
	Long: `Dispatch a single chat message without connecting to Discord and print
what the bot would answer.

Examples:
  doctor query doc String#trim
  doctor query doc long java.util.List`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuery,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Talk to the bot from the terminal",
	Long: `Start an interactive session that dispatches every line as a chat message.
Answer a choice prompt with "pick <n>". Type "exit" to leave.`,
	Run: runConsole,
}

// newOfflineApp builds the command stack without a chat front-end.
func newOfflineApp(executor **commands.Executor) *fx.App {
	return fx.New(
		coreModules(quietLoggerConfig),
		fx.Populate(executor),
		fx.NopLogger,
	)
}

func withOfflineExecutor(fn func(ctx context.Context, executor *commands.Executor) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var executor *commands.Executor
	app := newOfflineApp(&executor)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping: %v\n", err)
		}
	}()

	return fn(ctx, executor)
}

func runQuery(cmd *cobra.Command, args []string) {
	err := withOfflineExecutor(func(ctx context.Context, executor *commands.Executor) error {
		sender := newConsoleSender(os.Stdout)
		executor.Dispatch(ctx, consoleEvent(strings.Join(args, " "), nil), sender)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConsole(cmd *cobra.Command, args []string) {
	err := withOfflineExecutor(func(ctx context.Context, executor *commands.Executor) error {
		return consoleLoop(ctx, executor)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func consoleLoop(ctx context.Context, executor *commands.Executor) error {
	sender := newConsoleSender(os.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "doctor> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".doctor_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Println("Warning: readline not available, using simple mode")
		return simpleConsoleLoop(ctx, executor, sender, os.Stdin)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if !handleConsoleLine(ctx, executor, sender, line) {
			return nil
		}
	}
}

func simpleConsoleLoop(ctx context.Context, executor *commands.Executor, sender *consoleSender, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("doctor> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if !handleConsoleLine(ctx, executor, sender, scanner.Text()) {
			return nil
		}
	}
}

// handleConsoleLine dispatches one line and reports whether to keep reading.
func handleConsoleLine(ctx context.Context, executor *commands.Executor, sender *consoleSender, line string) bool {
	input := strings.TrimSpace(line)
	switch input {
	case "":
		return true
	case "exit", "quit":
		return false
	}
	executor.Dispatch(ctx, consoleEvent(input, sender.lastPrompt()), sender)
	return true
}
