package commands

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"doctor/pkg/parsers"
	"doctor/pkg/version"
)

var processStartTime = time.Now()

// HelpCommand lists the registered commands.
type HelpCommand struct {
	executor *Executor
}

// NewHelpCommand creates the help command for executor.
func NewHelpCommand(executor *Executor) *HelpCommand {
	return &HelpCommand{executor: executor}
}

func (c *HelpCommand) Name() string { return "help" }

func (c *HelpCommand) Keyword() parsers.Parser[string] { return parsers.Literal("help") }

func (c *HelpCommand) SlashData() SlashData {
	return SlashData{Name: "help", Description: "Show available commands"}
}

func (c *HelpCommand) HandleMessage(ctx context.Context, cc *Context, src *MessageSource, sender Sender) error {
	return sender.Reply(ctx, c.render())
}

func (c *HelpCommand) HandleSlash(ctx context.Context, src *SlashSource, sender Sender) error {
	return sender.Reply(ctx, c.render())
}

func (c *HelpCommand) render() *Response {
	var sb strings.Builder
	sb.WriteString("**Available Commands**\n\n")
	for _, cmd := range c.executor.Commands() {
		desc := "Message command"
		if provider, ok := cmd.(SlashProvider); ok {
			desc = compactDescription(provider.SlashData().Description, 72)
		}
		sb.WriteString(fmt.Sprintf("**%s** - %s\n", cmd.Name(), desc))
	}
	return &Response{Content: sb.String()}
}

func compactDescription(desc string, limit int) string {
	desc = strings.Join(strings.Fields(strings.TrimSpace(desc)), " ")
	runes := []rune(desc)
	if len(runes) <= limit {
		return desc
	}
	return string(runes[:limit-1]) + "…"
}

// PendingCounter reports how many choice prompts are still open.
type PendingCounter interface {
	Len(ctx context.Context) (int, error)
}

// StatusCommand reports build and runtime information.
type StatusCommand struct {
	pending PendingCounter
}

// NewStatusCommand creates the status command.
func NewStatusCommand(pending PendingCounter) *StatusCommand {
	return &StatusCommand{pending: pending}
}

func (c *StatusCommand) Name() string { return "status" }

func (c *StatusCommand) Keyword() parsers.Parser[string] { return parsers.Literal("status") }

func (c *StatusCommand) HandleMessage(ctx context.Context, cc *Context, src *MessageSource, sender Sender) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	pending := "unknown"
	if n, err := c.pending.Len(ctx); err == nil {
		pending = fmt.Sprintf("%d", n)
	}

	content := fmt.Sprintf(`**Doctor Status**

Version: %s
OS: %s/%s
Go: %s
Uptime: %s
Memory: %.2f MB
Pending choices: %s`,
		version.Get().Short(),
		runtime.GOOS,
		runtime.GOARCH,
		runtime.Version(),
		time.Since(processStartTime).Round(time.Second),
		float64(mem.Alloc)/1024.0/1024.0,
		pending,
	)

	return sender.Reply(ctx, &Response{Content: content})
}
