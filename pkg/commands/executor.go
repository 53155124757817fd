package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"doctor/pkg/logger"
	"doctor/pkg/parsers"
)

const (
	genericFailure = "Something went wrong while running that command"
	rateLimited    = "You're sending commands too quickly, try again in a moment"
)

// Executor holds the registered commands and routes events to them.
type Executor struct {
	log      *logger.Logger
	limiter  *userLimiter
	commands []Command
	byName   map[string]Command
	mu       sync.RWMutex
}

// NewExecutor creates an executor with no commands.
func NewExecutor(log *logger.Logger, limit RateLimit) *Executor {
	return &Executor{
		log:     log,
		limiter: newUserLimiter(limit),
		byName:  make(map[string]Command),
	}
}

// Register adds a command. Message matching tries commands in
// registration order.
func (e *Executor) Register(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.byName[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}
	e.commands = append(e.commands, cmd)
	e.byName[name] = cmd
	return nil
}

// Commands returns the registered commands in registration order.
func (e *Executor) Commands() []Command {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Command(nil), e.commands...)
}

// Get looks up a command by name.
func (e *Executor) Get(name string) (Command, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cmd, ok := e.byName[name]
	return cmd, ok
}

// SlashData collects the slash schemas of all commands that provide one.
func (e *Executor) SlashData() []SlashData {
	var data []SlashData
	for _, cmd := range e.Commands() {
		if provider, ok := cmd.(SlashProvider); ok {
			data = append(data, provider.SlashData())
		}
	}
	return data
}

// Dispatch routes one event. Errors are reported through sender and never
// returned: a single bad event must not stop the caller's event loop.
//
// The per-user rate limit is charged only once an event has found its
// command. Button and menu events answer an earlier command and are not
// limited.
func (e *Executor) Dispatch(ctx context.Context, src Source, sender Sender) {
	var (
		name string
		err  error
	)
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Command panicked",
				zap.String("source", fmt.Sprintf("%T", src)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			e.replyFailure(ctx, sender, &Response{Content: genericFailure})
		}
	}()

	switch s := src.(type) {
	case *MessageSource:
		name, err = e.dispatchMessage(ctx, s, sender)
	case *SlashSource:
		name, err = e.dispatchSlash(ctx, s, sender)
	case *ButtonSource:
		name, err = e.dispatchButton(ctx, s, sender)
	case *MenuSource:
		name, err = e.dispatchMenu(ctx, s, sender)
	default:
		e.log.Warn("Unknown event source", zap.String("type", fmt.Sprintf("%T", src)))
		return
	}

	if err == nil {
		return
	}

	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		e.log.Debug("Command aborted",
			zap.String("command", name),
			zap.String("reason", dispatchErr.Error()))
		e.replyFailure(ctx, sender, &Response{Content: dispatchErr.Error()})
		return
	}

	e.log.Error("Command failed", zap.String("command", name), zap.Error(err))
	e.replyFailure(ctx, sender, &Response{Content: genericFailure})
}

func (e *Executor) replyFailure(ctx context.Context, sender Sender, resp *Response) {
	if err := sender.Reply(ctx, resp); err != nil {
		e.log.Warn("Failed to send failure reply", zap.Error(err))
	}
}

func (e *Executor) dispatchMessage(ctx context.Context, src *MessageSource, sender Sender) (string, error) {
	for _, cmd := range e.Commands() {
		handler, ok := cmd.(MessageHandler)
		if !ok {
			continue
		}

		reader := parsers.NewReader(src.Text)
		res := cmd.Keyword().Parse(reader)
		if !res.IsOk() {
			continue
		}

		if !e.allow(src) {
			return cmd.Name(), nil
		}
		cc := &Context{reader: reader, match: res.Value()}
		return cmd.Name(), handler.HandleMessage(ctx, cc, src, sender)
	}
	return "", nil
}

func (e *Executor) dispatchSlash(ctx context.Context, src *SlashSource, sender Sender) (string, error) {
	cmd, ok := e.Get(src.CommandName)
	if !ok {
		e.log.Debug("Ignoring unknown slash command", zap.String("command", src.CommandName))
		return "", nil
	}
	handler, ok := cmd.(SlashHandler)
	if !ok {
		return "", nil
	}
	// Slash commands must be answered, so a limited one is denied.
	if !e.allow(src) {
		return cmd.Name(), sender.Deny(ctx, rateLimited)
	}
	return cmd.Name(), handler.HandleSlash(ctx, src, sender)
}

func (e *Executor) allow(src Source) bool {
	if e.limiter.Allow(src.AuthorID()) {
		return true
	}
	e.log.Debug("Dropping rate limited command", zap.String("user", src.AuthorID()))
	return false
}

func (e *Executor) dispatchButton(ctx context.Context, src *ButtonSource, sender Sender) (string, error) {
	cmd, cc, ok := e.component(src.CustomID)
	if !ok {
		return "", nil
	}
	handler, ok := cmd.(ButtonHandler)
	if !ok {
		return "", nil
	}
	return cmd.Name(), handler.HandleButton(ctx, cc, src, sender)
}

func (e *Executor) dispatchMenu(ctx context.Context, src *MenuSource, sender Sender) (string, error) {
	cmd, cc, ok := e.component(src.CustomID)
	if !ok {
		return "", nil
	}
	handler, ok := cmd.(MenuHandler)
	if !ok {
		return "", nil
	}
	return cmd.Name(), handler.HandleMenu(ctx, cc, src, sender)
}

// component resolves the command named by the first word of a component
// custom id and returns a context over the rest of the payload.
func (e *Executor) component(customID string) (Command, *Context, bool) {
	reader := parsers.NewReader(customID)
	res := parsers.Word().Parse(reader)
	if !res.IsOk() {
		e.log.Debug("Ignoring component without command", zap.String("custom_id", customID))
		return nil, nil, false
	}

	cmd, ok := e.Get(res.Value())
	if !ok {
		e.log.Debug("Ignoring component for unknown command", zap.String("custom_id", customID))
		return nil, nil, false
	}
	return cmd, &Context{reader: reader, match: res.Value()}, true
}
