package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctor/pkg/commands"
	"doctor/pkg/commands/commandstest"
	"doctor/pkg/logger"
	"doctor/pkg/parsers"
)

// echoCommand records how it was invoked.
type echoCommand struct {
	name    string
	keyword parsers.Parser[string]

	mu    sync.Mutex
	calls []string
	err   error
	panic bool
}

func (c *echoCommand) Name() string                    { return c.name }
func (c *echoCommand) Keyword() parsers.Parser[string] { return c.keyword }

func (c *echoCommand) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *echoCommand) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *echoCommand) HandleMessage(ctx context.Context, cc *commands.Context, src *commands.MessageSource, sender commands.Sender) error {
	if c.panic {
		panic("boom")
	}
	if c.err != nil {
		return c.err
	}
	rest, err := commands.Shift(cc, parsers.Remaining(1))
	if err != nil {
		return err
	}
	c.record("message:" + cc.Match() + ":" + rest)
	return sender.Reply(ctx, &commands.Response{Content: rest})
}

func (c *echoCommand) HandleButton(ctx context.Context, cc *commands.Context, src *commands.ButtonSource, sender commands.Sender) error {
	choice, err := commands.Shift(cc, parsers.Integer())
	if err != nil {
		return err
	}
	id, err := commands.Shift(cc, parsers.Word())
	if err != nil {
		return err
	}
	c.record("button:" + id + ":" + string(rune('0'+choice)))
	return nil
}

// slashOnly has no message handler.
type slashOnly struct{ invoked bool }

func (c *slashOnly) Name() string                    { return "ping" }
func (c *slashOnly) Keyword() parsers.Parser[string] { return parsers.Literal("ping") }
func (c *slashOnly) SlashData() commands.SlashData {
	return commands.SlashData{Name: "ping", Description: "Ping"}
}
func (c *slashOnly) HandleSlash(ctx context.Context, src *commands.SlashSource, sender commands.Sender) error {
	c.invoked = true
	return sender.Reply(ctx, commands.Text("pong"))
}

func newExecutor(t *testing.T) *commands.Executor {
	t.Helper()
	return commands.NewExecutor(logger.NewNop(), commands.RateLimit{})
}

func message(author, text string) *commands.MessageSource {
	return &commands.MessageSource{
		Origin: commands.Origin{Author: author, Channel: "c1", Guild: "g1"},
		Text:   text,
	}
}

func TestExecutorFirstMatchWins(t *testing.T) {
	ex := newExecutor(t)
	first := &echoCommand{name: "first", keyword: parsers.Literal("do")}
	second := &echoCommand{name: "second", keyword: parsers.Literal("doc")}
	require.NoError(t, ex.Register(first))
	require.NoError(t, ex.Register(second))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("u1", "doc String"), rec)

	assert.Equal(t, []string{"message:do:c String"}, first.Calls())
	assert.Empty(t, second.Calls())
}

func TestExecutorKeywordAlternatives(t *testing.T) {
	ex := newExecutor(t)
	doc := &echoCommand{name: "doc", keyword: parsers.Literal("doc").Or(parsers.Literal("javadoc"))}
	require.NoError(t, ex.Register(doc))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("u1", "javadoc List"), rec)

	assert.Equal(t, []string{"message:javadoc:List"}, doc.Calls())
}

func TestExecutorIgnoresUnmatchedMessage(t *testing.T) {
	ex := newExecutor(t)
	require.NoError(t, ex.Register(&echoCommand{name: "doc", keyword: parsers.Literal("doc")}))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("u1", "hello there"), rec)

	assert.Empty(t, rec.Sent())
}

func TestExecutorSkipsCommandsWithoutMessageHandler(t *testing.T) {
	ex := newExecutor(t)
	ping := &slashOnly{}
	require.NoError(t, ex.Register(ping))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("u1", "ping"), rec)
	assert.False(t, ping.invoked)
	assert.Empty(t, rec.Sent())

	ex.Dispatch(context.Background(), &commands.SlashSource{
		Origin:      commands.Origin{Author: "u1"},
		CommandName: "ping",
	}, rec)
	assert.True(t, ping.invoked)
}

func TestExecutorRejectsDuplicateNames(t *testing.T) {
	ex := newExecutor(t)
	require.NoError(t, ex.Register(&echoCommand{name: "doc", keyword: parsers.Literal("doc")}))
	assert.Error(t, ex.Register(&echoCommand{name: "doc", keyword: parsers.Literal("javadoc")}))
	assert.Error(t, ex.Register(nil))
}

func TestExecutorRoutesButtonsByCommandName(t *testing.T) {
	ex := newExecutor(t)
	doc := &echoCommand{name: "doc", keyword: parsers.Literal("doc")}
	require.NoError(t, ex.Register(doc))

	prompt := &commands.ChoicePrompt{Command: "doc", InteractionID: "abc-123"}
	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), &commands.ButtonSource{
		Origin:   commands.Origin{Author: "u1"},
		CustomID: prompt.ButtonCustomID(2),
	}, rec)

	assert.Equal(t, []string{"button:abc-123:2"}, doc.Calls())
}

func TestExecutorIgnoresUnknownIdentifiers(t *testing.T) {
	ex := newExecutor(t)
	doc := &echoCommand{name: "doc", keyword: parsers.Literal("doc")}
	require.NoError(t, ex.Register(doc))

	rec := commandstest.NewRecorder()
	ctx := context.Background()
	ex.Dispatch(ctx, &commands.ButtonSource{CustomID: "nope 1 abc"}, rec)
	ex.Dispatch(ctx, &commands.ButtonSource{CustomID: ""}, rec)
	ex.Dispatch(ctx, &commands.MenuSource{CustomID: "doc abc", Value: "1"}, rec)
	ex.Dispatch(ctx, &commands.SlashSource{CommandName: "nope"}, rec)

	assert.Empty(t, doc.Calls())
	assert.Empty(t, rec.Sent())
}

func TestExecutorReportsDispatchErrors(t *testing.T) {
	ex := newExecutor(t)
	require.NoError(t, ex.Register(&echoCommand{name: "doc", keyword: parsers.Literal("doc")}))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("u1", "doc"), rec)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Contains(t, last.Response.Content, "invalid arguments")
}

func TestExecutorSurvivesHandlerFailures(t *testing.T) {
	ex := newExecutor(t)
	require.NoError(t, ex.Register(&echoCommand{name: "broken", keyword: parsers.Literal("broken"), err: errors.New("index offline")}))
	require.NoError(t, ex.Register(&echoCommand{name: "panics", keyword: parsers.Literal("panics"), panic: true}))

	rec := commandstest.NewRecorder()
	assert.NotPanics(t, func() {
		ex.Dispatch(context.Background(), message("u1", "broken"), rec)
		ex.Dispatch(context.Background(), message("u1", "panics"), rec)
	})

	sent := rec.Sent()
	require.Len(t, sent, 2)
	for _, s := range sent {
		assert.NotContains(t, s.Response.Content, "index offline")
	}
}

func TestExecutorRateLimitsPerUser(t *testing.T) {
	ex := commands.NewExecutor(logger.NewNop(), commands.RateLimit{PerSecond: 0.001, Burst: 1})
	doc := &echoCommand{name: "doc", keyword: parsers.Literal("doc")}
	require.NoError(t, ex.Register(doc))

	rec := commandstest.NewRecorder()
	ctx := context.Background()
	ex.Dispatch(ctx, message("u1", "doc a"), rec)
	ex.Dispatch(ctx, message("u1", "doc b"), rec)
	ex.Dispatch(ctx, message("u2", "doc c"), rec)

	assert.Equal(t, []string{"message:doc:a", "message:doc:c"}, doc.Calls())
}

func TestExecutorRateLimitIgnoresUnmatchedChatter(t *testing.T) {
	ex := commands.NewExecutor(logger.NewNop(), commands.RateLimit{PerSecond: 0.001, Burst: 1})
	doc := &echoCommand{name: "doc", keyword: parsers.Literal("doc")}
	require.NoError(t, ex.Register(doc))

	rec := commandstest.NewRecorder()
	ctx := context.Background()
	for _, line := range []string{"hi", "hello all", "lol", "ok", "brb"} {
		ex.Dispatch(ctx, message("u1", line), rec)
	}
	ex.Dispatch(ctx, message("u1", "doc String"), rec)

	assert.Equal(t, []string{"message:doc:String"}, doc.Calls())
	assert.Len(t, rec.Sent(), 1)
}

func TestExecutorRateLimitSkipsComponentFollowUps(t *testing.T) {
	ex := commands.NewExecutor(logger.NewNop(), commands.RateLimit{PerSecond: 0.001, Burst: 1})
	doc := &echoCommand{name: "doc", keyword: parsers.Literal("doc")}
	require.NoError(t, ex.Register(doc))

	ctx := context.Background()
	rec := commandstest.NewRecorder()
	ex.Dispatch(ctx, message("u1", "doc String"), rec)

	prompt := &commands.ChoicePrompt{Command: "doc", InteractionID: "abc"}
	ex.Dispatch(ctx, &commands.ButtonSource{
		Origin:   commands.Origin{Author: "u1"},
		CustomID: prompt.ButtonCustomID(0),
	}, rec)

	assert.Equal(t, []string{"message:doc:String", "button:abc:0"}, doc.Calls())
}

func TestExecutorDeniesRateLimitedSlashCommands(t *testing.T) {
	ex := commands.NewExecutor(logger.NewNop(), commands.RateLimit{PerSecond: 0.001, Burst: 1})
	ping := &slashOnly{}
	require.NoError(t, ex.Register(ping))

	ctx := context.Background()
	src := &commands.SlashSource{Origin: commands.Origin{Author: "u1"}, CommandName: "ping"}

	first := commandstest.NewRecorder()
	ex.Dispatch(ctx, src, first)
	assert.True(t, ping.invoked)

	ping.invoked = false
	second := commandstest.NewRecorder()
	ex.Dispatch(ctx, src, second)
	assert.False(t, ping.invoked)

	sent, ok := second.Last()
	require.True(t, ok)
	assert.Equal(t, commandstest.KindDeny, sent.Kind)
}

func TestExecutorSlashData(t *testing.T) {
	ex := newExecutor(t)
	require.NoError(t, ex.Register(&echoCommand{name: "doc", keyword: parsers.Literal("doc")}))
	require.NoError(t, ex.Register(&slashOnly{}))

	data := ex.SlashData()
	require.Len(t, data, 1)
	assert.Equal(t, "ping", data[0].Name)
}

type fakeRegistrar struct {
	guild string
	data  []commands.SlashData
}

func (f *fakeRegistrar) RegisterGuild(ctx context.Context, guildID string, data []commands.SlashData) error {
	f.guild = guildID
	f.data = data
	return nil
}

func TestUpdateSlashesOwnerOnly(t *testing.T) {
	ex := newExecutor(t)
	registrar := &fakeRegistrar{}
	require.NoError(t, ex.Register(&slashOnly{}))
	require.NoError(t, ex.Register(commands.NewUpdateSlashesCommand(logger.NewNop(), ex, registrar, "owner")))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("someone", "update-slashes"), rec)
	assert.Empty(t, rec.Sent())
	assert.Empty(t, registrar.guild)

	ex.Dispatch(context.Background(), message("owner", "update-slashes"), rec)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Commands in your guild re-registered", last.Response.Content)
	assert.Equal(t, "g1", registrar.guild)
	require.Len(t, registrar.data, 1)
}

func TestHelpListsCommands(t *testing.T) {
	ex := newExecutor(t)
	require.NoError(t, ex.Register(commands.NewHelpCommand(ex)))
	require.NoError(t, ex.Register(&slashOnly{}))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("u1", "help"), rec)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Contains(t, last.Response.Content, "**help** - Show available commands")
	assert.Contains(t, last.Response.Content, "**ping** - Ping")
}

type fixedCounter int

func (f fixedCounter) Len(ctx context.Context) (int, error) { return int(f), nil }

func TestStatusIncludesRuntimeInfo(t *testing.T) {
	ex := newExecutor(t)
	require.NoError(t, ex.Register(commands.NewStatusCommand(fixedCounter(3))))

	rec := commandstest.NewRecorder()
	ex.Dispatch(context.Background(), message("u1", "status"), rec)

	last, ok := rec.Last()
	require.True(t, ok)
	for _, want := range []string{"Version:", "OS:", "Go:", "Uptime:", "Memory:", "Pending choices: 3"} {
		assert.Contains(t, last.Response.Content, want)
	}
}
