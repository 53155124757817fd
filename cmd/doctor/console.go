package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"doctor/pkg/commands"
)

// consoleUser is the author id of events typed on the terminal.
const consoleUser = "console"

// consoleSender prints responses to a terminal and remembers the last
// choice prompt so it can be answered with "pick <n>".
type consoleSender struct {
	out io.Writer

	mu     sync.Mutex
	prompt *commands.ChoicePrompt
}

func newConsoleSender(out io.Writer) *consoleSender {
	return &consoleSender{out: out}
}

func (s *consoleSender) Reply(ctx context.Context, resp *commands.Response) error {
	s.print(resp)
	return nil
}

func (s *consoleSender) EditOrReply(ctx context.Context, resp *commands.Response) error {
	s.print(resp)
	return nil
}

func (s *consoleSender) Deny(ctx context.Context, text string) error {
	_, err := fmt.Fprintf(s.out, "(only you can see this) %s\n", text)
	return err
}

// lastPrompt returns the most recent unanswered prompt.
func (s *consoleSender) lastPrompt() *commands.ChoicePrompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

func (s *consoleSender) print(resp *commands.Response) {
	var b strings.Builder
	if resp.Content != "" {
		b.WriteString(resp.Content)
		b.WriteString("\n")
	}
	if e := resp.Embed; e != nil {
		if e.Title != "" {
			fmt.Fprintf(&b, "== %s ==\n", e.Title)
		}
		if e.URL != "" {
			fmt.Fprintf(&b, "<%s>\n", e.URL)
		}
		if e.Description != "" {
			fmt.Fprintf(&b, "%s\n", e.Description)
		}
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "\n%s:\n%s\n", f.Name, f.Value)
		}
		if e.Footer != "" {
			fmt.Fprintf(&b, "\n-- %s\n", e.Footer)
		}
	}

	s.mu.Lock()
	s.prompt = resp.Prompt
	s.mu.Unlock()
	if resp.Prompt != nil {
		b.WriteString("(answer with: pick <n>)\n")
	}

	fmt.Fprint(s.out, b.String())
}

// consoleEvent turns a line typed on the terminal into an event. "pick <n>"
// clicks choice n of the last prompt; anything else is a message.
func consoleEvent(line string, prompt *commands.ChoicePrompt) commands.Source {
	origin := commands.Origin{Author: consoleUser, Channel: consoleUser}

	if choice, ok := strings.CutPrefix(line, "pick "); ok && prompt != nil {
		choice = strings.TrimSpace(choice)
		return &commands.MenuSource{Origin: origin, CustomID: prompt.MenuCustomID(), Value: choice}
	}
	return &commands.MessageSource{Origin: origin, Text: line}
}
