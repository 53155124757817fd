package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"doctor/pkg/commands"
)

func TestConsoleEvent(t *testing.T) {
	prompt := &commands.ChoicePrompt{Command: "doc", InteractionID: "abc"}

	menu, ok := consoleEvent("pick 2", prompt).(*commands.MenuSource)
	if !ok {
		t.Fatalf("expected a menu source")
	}
	if menu.CustomID != "doc abc" || menu.Value != "2" {
		t.Fatalf("unexpected menu source %+v", menu)
	}

	msg, ok := consoleEvent("pick 2", nil).(*commands.MessageSource)
	if !ok {
		t.Fatalf("expected a message source without a prompt")
	}
	if msg.Text != "pick 2" || msg.AuthorID() != consoleUser {
		t.Fatalf("unexpected message source %+v", msg)
	}
}

func TestConsoleSenderPrintsEmbedAndPrompt(t *testing.T) {
	var out bytes.Buffer
	sender := newConsoleSender(&out)

	err := sender.Reply(context.Background(), &commands.Response{
		Embed: &commands.Embed{
			Title:       "java.lang.String",
			Description: "The String class.",
			Fields:      []commands.EmbedField{{Name: "Since", Value: "1.0"}},
			Footer:      "jdk",
		},
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	for _, want := range []string{"== java.lang.String ==", "The String class.", "Since:\n1.0", "-- jdk"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output %q does not contain %q", out.String(), want)
		}
	}
	if sender.lastPrompt() != nil {
		t.Fatalf("expected no prompt")
	}

	prompt := &commands.ChoicePrompt{Command: "doc", InteractionID: "abc"}
	if err := sender.Reply(context.Background(), &commands.Response{Content: "pick one", Prompt: prompt}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if sender.lastPrompt() != prompt {
		t.Fatalf("expected the prompt to be remembered")
	}
	if !strings.Contains(out.String(), "pick <n>") {
		t.Fatalf("expected a pick hint in %q", out.String())
	}
}
