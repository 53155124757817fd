// Package commandstest provides a Sender that records what a command sent.
package commandstest

import (
	"context"
	"sync"

	"doctor/pkg/commands"
)

// Kind says which Sender method produced a Sent entry.
type Kind string

const (
	KindReply       Kind = "reply"
	KindEditOrReply Kind = "edit_or_reply"
	KindDeny        Kind = "deny"
)

// Sent is one recorded call.
type Sent struct {
	Kind     Kind
	Response *commands.Response
}

// Recorder implements commands.Sender in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Reply(ctx context.Context, resp *commands.Response) error {
	r.record(KindReply, resp)
	return nil
}

func (r *Recorder) EditOrReply(ctx context.Context, resp *commands.Response) error {
	r.record(KindEditOrReply, resp)
	return nil
}

func (r *Recorder) Deny(ctx context.Context, text string) error {
	r.record(KindDeny, &commands.Response{Content: text})
	return nil
}

func (r *Recorder) record(kind Kind, resp *commands.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{Kind: kind, Response: resp})
}

// Sent returns a copy of every recorded call in order.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}

// Last returns the most recent call.
func (r *Recorder) Last() (Sent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Sent{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
