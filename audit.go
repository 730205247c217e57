package authgate

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/testware-io/authgate/auditlog"
)

// AuditSink receives produced audit events. Emit must not block longer
// than its context allows and must never panic; the dispatcher calls it
// from a single background goroutine.
type AuditSink interface {
	Emit(ctx context.Context, event auditlog.Event)
}

// NoOpSink discards everything.
type NoOpSink struct{}

// Emit implements [AuditSink].
func (NoOpSink) Emit(context.Context, auditlog.Event) {}

// ChannelSink forwards events to a channel, for tests and custom
// consumers.
type ChannelSink struct {
	events chan auditlog.Event
}

// NewChannelSink creates a sink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan auditlog.Event, buffer),
	}
}

// Emit implements [AuditSink].
func (s *ChannelSink) Emit(ctx context.Context, event auditlog.Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receiving side.
func (s *ChannelSink) Events() <-chan auditlog.Event {
	return s.events
}

// JSONWriterSink appends one JSON line per event to a writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink wraps w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit implements [AuditSink]. Marshal or write failures are dropped;
// audit output must never disturb the mutation that triggered it.
func (s *JSONWriterSink) Emit(ctx context.Context, event auditlog.Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
