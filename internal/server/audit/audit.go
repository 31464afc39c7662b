// Package audit records authentication events. Events are handed to a Sink
// through an asynchronous Dispatcher so that a slow sink never delays a login.
package audit

import (
	"context"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/logging"
)

// Event types.
const (
	EventNonceIssued = "nonce_issued"
	EventLogin       = "login"
	EventOTPRotated  = "otp_rotated"
)

// Event is a single audit record. The raw client identifier is never
// stored: Audience carries its one-way hash.
type Event struct {
	Timestamp time.Time
	Type      string
	Method    string
	Audience  string
	Host      string
	Username  string
	Success   bool
	Error     string
}

// Sink consumes events. Implementations handle their own failures.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// LogSink writes events to a structured logger.
type LogSink struct {
	log logging.Logger
}

func NewLogSink(log logging.Logger) *LogSink {
	return &LogSink{log: log.With("module", "audit")}
}

func (s *LogSink) Emit(ctx context.Context, e Event) {
	args := []any{
		"type", e.Type,
		"success", e.Success,
		"timestamp", e.Timestamp,
	}
	if e.Method != "" {
		args = append(args, "method", e.Method)
	}
	if e.Audience != "" {
		args = append(args, "audience", e.Audience)
	}
	if e.Host != "" {
		args = append(args, "host", e.Host)
	}
	if e.Username != "" {
		args = append(args, "username", e.Username)
	}
	if e.Error != "" {
		args = append(args, "error", e.Error)
	}
	s.log.Info(ctx, "audit event", args...)
}
