package observability

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "OK"
	SpanStatusError SpanStatus = "ERROR"
)

// Span times one operation: a request, a dataset load, a reload. Child spans
// share the trace id of the span found in their context.
type Span struct {
	TraceID   string
	SpanID    string
	ParentID  string
	Operation string
	StartTime time.Time
	Duration  time.Duration
	Status    SpanStatus
	Err       error

	attrs    []slog.Attr
	ctx      context.Context
	finished bool
}

type spanContextKey struct{}

func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		TraceID:   newID(),
		SpanID:    newID(),
		Operation: operation,
		StartTime: time.Now(),
		Status:    SpanStatusOK,
	}
	if parent := GetSpan(ctx); parent != nil {
		span.TraceID = parent.TraceID
		span.ParentID = parent.SpanID
	}

	ctx = context.WithValue(ctx, spanContextKey{}, span)
	span.ctx = ctx
	return ctx, span
}

func GetSpan(ctx context.Context) *Span {
	span, _ := ctx.Value(spanContextKey{}).(*Span)
	return span
}

// SetTag attaches an attribute reported when the span finishes.
func (s *Span) SetTag(key string, value any) {
	s.attrs = append(s.attrs, slog.Any(key, value))
}

func (s *Span) SetError(err error) {
	s.Status = SpanStatusError
	s.Err = err
}

// Finish records the duration and logs the span at debug level. Only the
// first call has any effect.
func (s *Span) Finish() {
	if s.finished {
		return
	}
	s.finished = true
	s.Duration = time.Since(s.StartTime)

	attrs := []slog.Attr{
		slog.String("trace_id", s.TraceID),
		slog.String("span_id", s.SpanID),
		slog.String("operation", s.Operation),
		slog.Duration("duration", s.Duration),
		slog.String("status", string(s.Status)),
	}
	if s.ParentID != "" {
		attrs = append(attrs, slog.String("parent_id", s.ParentID))
	}
	if len(s.attrs) > 0 {
		attrs = append(attrs, slog.Attr{Key: "tags", Value: slog.GroupValue(s.attrs...)})
	}
	if s.Err != nil {
		attrs = append(attrs, slog.String("error", s.Err.Error()))
	}
	slog.Default().LogAttrs(s.ctx, slog.LevelDebug, "span finished", attrs...)
}

// newID returns 16 hex characters taken from a random UUID.
func newID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
