package api

import (
	"io"
	"log/slog"
)

// CallEvent records one HTTP exchange with the API.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	Attempt   int
	LatencyMs int64
	RequestID string
	Success   bool
	Err       error
}

// Observer receives an event for every completed API call.
type Observer interface {
	OnCall(event CallEvent)
}

// LogObserver writes call events through slog.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

// NewSlogObserver creates an Observer that logs through an existing logger.
func NewSlogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCall(e CallEvent) {
	attrs := []any{
		"method", e.Method,
		"path", e.Path,
		"status", e.Status,
		"attempt", e.Attempt,
		"latency_ms", e.LatencyMs,
		"request_id", e.RequestID,
	}
	if e.Success {
		o.logger.Info("api_call", attrs...)
		return
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err.Error())
	}
	o.logger.Warn("api_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCall(CallEvent) {}
