package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// Setup installs the global logger: JSON on stdout plus any extra sinks,
// such as the PGHandler once the database is up.
func Setup(sinks ...slog.Handler) {
	slog.SetDefault(New(os.Stdout, sinks...))
}

// New returns a logger writing JSON to w and fanning records out to sinks.
func New(w io.Writer, sinks ...slog.Handler) *slog.Logger {
	if len(sinks) == 0 {
		return slog.New(NewJSONHandler(w))
	}
	handlers := append([]slog.Handler{NewJSONHandler(w)}, sinks...)
	return slog.New(&fanout{handlers: handlers})
}

func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// fanout passes each record to every handler that accepts its level. A sink
// that fails does not keep the record from the others.
type fanout struct {
	handlers []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanout) each(derive func(slog.Handler) slog.Handler) *fanout {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = derive(h)
	}
	return &fanout{handlers: handlers}
}
