package telemetry

import (
	"context"
	"log/slog"
	"strings"
)

const redactedPlaceholder = "***REDACTED***"

// redactHandler wraps a slog handler and scrubs known secret values (the
// workspace token, for one) from messages and string attributes.
type redactHandler struct {
	inner   slog.Handler
	secrets []string
}

// WithRedaction wraps logger so that any of the given secret values are
// replaced before a record is written. Empty values are ignored.
func WithRedaction(logger *slog.Logger, secrets ...string) *slog.Logger {
	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return logger
	}
	return slog.New(&redactHandler{inner: logger.Handler(), secrets: kept})
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, record slog.Record) error {
	scrubbed := slog.NewRecord(record.Time, record.Level, h.scrub(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		if a.Value.Kind() == slog.KindString {
			a = slog.String(a.Key, h.scrub(a.Value.String()))
		}
		scrubbed.AddAttrs(a)
		return true
	})
	return h.inner.Handle(ctx, scrubbed)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &redactHandler{inner: h.inner.WithAttrs(attrs), secrets: h.secrets}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{inner: h.inner.WithGroup(name), secrets: h.secrets}
}

func (h *redactHandler) scrub(s string) string {
	for _, secret := range h.secrets {
		s = strings.ReplaceAll(s, secret, redactedPlaceholder)
	}
	return s
}
