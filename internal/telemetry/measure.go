package telemetry

import (
	"log/slog"
	"time"
)

// Measure logs the duration of an operation. Call it with defer:
//
//	defer telemetry.Measure(logger, "acquire_session")()
func Measure(logger *slog.Logger, op string) func() {
	start := time.Now()
	return func() {
		logger.Info("operation completed",
			slog.String("op", op),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
