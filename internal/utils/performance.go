package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// OperationTimer returns a func that logs how long operation took when called.
// Durations above slowAfter are logged at warn level; zero disables the warning.
//
//	defer utils.OperationTimer("sync_prices", 5*time.Second, log)()
func OperationTimer(operation string, slowAfter time.Duration, log zerolog.Logger) func() time.Duration {
	start := time.Now()

	return func() time.Duration {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		if slowAfter > 0 && duration > slowAfter {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Dur("threshold", slowAfter).
				Msg("Slow operation detected")
		}
		return duration
	}
}
