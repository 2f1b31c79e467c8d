package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Timer measures one operation and logs its duration when stopped.
// Operations slower than the threshold are logged at warn level.
type Timer struct {
	start time.Time
	name  string
	slow  time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

// NewTimer starts a timer. A slow threshold <= 0 disables the warning.
func NewTimer(name string, slow time.Duration, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		slow:  slow,
		log:   log,
		now:   time.Now,
	}
}

// Stop stops the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	return t.StopWithContext(nil)
}

// StopWithContext stops the timer and logs with additional fields
func (t *Timer) StopWithContext(fields map[string]interface{}) time.Duration {
	duration := t.now().Sub(t.start)

	event := t.log.Debug()
	if t.slow > 0 && duration > t.slow {
		event = t.log.Warn()
	}

	event = event.
		Str("operation", t.name).
		Dur("duration_ms", duration)

	for key, value := range fields {
		switch v := value.(type) {
		case string:
			event = event.Str(key, v)
		case int:
			event = event.Int(key, v)
		case int64:
			event = event.Int64(key, v)
		case float64:
			event = event.Float64(key, v)
		case bool:
			event = event.Bool(key, v)
		default:
			event = event.Interface(key, v)
		}
	}

	if t.slow > 0 && duration > t.slow {
		event.Msg("Slow operation detected")
	} else {
		event.Msg("Operation completed")
	}

	return duration
}

// MeasureDBQuery measures database query performance
//
// Usage:
//
//	done := utils.MeasureDBQuery("delete_expired", log)
//	defer func() { done(rows) }()
func MeasureDBQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) {
	start := time.Now()

	return func(rowsAffected int64) {
		duration := time.Since(start)

		log.Debug().
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("Database query completed")

		// Warn on slow queries
		if duration > 5*time.Second {
			log.Warn().
				Str("query", queryName).
				Dur("duration", duration).
				Int64("rows_affected", rowsAffected).
				Msg("Slow database query detected")
		}
	}
}
