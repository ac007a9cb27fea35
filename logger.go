package qsimgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with qsimgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithNumQubits adds a numQubits field to the logger.
func (l *Logger) WithNumQubits(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("numQubits", n),
	}
}

// WithRunID adds a runID field to the logger (useful for tagging
// optimization runs).
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("runID", id),
	}
}

// LogGate logs a gate application.
func (l *Logger) LogGate(ctx context.Context, name string, qubits []int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "gate failed",
			"gate", name,
			"qubits", qubits,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "gate applied",
			"gate", name,
			"qubits", qubits,
		)
	}
}

// LogMeasure logs a projective measurement.
func (l *Logger) LogMeasure(ctx context.Context, qubit, outcome int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "measurement failed",
			"qubit", qubit,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "measurement completed",
			"qubit", qubit,
			"outcome", outcome,
		)
	}
}

// LogExpectation logs an expectation value evaluation.
func (l *Logger) LogExpectation(ctx context.Context, pauliString string, value float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "expectation evaluation failed",
			"pauli", pauliString,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "expectation evaluated",
			"pauli", pauliString,
			"value", value,
		)
	}
}

// LogMinimize logs the outcome of an optimization run.
func (l *Logger) LogMinimize(ctx context.Context, iterations int, energy float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "minimization failed",
			"iterations", iterations,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "minimization completed",
			"iterations", iterations,
			"energy", energy,
		)
	}
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
		)
	}
}
