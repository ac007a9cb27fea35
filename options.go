package qsimgo

import (
	"log/slog"
	"math/rand/v2"

	"github.com/hupe1980/qsimgo/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	memoryLimitBytes int64
	rng              *rand.Rand
	recording        bool
	accelerated      bool
}

// Option configures Register constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &qsimgo.BasicMetricsCollector{}
//	reg, _ := qsimgo.New(2, qsimgo.WithMetricsCollector(metrics))
//	// ... use reg ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := qsimgo.NewJSONLogger(slog.LevelInfo)
//	reg, _ := qsimgo.New(2, qsimgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithController routes amplitude memory and snapshot IO through a shared
// resource controller, so concurrent registers respect one budget.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithMemoryLimit caps this register's amplitude memory in bytes. Exceeding
// the cap fails construction with a typed budget error instead of taking
// down the host.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimitBytes = bytes
	}
}

// WithRand sets the random source for measurements and noise channels.
// Fixing the source makes stochastic circuits reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithRecording enables the circuit tape. Recorded gates can be replayed,
// inverted or exported as OpenQASM via the Tape accessors.
func WithRecording() Option {
	return func(o *options) {
		o.recording = true
	}
}

// WithAccelerated requests the accelerated engine. Construction fails with
// a typed availability error if support is not compiled in or no device is
// present; there is no silent CPU fallback.
func WithAccelerated() Option {
	return func(o *options) {
		o.accelerated = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
