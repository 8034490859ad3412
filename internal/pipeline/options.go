package pipeline

import (
	"time"

	"github.com/t4euyoon/keygate/internal/logging"
)

// Option configures a Pipeline.
type Option func(*config)

// config contains configuration for the pipeline.
type config struct {
	// logger receives processing diagnostics.
	logger *logging.Logger

	// waitSlice is how long each Run iteration waits for a device
	// before rechecking the context.
	waitSlice time.Duration

	// resultHandler is called with the outcome of every processed
	// stroke.
	resultHandler func(Result)
}

// defaultConfig returns sensible default configuration.
func defaultConfig() config {
	return config{
		logger:    logging.Discard,
		waitSlice: 50 * time.Millisecond,
	}
}

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWaitSlice sets how long each Run iteration waits for input
// before rechecking the context.
func WithWaitSlice(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.waitSlice = d
		}
	}
}

// WithResultHandler sets a handler invoked with the outcome of every
// processed stroke. It runs on the pipeline goroutine.
func WithResultHandler(h func(Result)) Option {
	return func(c *config) {
		c.resultHandler = h
	}
}
