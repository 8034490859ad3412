package hotkey

import "github.com/t4euyoon/keygate/internal/logging"

// Option configures a Manager.
type Option func(*config)

// config contains configuration for the hotkey manager.
type config struct {
	// logger receives dispatch diagnostics.
	logger *logging.Logger

	// sink receives action failures and scheduling rejections. When
	// nil, failures go to the logger.
	sink ErrorSink

	// queueSize is the worker pool queue size.
	queueSize int

	// workers is the worker pool size.
	workers int

	// captureKeyboard selects whether keyboards deliver strokes while
	// listening.
	captureKeyboard bool

	// captureMouse selects whether mice deliver strokes while
	// listening.
	captureMouse bool
}

// defaultConfig returns sensible default configuration: keyboards
// captured, mice left alone.
func defaultConfig() config {
	return config{
		logger:          logging.Discard,
		queueSize:       64,
		workers:         4,
		captureKeyboard: true,
		captureMouse:    false,
	}
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorSink routes action failures and scheduling rejections to
// sink instead of the logger.
func WithErrorSink(sink ErrorSink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// WithQueueSize sets the action queue size.
func WithQueueSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithWorkers sets the number of action workers.
func WithWorkers(count int) Option {
	return func(c *config) {
		if count > 0 {
			c.workers = count
		}
	}
}

// WithCaptureKeyboard selects whether keyboards deliver strokes while
// listening.
func WithCaptureKeyboard(enabled bool) Option {
	return func(c *config) {
		c.captureKeyboard = enabled
	}
}

// WithCaptureMouse selects whether mice deliver strokes while
// listening.
func WithCaptureMouse(enabled bool) Option {
	return func(c *config) {
		c.captureMouse = enabled
	}
}

// BindOption configures a single hotkey at registration.
type BindOption func(*bindConfig)

// bindConfig contains per-hotkey configuration.
type bindConfig struct {
	suppress     bool
	allowReentry bool
}

func defaultBindConfig() bindConfig {
	return bindConfig{suppress: true}
}

// WithSuppress selects whether strokes completing the chord are
// swallowed instead of passed through. Default true.
func WithSuppress(enabled bool) BindOption {
	return func(c *bindConfig) {
		c.suppress = enabled
	}
}

// WithReentry allows the action to be scheduled again while a previous
// invocation is still running. Default false: follow-up matches during
// a run are ignored.
func WithReentry(enabled bool) BindOption {
	return func(c *bindConfig) {
		c.allowReentry = enabled
	}
}
