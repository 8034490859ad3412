package mux

import "github.com/t4euyoon/keygate/internal/logging"

// Option configures a Multiplexer.
type Option func(*config)

// config contains configuration for the multiplexer.
type config struct {
	// logger receives open, close and pump diagnostics.
	logger *logging.Logger

	// portCount is the number of numbered ports to probe on Open.
	portCount int
}

// defaultConfig returns sensible default configuration.
func defaultConfig() config {
	return config{
		logger:    logging.Discard,
		portCount: 0, // resolved to device.MaxDevices in New
	}
}

// WithLogger sets the logger for multiplexer diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPortCount limits how many numbered ports Open probes.
func WithPortCount(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.portCount = n
		}
	}
}
