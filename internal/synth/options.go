package synth

import (
	"time"

	"github.com/t4euyoon/keygate/internal/inputstate"
)

// Option configures a Keyboard or Mouse.
type Option func(*config)

// config contains shared synthesizer configuration.
type config struct {
	// delay is the pause between the strokes of a composite gesture.
	delay time.Duration

	// mode selects fixed or human-like pause timing.
	mode DelayMode

	// tracker, when set, backs the IsPressed queries.
	tracker *inputstate.Tracker

	// sleep performs the pauses. Replaced in tests.
	sleep func(time.Duration)
}

// defaultConfig returns sensible default configuration.
func defaultConfig() config {
	return config{
		delay: 50 * time.Millisecond,
		mode:  DelayFixed,
		sleep: time.Sleep,
	}
}

// WithDelay sets the pause between the strokes of a composite gesture
// such as a tap or a combo. Zero disables pausing.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithDelayMode selects fixed or human-like pause timing.
func WithDelayMode(mode DelayMode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithTracker attaches a pressed-state tracker, enabling the
// IsPressed queries.
func WithTracker(t *inputstate.Tracker) Option {
	return func(c *config) {
		c.tracker = t
	}
}

// WithSleep replaces the pause function.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *config) {
		if fn != nil {
			c.sleep = fn
		}
	}
}
