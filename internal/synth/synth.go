// Package synth synthesizes keyboard and mouse input. Strokes are
// written through a Sender, normally a device opened by the
// multiplexer, and carry software origin: nothing here touches the
// pressed-state tracker, which only follows what the pipeline
// observes.
package synth

import (
	"math/rand"
	"time"

	"github.com/t4euyoon/keygate/internal/stroke"
)

// Sender writes a stroke out through a device. *device.Device
// satisfies it directly.
type Sender interface {
	Send(s stroke.Stroke) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(s stroke.Stroke) error

// Send implements Sender.
func (f SenderFunc) Send(s stroke.Stroke) error { return f(s) }

// DelayMode selects how inter-stroke pauses are timed.
type DelayMode int

const (
	// DelayFixed pauses for exactly the configured delay.
	DelayFixed DelayMode = iota
	// DelayHuman varies each pause by up to ±10%, approximating a
	// practiced human cadence.
	DelayHuman
)

func (m DelayMode) String() string {
	switch m {
	case DelayFixed:
		return "fixed"
	case DelayHuman:
		return "human"
	default:
		return "unknown"
	}
}

// jitter applies the mode's variation to a base delay.
func jitter(d time.Duration, mode DelayMode) time.Duration {
	if mode != DelayHuman || d <= 0 {
		return d
	}
	f := 0.9 + 0.2*rand.Float64()
	return time.Duration(float64(d) * f)
}
