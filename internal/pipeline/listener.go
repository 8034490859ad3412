package pipeline

import (
	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/stroke"
)

// Listener observes every stroke before it is passed through. The
// return value is a suppress vote: true swallows the stroke. Listeners
// run on the pipeline goroutine in registration order, so they must
// not block.
type Listener interface {
	OnStroke(dev *device.Device, s stroke.Stroke) (suppress bool)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(dev *device.Device, s stroke.Stroke) bool

// OnStroke implements Listener.
func (f ListenerFunc) OnStroke(dev *device.Device, s stroke.Stroke) bool {
	return f(dev, s)
}
