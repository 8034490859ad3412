package device

import (
	"fmt"
	"strconv"

	"github.com/t4euyoon/keygate/internal/stroke"
)

// MaxDevices is the number of ports the driver exposes.
const MaxDevices = 20

// Class is the device kind derived from the port number.
type Class int

const (
	ClassUnknown Class = iota
	ClassKeyboard
	ClassMouse
)

func (c Class) String() string {
	switch c {
	case ClassKeyboard:
		return "keyboard"
	case ClassMouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// PathFor returns the driver path of the numbered port, zero-padded to
// two digits.
func PathFor(index int) string {
	return fmt.Sprintf(`\\.\interception%02d`, index)
}

// Classify derives the device class from the trailing two digits of a
// port path: 1-10 keyboard, 11-20 mouse, anything else unknown.
func Classify(path string) Class {
	if len(path) < 2 {
		return ClassUnknown
	}
	n, err := strconv.Atoi(path[len(path)-2:])
	if err != nil {
		return ClassUnknown
	}
	switch {
	case n >= 1 && n <= 10:
		return ClassKeyboard
	case n >= 11 && n <= 20:
		return ClassMouse
	default:
		return ClassUnknown
	}
}

// Channel is the raw transport to one driver port. Implementations
// must be safe for concurrent use; the simulated implementation is
// SimChannel, the only one this build ships.
type Channel interface {
	// Path returns the driver path of the port.
	Path() string

	// HardwareID returns the identity string of the attached hardware,
	// or an error when the port has no device behind it.
	HardwareID() (string, error)

	// Receive pops the next pending stroke. It returns ErrNoStroke when
	// the queue is empty and ErrChannelClosed after Close.
	Receive() (stroke.Stroke, error)

	// Send writes a stroke back out through the port.
	Send(s stroke.Stroke) error

	// SetFilter installs the event filter mask for the port.
	SetFilter(mask uint16) error

	// Signal returns the readiness channel. It carries a token whenever
	// strokes are pending and is closed when the channel closes.
	Signal() <-chan struct{}

	// Close releases the port. Further operations fail with
	// ErrChannelClosed.
	Close() error
}

// Opener opens the channel for one port path. It stands in for the
// driver's per-port open call; ports that do not exist return an error
// and are skipped during enumeration.
type Opener func(path string) (Channel, error)

// Device is an opened port: a channel plus the classification and
// hardware identity captured at open time.
type Device struct {
	path  string
	class Class
	hwid  string
	ch    Channel
}

// Open wraps a channel into a Device. It queries the hardware identity
// and fails when none is reported, so ports without real hardware
// behind them never become devices. The caller closes the channel on
// error.
func Open(ch Channel) (*Device, error) {
	hwid, err := ch.HardwareID()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ch.Path(), err)
	}
	return &Device{
		path:  ch.Path(),
		class: Classify(ch.Path()),
		hwid:  hwid,
		ch:    ch,
	}, nil
}

// Path returns the driver path of the device port.
func (d *Device) Path() string { return d.path }

// Class returns the device class derived from the port number.
func (d *Device) Class() Class { return d.class }

// HardwareID returns the identity string captured at open time.
func (d *Device) HardwareID() string { return d.hwid }

// IsKeyboard reports whether the port number is in the keyboard range.
func (d *Device) IsKeyboard() bool { return d.class == ClassKeyboard }

// IsMouse reports whether the port number is in the mouse range.
func (d *Device) IsMouse() bool { return d.class == ClassMouse }

// Signal returns the readiness channel of the underlying transport.
func (d *Device) Signal() <-chan struct{} { return d.ch.Signal() }

// Receive reads the next pending stroke. Strokes whose information
// word is zero were generated by real hardware and are marked so; a
// non-zero word means another piece of software injected the stroke
// into the driver, and it keeps its software origin. Receiving from an
// unclassified port fails with ErrUnsupportedDevice.
func (d *Device) Receive() (stroke.Stroke, error) {
	if d.class == ClassUnknown {
		return nil, fmt.Errorf("receive from %s: %w", d.path, ErrUnsupportedDevice)
	}
	s, err := d.ch.Receive()
	if err != nil {
		return nil, err
	}
	switch st := s.(type) {
	case stroke.KeyStroke:
		if st.Information() == 0 {
			return st.AsHardware(), nil
		}
		return st, nil
	case stroke.MouseStroke:
		if st.Info == 0 {
			return st.AsHardware(), nil
		}
		return st, nil
	default:
		return s, nil
	}
}

// Send writes a stroke out through the device port.
func (d *Device) Send(s stroke.Stroke) error {
	if err := d.ch.Send(s); err != nil {
		return &IOError{Op: "send", Path: d.path, Err: err}
	}
	return nil
}

// SetFilter installs the event filter mask on the device port.
func (d *Device) SetFilter(mask uint16) error {
	if err := d.ch.SetFilter(mask); err != nil {
		return &IOError{Op: "filter", Path: d.path, Err: err}
	}
	return nil
}

// Close releases the device port.
func (d *Device) Close() error {
	return d.ch.Close()
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s)", d.path, d.class)
}
