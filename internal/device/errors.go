package device

import "errors"

// Sentinel errors for device access.
var (
	// ErrNoDevices is returned when no device port could be opened at all.
	ErrNoDevices = errors.New("no input devices could be opened")

	// ErrDeviceUnavailable is returned when a device port does not exist or
	// reports no hardware identity.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrUnsupportedDevice is returned when receiving from a port whose
	// number maps to neither the keyboard nor the mouse range.
	ErrUnsupportedDevice = errors.New("unsupported device class")

	// ErrChannelClosed is returned for operations on a closed channel.
	ErrChannelClosed = errors.New("device channel is closed")

	// ErrNoStroke is returned when a receive finds no pending stroke.
	// Waking without data is not a fault; callers skip and wait again.
	ErrNoStroke = errors.New("no pending stroke")
)

// IOError wraps a transport failure with the operation and device path.
type IOError struct {
	// Op is the operation that failed: "receive", "send" or "filter".
	Op string

	// Path is the device path the operation targeted.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return "device " + e.Op + " failed for " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}
