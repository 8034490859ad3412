package mux

import (
	"errors"
	"sync"
	"time"

	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/logging"
	"github.com/t4euyoon/keygate/internal/stroke"
)

// Multiplexer owns the opened devices and merges their readiness into
// one queue. All methods are safe for concurrent use, though a single
// consumer calling Wait is the intended shape.
type Multiplexer struct {
	opener device.Opener
	logger *logging.Logger
	ports  int

	mu      sync.Mutex
	devices []*device.Device
	ready   chan *device.Device
	done    chan struct{}
	wg      sync.WaitGroup
	open    bool
}

// New creates a multiplexer that opens ports through the given opener.
func New(opener device.Opener, opts ...Option) *Multiplexer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	ports := cfg.portCount
	if ports == 0 {
		ports = device.MaxDevices
	}
	return &Multiplexer{
		opener: opener,
		logger: cfg.logger.WithComponent("mux"),
		ports:  ports,
	}
}

// Open probes every numbered port, keeps the devices that report a
// hardware identity, and starts the readiness pumps. Ports that fail
// to open or report no identity are skipped. Open fails with
// device.ErrNoDevices when nothing could be opened.
func (m *Multiplexer) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		return ErrAlreadyOpen
	}

	var devices []*device.Device
	for i := 0; i < m.ports; i++ {
		path := device.PathFor(i)
		ch, err := m.opener(path)
		if err != nil {
			continue
		}
		dev, err := device.Open(ch)
		if err != nil {
			_ = ch.Close()
			m.logger.Debug("skipping %s: %v", path, err)
			continue
		}
		devices = append(devices, dev)
		m.logger.Debug("opened %s (hwid: %s)", dev.Path(), dev.HardwareID())
	}
	if len(devices) == 0 {
		return device.ErrNoDevices
	}

	m.devices = devices
	m.ready = make(chan *device.Device, len(devices))
	m.done = make(chan struct{})
	for _, dev := range devices {
		m.wg.Add(1)
		go m.pump(dev)
	}
	m.open = true
	m.logger.Info("multiplexing %d devices", len(devices))
	return nil
}

// pump forwards readiness tokens from one device into the merged
// queue until the multiplexer closes or the device channel closes.
func (m *Multiplexer) pump(dev *device.Device) {
	defer m.wg.Done()
	sig := dev.Signal()
	for {
		select {
		case <-m.done:
			return
		case _, ok := <-sig:
			if !ok {
				return
			}
			select {
			case m.ready <- dev:
			case <-m.done:
				return
			}
		}
	}
}

// Wait blocks until some device has strokes pending and returns it.
// A negative timeout blocks indefinitely; zero polls without blocking.
// On timeout it returns ok=false with a nil error, since an idle
// period is not a fault.
func (m *Multiplexer) Wait(timeout time.Duration) (dev *device.Device, ok bool, err error) {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return nil, false, ErrNotOpen
	}
	ready, done := m.ready, m.done
	m.mu.Unlock()

	switch {
	case timeout < 0:
		select {
		case dev := <-ready:
			return dev, true, nil
		case <-done:
			return nil, false, ErrNotOpen
		}
	case timeout == 0:
		select {
		case dev := <-ready:
			return dev, true, nil
		case <-done:
			return nil, false, ErrNotOpen
		default:
			return nil, false, nil
		}
	default:
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case dev := <-ready:
			return dev, true, nil
		case <-done:
			return nil, false, ErrNotOpen
		case <-timer.C:
			return nil, false, nil
		}
	}
}

// Devices returns the opened devices in port order.
func (m *Multiplexer) Devices() []*device.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*device.Device, len(m.devices))
	copy(out, m.devices)
	return out
}

// Device returns the opened device at the given position in the
// opened-device list, or nil when the index is out of range.
func (m *Multiplexer) Device(index int) *device.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.devices) {
		return nil
	}
	return m.devices[index]
}

// Keyboards returns the opened keyboard devices in port order.
func (m *Multiplexer) Keyboards() []*device.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*device.Device
	for _, d := range m.devices {
		if d.IsKeyboard() {
			out = append(out, d)
		}
	}
	return out
}

// Mice returns the opened mouse devices in port order.
func (m *Multiplexer) Mice() []*device.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*device.Device
	for _, d := range m.devices {
		if d.IsMouse() {
			out = append(out, d)
		}
	}
	return out
}

// SetKeyboardFilter installs the filter mask on every keyboard device.
func (m *Multiplexer) SetKeyboardFilter(f stroke.FilterKey) error {
	for _, d := range m.Keyboards() {
		if err := d.SetFilter(uint16(f)); err != nil {
			return err
		}
	}
	return nil
}

// SetMouseFilter installs the filter mask on every mouse device.
func (m *Multiplexer) SetMouseFilter(f stroke.FilterMouse) error {
	for _, d := range m.Mice() {
		if err := d.SetFilter(uint16(f)); err != nil {
			return err
		}
	}
	return nil
}

// SendTo writes a stroke out through the device at the given position
// in the opened-device list.
func (m *Multiplexer) SendTo(index int, s stroke.Stroke) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.devices) {
		m.mu.Unlock()
		return ErrNoSuchDevice
	}
	dev := m.devices[index]
	m.mu.Unlock()
	return dev.Send(s)
}

// IsOpen reports whether Open has succeeded and Close has not run.
func (m *Multiplexer) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Close stops the pumps and closes every device. Close is idempotent.
func (m *Multiplexer) Close() error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return nil
	}
	m.open = false
	close(m.done)
	devices := m.devices
	m.devices = nil
	m.mu.Unlock()

	var errs []error
	for _, dev := range devices {
		if err := dev.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.wg.Wait()
	m.logger.Info("closed %d devices", len(devices))
	return errors.Join(errs...)
}
