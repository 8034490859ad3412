package device

import (
	"fmt"
	"sync"

	"github.com/t4euyoon/keygate/internal/stroke"
)

// SimChannel is an in-memory Channel. Strokes injected with Inject
// become receivable and raise the readiness signal; strokes written
// with Send are recorded for inspection. All methods are safe for
// concurrent use.
type SimChannel struct {
	path string
	hwid string

	mu       sync.Mutex
	queue    []stroke.Stroke
	sent     []stroke.Stroke
	filter   uint16
	recvErr  error
	sendErr  error
	receives int
	closed   bool

	signal chan struct{}
}

// NewSimChannel creates a simulated channel on the numbered port. An
// empty hwid simulates a port with no hardware attached: HardwareID
// fails and the port is skipped during enumeration.
func NewSimChannel(index int, hwid string) *SimChannel {
	return &SimChannel{
		path:   PathFor(index),
		hwid:   hwid,
		signal: make(chan struct{}, 1),
	}
}

// Path returns the driver path of the simulated port.
func (c *SimChannel) Path() string { return c.path }

// HardwareID returns the configured identity, or ErrDeviceUnavailable
// when the port has none.
func (c *SimChannel) HardwareID() (string, error) {
	if c.hwid == "" {
		return "", fmt.Errorf("%s: %w", c.path, ErrDeviceUnavailable)
	}
	return c.hwid, nil
}

// Inject queues a stroke as if the hardware produced it and raises the
// readiness signal.
func (c *SimChannel) Inject(s stroke.Stroke) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	c.queue = append(c.queue, s)
	c.raiseLocked()
	return nil
}

// FailNextReceive makes the next Receive return err instead of a
// stroke, simulating a transport fault, and raises the readiness
// signal so the fault is observed.
func (c *SimChannel) FailNextReceive(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.recvErr = err
	c.raiseLocked()
}

// Receive pops the oldest queued stroke. The readiness signal is
// re-armed when strokes remain, so one token never strands a backlog.
func (c *SimChannel) Receive() (stroke.Stroke, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receives++
	if c.closed {
		return nil, ErrChannelClosed
	}
	if err := c.recvErr; err != nil {
		c.recvErr = nil
		return nil, &IOError{Op: "receive", Path: c.path, Err: err}
	}
	if len(c.queue) == 0 {
		return nil, ErrNoStroke
	}
	s := c.queue[0]
	c.queue = c.queue[1:]
	if len(c.queue) > 0 {
		c.raiseLocked()
	}
	return s, nil
}

// FailNextSend makes the next Send return err instead of recording the
// stroke, simulating a transport fault on the write side.
func (c *SimChannel) FailNextSend(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.sendErr = err
}

// Send records a stroke written out through the port.
func (c *SimChannel) Send(s stroke.Stroke) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	if err := c.sendErr; err != nil {
		c.sendErr = nil
		return err
	}
	c.sent = append(c.sent, s)
	return nil
}

// SetFilter stores the filter mask.
func (c *SimChannel) SetFilter(mask uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	c.filter = mask
	return nil
}

// Filter returns the last filter mask installed with SetFilter.
func (c *SimChannel) Filter() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Sent returns a copy of every stroke written with Send, oldest first.
func (c *SimChannel) Sent() []stroke.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]stroke.Stroke, len(c.sent))
	copy(out, c.sent)
	return out
}

// Pending returns the number of injected strokes not yet received.
func (c *SimChannel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Receives returns how many times Receive has been called on the
// channel, whatever the outcome.
func (c *SimChannel) Receives() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receives
}

// Signal returns the readiness channel.
func (c *SimChannel) Signal() <-chan struct{} { return c.signal }

// Close marks the channel closed and closes the readiness channel so
// waiters unblock. Close is idempotent.
func (c *SimChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.signal)
	return nil
}

// raiseLocked arms the readiness signal without blocking. Callers hold
// c.mu, so the signal channel cannot be closed concurrently.
func (c *SimChannel) raiseLocked() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}

// SimCluster is a bank of simulated channels addressable by port path,
// standing in for the driver's numbered ports during tests and demo
// runs.
type SimCluster struct {
	mu       sync.Mutex
	channels map[string]*SimChannel
}

// NewSimCluster creates an empty cluster. Ports without a channel
// behave like absent hardware: opening them fails.
func NewSimCluster() *SimCluster {
	return &SimCluster{channels: make(map[string]*SimChannel)}
}

// Add creates a simulated channel on the numbered port and returns it.
// Adding a port twice replaces the previous channel.
func (s *SimCluster) Add(index int, hwid string) *SimChannel {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := NewSimChannel(index, hwid)
	s.channels[ch.Path()] = ch
	return ch
}

// AddKeyboard creates a simulated keyboard on the first keyboard port.
func (s *SimCluster) AddKeyboard(hwid string) *SimChannel {
	return s.Add(1, hwid)
}

// AddMouse creates a simulated mouse on the first mouse port.
func (s *SimCluster) AddMouse(hwid string) *SimChannel {
	return s.Add(11, hwid)
}

// Open is an Opener over the cluster's ports.
func (s *SimCluster) Open(path string) (Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrDeviceUnavailable)
	}
	return ch, nil
}

// Channel returns the simulated channel on the numbered port, or nil.
func (s *SimCluster) Channel(index int) *SimChannel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels[PathFor(index)]
}
