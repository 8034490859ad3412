package pipeline

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/inputstate"
	"github.com/t4euyoon/keygate/internal/logging"
	"github.com/t4euyoon/keygate/internal/mux"
	"github.com/t4euyoon/keygate/internal/stroke"
)

// Result describes the outcome of one processed stroke.
type Result struct {
	// Device is the device the stroke arrived on.
	Device *device.Device

	// Stroke is the stroke as received, marked hardware-origin.
	Stroke stroke.Stroke

	// Suppressed reports whether any listener voted to suppress.
	Suppressed bool

	// Passed reports whether the stroke was sent back out.
	Passed bool
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	// Received counts strokes pulled off devices.
	Received uint64

	// Suppressed counts strokes swallowed by a listener vote.
	Suppressed uint64

	// Passed counts strokes sent back out to their device.
	Passed uint64

	// Dropped counts strokes not sent back: suppressed strokes plus
	// releases whose press was never passed.
	Dropped uint64

	// ListenerPanics counts recovered listener panics.
	ListenerPanics uint64

	// ReceiveFailures counts device read errors.
	ReceiveFailures uint64

	// SendFailures counts device write errors on pass-through.
	SendFailures uint64
}

// Pipeline pulls strokes from the multiplexer, tracks state, fans out
// to listeners and passes unsuppressed strokes back to their device.
type Pipeline struct {
	mux     *mux.Multiplexer
	tracker *inputstate.Tracker
	logger  *logging.Logger
	cfg     config

	mu        sync.Mutex
	listeners []*registration

	received        atomic.Uint64
	suppressed      atomic.Uint64
	passed          atomic.Uint64
	dropped         atomic.Uint64
	listenerPanics  atomic.Uint64
	receiveFailures atomic.Uint64
	sendFailures    atomic.Uint64
}

// New creates a pipeline over the given multiplexer and tracker.
func New(m *mux.Multiplexer, tracker *inputstate.Tracker, opts ...Option) *Pipeline {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pipeline{
		mux:     m,
		tracker: tracker,
		logger:  cfg.logger.WithComponent("pipeline"),
		cfg:     cfg,
	}
}

// Tracker returns the pressed-state tracker the pipeline updates.
func (p *Pipeline) Tracker() *inputstate.Tracker { return p.tracker }

// Mux returns the device multiplexer the pipeline reads from.
func (p *Pipeline) Mux() *mux.Multiplexer { return p.mux }

// Send writes a stroke straight to the device at the given position in
// the opened-device list. Neither pressed-state set is touched;
// injected strokes only become state when the driver loops them back
// through Receive.
func (p *Pipeline) Send(index int, s stroke.Stroke) error {
	return p.mux.SendTo(index, s)
}

// registration wraps a listener so detach can match by identity even
// for func-backed listeners.
type registration struct {
	l Listener
}

// AddListener appends a listener to the fan-out order and returns a
// function that detaches it again.
func (p *Pipeline) AddListener(l Listener) (detach func()) {
	reg := &registration{l: l}
	p.mu.Lock()
	p.listeners = append(p.listeners, reg)
	p.mu.Unlock()
	return func() { p.removeListener(reg) }
}

// AddListenerFunc appends a function listener to the fan-out order.
func (p *Pipeline) AddListenerFunc(fn ListenerFunc) (detach func()) {
	return p.AddListener(fn)
}

func (p *Pipeline) removeListener(target *registration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, reg := range p.listeners {
		if reg == target {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

// snapshotListeners copies the fan-out order so listener mutation
// during delivery cannot corrupt the iteration.
func (p *Pipeline) snapshotListeners() []Listener {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Listener, len(p.listeners))
	for i, reg := range p.listeners {
		out[i] = reg.l
	}
	return out
}

// Receive runs one pipeline cycle: wait up to timeout for a ready
// device, pull its stroke and process it. It returns (nil, nil) when
// the wait timed out or the wake was spurious; both simply mean there
// was nothing to do. A failed pass-through write returns the result
// together with the write error. A negative timeout waits indefinitely.
func (p *Pipeline) Receive(timeout time.Duration) (*Result, error) {
	dev, ok, err := p.mux.Wait(timeout)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	s, err := dev.Receive()
	if err != nil {
		if errors.Is(err, device.ErrNoStroke) {
			p.logger.Debug("spurious wake on %s", dev.Path())
			return nil, nil
		}
		p.receiveFailures.Add(1)
		p.logger.Error("receive on %s: %v", dev.Path(), err)
		return nil, err
	}

	res, err := p.process(dev, s)
	if p.cfg.resultHandler != nil {
		p.cfg.resultHandler(res)
	}
	return &res, err
}

// process walks one stroke through the five pipeline steps. A failed
// pass-through write is returned after state is updated; the result
// still records the suppression decision.
func (p *Pipeline) process(dev *device.Device, s stroke.Stroke) (Result, error) {
	p.received.Add(1)

	// Step 1: derive the transition, if any.
	change, hasChange := inputstate.FromStroke(s)

	// Step 2: hardware state tracks the physical device unconditionally.
	if hasChange {
		p.tracker.Apply(change, true)
	}

	// Step 3: fan out. Every listener sees every stroke; one suppress
	// vote is final but later listeners still run.
	suppress := false
	for _, l := range p.snapshotListeners() {
		suppress = p.invoke(l, dev, s) || suppress
	}

	// Step 4: decide passage.
	pass := false
	if !suppress {
		switch {
		case !hasChange:
			// Wheel and motion pass through untouched.
			pass = true
		case change.Down:
			pass = true
		default:
			// A release passes only when its press was passed, so
			// suppressed presses never leak orphan releases.
			pass = p.softwareHeld(change)
		}
	}

	// Step 5: passed strokes update software state and go back out.
	var sendErr error
	if pass {
		if hasChange {
			p.tracker.Apply(change, false)
		}
		if sendErr = dev.Send(s); sendErr != nil {
			p.sendFailures.Add(1)
			p.logger.Error("send on %s: %v", dev.Path(), sendErr)
		}
		p.passed.Add(1)
	} else {
		p.dropped.Add(1)
	}
	if suppress {
		p.suppressed.Add(1)
	}

	return Result{Device: dev, Stroke: s, Suppressed: suppress, Passed: pass}, sendErr
}

// softwareHeld reports whether the software state believes the
// transitioning key or button is currently held.
func (p *Pipeline) softwareHeld(c inputstate.Change) bool {
	switch c.Kind {
	case inputstate.ChangeButton:
		return p.tracker.IsButtonPressed(c.Button, false)
	default:
		return p.tracker.IsKeyPressed(c.Key, false)
	}
}

// invoke runs one listener with panic containment. A panicking
// listener votes false and the pipeline keeps running.
func (p *Pipeline) invoke(l Listener, dev *device.Device, s stroke.Stroke) (suppress bool) {
	defer func() {
		if r := recover(); r != nil {
			suppress = false
			p.listenerPanics.Add(1)
			p.logger.Error("listener panic on %s: %v\n%s", dev.Path(), r, debug.Stack())
		}
	}()
	return l.OnStroke(dev, s)
}

// Run processes strokes until the context is cancelled. Wait timeouts
// and spurious wakes are idle cycles; device IO errors are logged and
// processing continues. Run returns when the context ends or the
// multiplexer closes underneath it.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline running")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopped")
			return ctx.Err()
		default:
		}

		_, err := p.Receive(p.cfg.waitSlice)
		if err != nil {
			if errors.Is(err, mux.ErrNotOpen) {
				p.logger.Info("pipeline stopped: device source closed")
				return err
			}
			// Already counted and logged by Receive; keep going.
			continue
		}
	}
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Received:        p.received.Load(),
		Suppressed:      p.suppressed.Load(),
		Passed:          p.passed.Load(),
		Dropped:         p.dropped.Load(),
		ListenerPanics:  p.listenerPanics.Load(),
		ReceiveFailures: p.receiveFailures.Load(),
		SendFailures:    p.sendFailures.Load(),
	}
}
