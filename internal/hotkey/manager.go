// Package hotkey matches key chords against the physical keyboard
// state and dispatches their actions to a worker pool. The manager
// plugs into the interception pipeline as a listener: a chord whose
// hotkey wants suppression swallows the completing stroke before the
// rest of the system sees it, while the action runs off the pipeline
// goroutine.
package hotkey

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/hotkey/pool"
	"github.com/t4euyoon/keygate/internal/inputstate"
	"github.com/t4euyoon/keygate/internal/logging"
	"github.com/t4euyoon/keygate/internal/pipeline"
	"github.com/t4euyoon/keygate/internal/stroke"
)

// ErrorSink receives action failures and scheduling rejections, such
// as a full queue or a panic delivered as a *pool.PanicError. It may
// run on the pipeline goroutine or a worker goroutine, so it must not
// block and must not call back into the manager.
type ErrorSink func(h *Hotkey, err error)

// Manager owns the registered hotkeys, watches the stroke stream for
// matching chords and runs their actions on a bounded worker pool.
type Manager struct {
	pipe   *pipeline.Pipeline
	pool   *pool.Pool
	logger *logging.Logger
	sink   ErrorSink

	captureKeyboard atomic.Bool
	captureMouse    atomic.Bool
	started         atomic.Bool

	mu      sync.RWMutex
	hotkeys map[string]*Hotkey
	detach  func()
	actx    context.Context
	acancel context.CancelFunc

	matched   atomic.Uint64
	scheduled atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	rejected  atomic.Uint64
}

// Stats is a snapshot of dispatch counters.
type Stats struct {
	// Registered is the number of registered hotkeys.
	Registered int

	// Matched counts chord matches, including matches that could not
	// schedule because the hotkey was still running.
	Matched uint64

	// Scheduled counts actions handed to the pool.
	Scheduled uint64

	// Completed counts finished invocations, successful or not.
	Completed uint64

	// Failed counts invocations that returned an error or panicked.
	Failed uint64

	// Rejected counts matches the pool refused, usually a full queue.
	Rejected uint64

	// Pool is the worker pool snapshot.
	Pool pool.Stats
}

// New creates a manager over the given pipeline. Call Start (or
// Listen) before expecting dispatches.
func New(pipe *pipeline.Pipeline, opts ...Option) *Manager {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &Manager{
		pipe:    pipe,
		logger:  cfg.logger.WithComponent("hotkey"),
		sink:    cfg.sink,
		hotkeys: make(map[string]*Hotkey),
		pool: pool.New(
			pool.WithQueueSize(cfg.queueSize),
			pool.WithWorkers(cfg.workers),
			pool.WithLogger(cfg.logger),
		),
	}
	m.captureKeyboard.Store(cfg.captureKeyboard)
	m.captureMouse.Store(cfg.captureMouse)
	return m
}

// Register binds a key chord to an action. The chord fires whenever
// all of its keys are physically held, regardless of extra held keys.
func (m *Manager) Register(keys []stroke.Key, action Action, opts ...BindOption) (*Hotkey, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	if action == nil {
		return nil, ErrNilAction
	}

	cfg := defaultBindConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	h := newHotkey(keys, action, cfg)

	m.mu.Lock()
	m.hotkeys[h.id] = h
	m.mu.Unlock()

	m.logger.Debug("registered %s", h)
	return h, nil
}

// Unregister removes a hotkey by ID. An in-flight action keeps running
// to completion.
func (m *Manager) Unregister(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotkeys[id]; !ok {
		return ErrUnknownHotkey
	}
	delete(m.hotkeys, id)
	return nil
}

// Hotkeys returns the registered hotkeys in no particular order.
func (m *Manager) Hotkeys() []*Hotkey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Hotkey, 0, len(m.hotkeys))
	for _, h := range m.hotkeys {
		out = append(out, h)
	}
	return out
}

// Len returns the number of registered hotkeys.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hotkeys)
}

// Start starts the worker pool and attaches the manager to the
// pipeline fan-out.
func (m *Manager) Start() error {
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if err := m.pool.Start(); err != nil {
		m.started.Store(false)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.actx = ctx
	m.acancel = cancel
	m.detach = m.pipe.AddListener(m)
	m.mu.Unlock()

	m.logger.Info("hotkey manager started, %d registered", m.Len())
	return nil
}

// Stop detaches from the pipeline, cancels the action context and
// shuts the pool down, waiting for in-flight actions until ctx ends.
func (m *Manager) Stop(ctx context.Context) error {
	if !m.started.CompareAndSwap(true, false) {
		return ErrNotStarted
	}

	m.mu.Lock()
	detach := m.detach
	cancel := m.acancel
	m.detach = nil
	m.acancel = nil
	m.mu.Unlock()

	if detach != nil {
		detach()
	}
	if cancel != nil {
		cancel()
	}
	err := m.pool.Stop(ctx)
	m.logger.Info("hotkey manager stopped")
	return err
}

// IsStarted reports whether the manager is attached and dispatching.
func (m *Manager) IsStarted() bool {
	return m.started.Load()
}

// Listen starts the manager if needed, applies the capture filters and
// drives the pipeline until ctx ends or the device source closes. The
// manager stays started when Listen returns; call Stop to release it.
func (m *Manager) Listen(ctx context.Context) error {
	if err := m.Start(); err != nil && !errors.Is(err, ErrAlreadyStarted) {
		return err
	}
	if err := m.applyFilters(); err != nil {
		return err
	}
	return m.pipe.Run(ctx)
}

// CaptureKeyboard toggles whether keyboards deliver strokes. The
// change takes effect immediately when the device source is open.
func (m *Manager) CaptureKeyboard(enabled bool) error {
	m.captureKeyboard.Store(enabled)
	if !m.pipe.Mux().IsOpen() {
		return nil
	}
	return m.applyFilters()
}

// CaptureMouse toggles whether mice deliver strokes. The change takes
// effect immediately when the device source is open.
func (m *Manager) CaptureMouse(enabled bool) error {
	m.captureMouse.Store(enabled)
	if !m.pipe.Mux().IsOpen() {
		return nil
	}
	return m.applyFilters()
}

// applyFilters programs the device filters from the capture flags.
func (m *Manager) applyFilters() error {
	kb := stroke.FilterKeyNone
	if m.captureKeyboard.Load() {
		kb = stroke.FilterKeyAll
	}
	ms := stroke.FilterMouseNone
	if m.captureMouse.Load() {
		ms = stroke.FilterMouseAll
	}

	mx := m.pipe.Mux()
	if err := mx.SetKeyboardFilter(kb); err != nil {
		return err
	}
	return mx.SetMouseFilter(ms)
}

// OnStroke implements pipeline.Listener. Every stroke is evaluated
// against the hardware pressed-key snapshot: a chord stays active for
// as long as it is fully held, so any stroke processed in that window
// carries its suppress vote and may schedule another run. Every
// matching hotkey contributes its flag, whether or not its action can
// be scheduled.
func (m *Manager) OnStroke(_ *device.Device, _ stroke.Stroke) bool {
	// The pipeline applies transitions to the tracker before fan-out,
	// so the snapshot includes a completing press and already excludes
	// a key whose release broke the chord.
	pressed := m.pipe.Tracker().HardwareKeys()

	m.mu.RLock()
	var matches []*Hotkey
	for _, h := range m.hotkeys {
		if h.Matches(pressed) {
			matches = append(matches, h)
		}
	}
	m.mu.RUnlock()

	suppress := false
	for _, h := range matches {
		m.matched.Add(1)
		if h.suppress {
			suppress = true
		}
		m.schedule(h, pressed)
	}
	return suppress
}

// schedule latches the hotkey running and hands its action to the
// pool. The latch is taken before enqueueing so a follow-up stroke
// cannot double-schedule, and released on any failure to hand off.
func (m *Manager) schedule(h *Hotkey, pressed inputstate.KeySet) {
	if !h.running.CompareAndSwap(false, true) && !h.allowReentry {
		return
	}

	m.mu.RLock()
	ctx := m.actx
	m.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}

	keys := pressed.Keys()
	task := pool.Task{
		Run: func(ctx context.Context) error {
			return h.action(ctx, keys)
		},
		Done: func(err error) {
			// Cleared unconditionally: a failed or panicked action
			// must not wedge the hotkey.
			h.running.Store(false)
			m.completed.Add(1)
			if err != nil {
				m.failed.Add(1)
				m.report(h, err)
			}
		},
	}

	if err := m.pool.Enqueue(ctx, task); err != nil {
		h.running.Store(false)
		m.rejected.Add(1)
		m.report(h, err)
		return
	}
	m.scheduled.Add(1)
}

// report delivers a failure to the error sink, or the log when no
// sink is set.
func (m *Manager) report(h *Hotkey, err error) {
	if m.sink != nil {
		m.sink(h, err)
		return
	}
	m.logger.Error("%s: %v", h, err)
}

// Stats returns a snapshot of dispatch counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Registered: m.Len(),
		Matched:    m.matched.Load(),
		Scheduled:  m.scheduled.Load(),
		Completed:  m.completed.Load(),
		Failed:     m.failed.Load(),
		Rejected:   m.rejected.Load(),
		Pool:       m.pool.Stats(),
	}
}
