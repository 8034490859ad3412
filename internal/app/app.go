// Package app wires keygate's components together — configuration,
// logging, devices, the suppression pipeline, input synthesis and the
// hotkey manager — and drives the daemon lifecycle. Every component is
// owned explicitly and threaded through construction; there are no
// package-level singletons.
package app

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/t4euyoon/keygate/internal/config"
	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/hotkey"
	"github.com/t4euyoon/keygate/internal/inputstate"
	"github.com/t4euyoon/keygate/internal/logging"
	"github.com/t4euyoon/keygate/internal/mux"
	"github.com/t4euyoon/keygate/internal/pipeline"
	"github.com/t4euyoon/keygate/internal/synth"
)

// Application is the central coordinator for all keygate components.
type Application struct {
	opts Options

	logger  *logging.Logger
	logFile *os.File

	cfgMu sync.RWMutex
	cfg   config.Config

	// levelOverride pins the log level to the Options value across
	// config reloads.
	levelOverride bool

	sim      *device.SimCluster
	mx       *mux.Multiplexer
	tracker  *inputstate.Tracker
	pipe     *pipeline.Pipeline
	keyboard *synth.Keyboard
	mouse    *synth.Mouse
	hotkeys  *hotkey.Manager
	watcher  *config.Watcher

	mu     sync.Mutex
	cancel context.CancelFunc

	running atomic.Bool
	closed  atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty means defaults
	// plus environment overrides.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Opener opens driver ports. When nil, Simulate selects an
	// in-memory device cluster; without either, New fails.
	Opener device.Opener

	// Simulate runs against simulated devices (one keyboard, one
	// mouse) instead of the interception driver.
	Simulate bool

	// WatchConfig reloads ConfigPath while running and re-applies the
	// capture scopes and log level.
	WatchConfig bool

	// ShutdownTimeout bounds how long Shutdown waits for in-flight
	// hotkey actions. Zero means 5 seconds.
	ShutdownTimeout time.Duration
}

// Stats aggregates component counters for one snapshot.
type Stats struct {
	Pipeline pipeline.Stats
	Hotkeys  hotkey.Stats
	Watcher  config.WatcherStats
}

// New creates the application and initializes every component in
// dependency order. On failure, components initialized so far are torn
// down again.
func New(opts Options) (*Application, error) {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	app := &Application{opts: opts}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run drives the capture loop until Shutdown is called. The hotkey
// manager attaches, capture filters are applied, and strokes flow
// through the suppression pipeline.
func (app *Application) Run() error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(context.Background())
	app.mu.Lock()
	app.cancel = cancel
	app.mu.Unlock()
	defer cancel()

	app.logger.Info("keygate running: %d devices (%d keyboards, %d mice)",
		len(app.mx.Devices()), len(app.mx.Keyboards()), len(app.mx.Mice()))

	err := app.hotkeys.Listen(ctx)
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, mux.ErrNotOpen):
		// Cooperative shutdown paths.
		return nil
	default:
		return err
	}
}

// Shutdown stops the capture loop, drains in-flight hotkey actions
// within the shutdown timeout, and releases devices and files. It is
// safe to call more than once and regardless of whether Run started.
func (app *Application) Shutdown() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}

	app.mu.Lock()
	cancel := app.cancel
	app.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	ctx, cancelTimeout := context.WithTimeout(context.Background(), app.opts.ShutdownTimeout)
	defer cancelTimeout()

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Error("config watcher close: %v", err)
		}
	}
	if app.hotkeys != nil {
		if err := app.hotkeys.Stop(ctx); err != nil && !errors.Is(err, hotkey.ErrNotStarted) {
			app.logger.Error("hotkey manager stop: %v", err)
		}
	}
	if app.mx != nil {
		if err := app.mx.Close(); err != nil {
			app.logger.Error("device close: %v", err)
		}
	}

	app.logger.Info("keygate stopped")
	if app.logFile != nil {
		app.logFile.Close()
	}
}

// applyReload folds a freshly loaded configuration into the running
// daemon. Only the capture scopes and log level take effect at
// runtime; pool sizing and device selection need a restart.
func (app *Application) applyReload(cfg config.Config) {
	if !app.levelOverride {
		app.logger.SetLevel(cfg.Log.ParsedLevel())
	}
	if err := app.hotkeys.CaptureKeyboard(cfg.Capture.Keyboard); err != nil {
		app.logger.Error("re-applying keyboard capture: %v", err)
	}
	if err := app.hotkeys.CaptureMouse(cfg.Capture.Mouse); err != nil {
		app.logger.Error("re-applying mouse capture: %v", err)
	}

	app.cfgMu.Lock()
	app.cfg = cfg
	app.cfgMu.Unlock()
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool { return app.running.Load() }

// Config returns the current effective configuration.
func (app *Application) Config() config.Config {
	app.cfgMu.RLock()
	defer app.cfgMu.RUnlock()
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger { return app.logger }

// Hotkeys returns the hotkey manager for registering bindings.
func (app *Application) Hotkeys() *hotkey.Manager { return app.hotkeys }

// Pipeline returns the suppression pipeline.
func (app *Application) Pipeline() *pipeline.Pipeline { return app.pipe }

// Keyboard returns the keyboard synthesizer, or nil when no keyboard
// device opened.
func (app *Application) Keyboard() *synth.Keyboard { return app.keyboard }

// Mouse returns the mouse synthesizer, or nil when no mouse device
// opened.
func (app *Application) Mouse() *synth.Mouse { return app.mouse }

// Sim returns the simulated device cluster, or nil outside simulate
// mode.
func (app *Application) Sim() *device.SimCluster { return app.sim }

// Stats returns a snapshot of component counters.
func (app *Application) Stats() Stats {
	s := Stats{
		Pipeline: app.pipe.Stats(),
		Hotkeys:  app.hotkeys.Stats(),
	}
	if app.watcher != nil {
		s.Watcher = app.watcher.Stats()
	}
	return s
}
