package app

import (
	"io"
	"os"
	"strings"

	"github.com/t4euyoon/keygate/internal/config"
	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/hotkey"
	"github.com/t4euyoon/keygate/internal/inputstate"
	"github.com/t4euyoon/keygate/internal/logging"
	"github.com/t4euyoon/keygate/internal/mux"
	"github.com/t4euyoon/keygate/internal/pipeline"
	"github.com/t4euyoon/keygate/internal/synth"
)

// bootstrapper initializes components in dependency order and tears
// down the ones already up when a later step fails.
type bootstrapper struct {
	app  *Application
	opts Options
	undo []func()
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{app: app, opts: opts}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		init func() error
	}{
		{"config", b.initConfig},
		{"logging", b.initLogging},
		{"devices", b.initDevices},
		{"pipeline", b.initPipeline},
		{"synth", b.initSynth},
		{"hotkeys", b.initHotkeys},
		{"config watcher", b.initWatcher},
	}

	for _, step := range steps {
		if err := step.init(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
	}
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.undo) - 1; i >= 0; i-- {
		b.undo[i]()
	}
}

func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return err
	}
	b.app.cfg = cfg
	return nil
}

func (b *bootstrapper) initLogging() error {
	cfg := b.app.cfg

	out := io.Writer(os.Stderr)
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		b.app.logFile = f
		b.undo = append(b.undo, func() { f.Close() })
		out = f
	}

	level := cfg.Log.ParsedLevel()
	if b.opts.LogLevel != "" {
		level = logging.ParseLevel(strings.ToLower(b.opts.LogLevel))
		b.app.levelOverride = true
	}

	b.app.logger = logging.New(logging.Config{Level: level, Output: out, Prefix: "keygate"})
	return nil
}

func (b *bootstrapper) initDevices() error {
	opener := b.opts.Opener
	if opener == nil {
		if !b.opts.Simulate {
			return ErrNoOpener
		}
		sim := device.NewSimCluster()
		sim.AddKeyboard("sim/keyboard0")
		sim.AddMouse("sim/mouse0")
		b.app.sim = sim
		opener = sim.Open
	}

	m := mux.New(opener,
		mux.WithPortCount(b.app.cfg.Devices.Ports),
		mux.WithLogger(b.app.logger),
	)
	if err := m.Open(); err != nil {
		return err
	}
	b.app.mx = m
	b.undo = append(b.undo, func() { m.Close() })
	return nil
}

func (b *bootstrapper) initPipeline() error {
	b.app.tracker = inputstate.NewTracker()
	b.app.pipe = pipeline.New(b.app.mx, b.app.tracker,
		pipeline.WithLogger(b.app.logger),
		pipeline.WithWaitSlice(b.app.cfg.Capture.WaitSlice()),
		pipeline.WithResultHandler(b.app.traceResult),
	)
	return nil
}

func (b *bootstrapper) initSynth() error {
	opts := []synth.Option{
		synth.WithDelay(b.app.cfg.Synth.Delay()),
		synth.WithDelayMode(b.app.cfg.Synth.Mode()),
		synth.WithTracker(b.app.tracker),
	}
	if kbds := b.app.mx.Keyboards(); len(kbds) > 0 {
		b.app.keyboard = synth.NewKeyboard(kbds[0], opts...)
	}
	if mice := b.app.mx.Mice(); len(mice) > 0 {
		b.app.mouse = synth.NewMouse(mice[0], opts...)
	}
	return nil
}

func (b *bootstrapper) initHotkeys() error {
	cfg := b.app.cfg
	b.app.hotkeys = hotkey.New(b.app.pipe,
		hotkey.WithLogger(b.app.logger),
		hotkey.WithQueueSize(cfg.Pool.QueueSize),
		hotkey.WithWorkers(cfg.Pool.Workers),
		hotkey.WithCaptureKeyboard(cfg.Capture.Keyboard),
		hotkey.WithCaptureMouse(cfg.Capture.Mouse),
	)
	return nil
}

func (b *bootstrapper) initWatcher() error {
	if !b.opts.WatchConfig || b.opts.ConfigPath == "" {
		return nil
	}
	w, err := config.NewWatcher(b.opts.ConfigPath, b.app.applyReload,
		config.WithLogger(b.app.logger))
	if err != nil {
		return err
	}
	b.app.watcher = w
	b.undo = append(b.undo, func() { w.Close() })
	return nil
}

// traceResult logs each processed stroke at debug level, the capture
// loop's trace output.
func (app *Application) traceResult(res pipeline.Result) {
	app.logger.Debug("%s on %s: suppressed=%t passed=%t",
		res.Stroke, res.Device.Path(), res.Suppressed, res.Passed)
}
