package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/t4euyoon/keygate/internal/logging"
)

// WatcherOption configures a Watcher.
type WatcherOption func(*watcherConfig)

type watcherConfig struct {
	logger  *logging.Logger
	delay   time.Duration
	onError func(error)
}

func defaultWatcherConfig() watcherConfig {
	return watcherConfig{
		logger: logging.Discard,
		delay:  200 * time.Millisecond,
	}
}

// WithLogger sets the logger used by the watcher.
func WithLogger(logger *logging.Logger) WatcherOption {
	return func(c *watcherConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce sets how long the watcher waits after the last change
// before reloading. Rapid write bursts coalesce into one reload.
func WithDebounce(delay time.Duration) WatcherOption {
	return func(c *watcherConfig) {
		if delay > 0 {
			c.delay = delay
		}
	}
}

// WithErrorHandler routes reload and watch failures to fn instead of
// the logger. fn runs on the watcher goroutine and must not block.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(c *watcherConfig) {
		c.onError = fn
	}
}

// WatcherStats is a point-in-time snapshot of watcher counters.
type WatcherStats struct {
	// Reloads counts successful configuration reloads.
	Reloads uint64
	// Failures counts reload and watch errors.
	Failures uint64
}

// Watcher reloads the configuration file when it changes on disk and
// hands the result to a callback. The parent directory is watched
// rather than the file itself, so editors that replace the file by
// rename keep triggering reloads.
type Watcher struct {
	path     string
	delay    time.Duration
	logger   *logging.Logger
	onReload func(Config)
	onError  func(error)

	fsw *fsnotify.Watcher

	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup

	reloads  atomic.Uint64
	failures atomic.Uint64
}

// NewWatcher starts watching path and calls onReload with each freshly
// loaded configuration. onReload runs on the watcher goroutine; it
// must not block and must not call Close.
func NewWatcher(path string, onReload func(Config), opts ...WatcherOption) (*Watcher, error) {
	if onReload == nil {
		return nil, ErrNilHandler
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}

	cfg := defaultWatcherConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		delay:    cfg.delay,
		logger:   cfg.logger.WithComponent("config"),
		onReload: onReload,
		onError:  cfg.onError,
		fsw:      fsw,
		closeCh:  make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.loop()

	w.logger.Info("watching %s", w.path)
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string { return w.path }

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	return WatcherStats{
		Reloads:  w.reloads.Load(),
		Failures: w.failures.Load(),
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()
	return err
}

// loop owns all debounce state. Reloads run here, so Close's wait
// covers any reload in progress.
func (w *Watcher) loop() {
	defer w.closedWg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
				fire = timer.C
			} else {
				timer.Reset(w.delay)
			}

		case <-fire:
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.fail(fmt.Errorf("config: watch %s: %w", w.path, err))
		}
	}
}

// relevant filters directory events down to changes of the config
// file itself. Create covers the rename-into-place pattern editors
// use for atomic saves.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.fail(fmt.Errorf("config: reload %s: %w", w.path, err))
		return
	}
	w.reloads.Add(1)
	w.logger.Info("configuration reloaded from %s", w.path)
	w.onReload(cfg)
}

func (w *Watcher) fail(err error) {
	w.failures.Add(1)
	if w.onError != nil {
		w.onError(err)
		return
	}
	w.logger.Error("%v", err)
}
