// Package config loads keygate's configuration. The effective
// configuration is built in layers: compiled-in defaults, then an
// optional TOML file, then KEYGATE_* environment overrides, and the
// result is validated before anything else sees it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/logging"
	"github.com/t4euyoon/keygate/internal/synth"
)

// Config is the root configuration document.
type Config struct {
	Devices DevicesConfig `toml:"devices"`
	Capture CaptureConfig `toml:"capture"`
	Pool    PoolConfig    `toml:"pool"`
	Synth   SynthConfig   `toml:"synth"`
	Log     LogConfig     `toml:"log"`
}

// DevicesConfig controls how driver ports are opened.
type DevicesConfig struct {
	// Ports is how many driver ports are probed, starting at port 1.
	Ports int `toml:"ports"`
}

// CaptureConfig controls which device classes deliver strokes and how
// the capture loop paces itself.
type CaptureConfig struct {
	// Keyboard enables keyboard capture.
	Keyboard bool `toml:"keyboard"`
	// Mouse enables mouse capture.
	Mouse bool `toml:"mouse"`
	// WaitSliceMS is how long one capture iteration waits for input
	// before re-checking for shutdown, in milliseconds.
	WaitSliceMS int `toml:"wait_slice_ms"`
}

// PoolConfig sizes the hotkey action pool.
type PoolConfig struct {
	// QueueSize is the pending action queue capacity.
	QueueSize int `toml:"queue_size"`
	// Workers is the number of goroutines running actions.
	Workers int `toml:"workers"`
}

// SynthConfig controls synthesized input pacing.
type SynthConfig struct {
	// DelayMS is the pause between synthesized strokes, in
	// milliseconds.
	DelayMS int `toml:"delay_ms"`
	// DelayMode is "fixed" for exact pauses or "human" for jittered
	// ones.
	DelayMode string `toml:"delay_mode"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File is the log destination path. Empty logs to stderr.
	File string `toml:"file"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Devices: DevicesConfig{Ports: device.MaxDevices},
		Capture: CaptureConfig{Keyboard: true, Mouse: false, WaitSliceMS: 50},
		Pool:    PoolConfig{QueueSize: 64, Workers: 4},
		Synth:   SynthConfig{DelayMS: 50, DelayMode: "fixed"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load builds the effective configuration from path. A missing file is
// not an error; defaults and environment overrides still apply. An
// empty path skips the file layer entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// WriteFile marshals the configuration to path. Used to seed a config
// file a user can then edit.
func (c Config) WriteFile(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Environment overrides. Each variable maps onto one field; values
// that fail to parse are errors, not silently ignored.
func applyEnv(cfg *Config) error {
	var errs []error

	lookInt := func(name string, dst *int) {
		v, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, envError(name, v, err))
			return
		}
		*dst = n
	}
	lookBool := func(name string, dst *bool) {
		v, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, envError(name, v, err))
			return
		}
		*dst = b
	}
	lookString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	lookInt("KEYGATE_DEVICES_PORTS", &cfg.Devices.Ports)
	lookBool("KEYGATE_CAPTURE_KEYBOARD", &cfg.Capture.Keyboard)
	lookBool("KEYGATE_CAPTURE_MOUSE", &cfg.Capture.Mouse)
	lookInt("KEYGATE_CAPTURE_WAIT_SLICE_MS", &cfg.Capture.WaitSliceMS)
	lookInt("KEYGATE_POOL_QUEUE_SIZE", &cfg.Pool.QueueSize)
	lookInt("KEYGATE_POOL_WORKERS", &cfg.Pool.Workers)
	lookInt("KEYGATE_SYNTH_DELAY_MS", &cfg.Synth.DelayMS)
	lookString("KEYGATE_SYNTH_DELAY_MODE", &cfg.Synth.DelayMode)
	lookString("KEYGATE_LOG_LEVEL", &cfg.Log.Level)
	lookString("KEYGATE_LOG_FILE", &cfg.Log.File)

	return errors.Join(errs...)
}

func envError(name, value string, err error) error {
	return fmt.Errorf("config: environment override %s=%q: %w", name, value, err)
}

// Validate checks every field and reports all failures at once.
func (c Config) Validate() error {
	var errs []error

	if c.Devices.Ports < 1 || c.Devices.Ports > device.MaxDevices {
		errs = append(errs, &ValidationError{
			Field:   "devices.ports",
			Value:   c.Devices.Ports,
			Message: fmt.Sprintf("must be between 1 and %d", device.MaxDevices),
		})
	}
	if c.Capture.WaitSliceMS < 1 {
		errs = append(errs, &ValidationError{
			Field:   "capture.wait_slice_ms",
			Value:   c.Capture.WaitSliceMS,
			Message: "must be positive",
		})
	}
	if c.Pool.QueueSize < 1 {
		errs = append(errs, &ValidationError{
			Field:   "pool.queue_size",
			Value:   c.Pool.QueueSize,
			Message: "must be positive",
		})
	}
	if c.Pool.Workers < 1 {
		errs = append(errs, &ValidationError{
			Field:   "pool.workers",
			Value:   c.Pool.Workers,
			Message: "must be positive",
		})
	}
	if c.Synth.DelayMS < 0 {
		errs = append(errs, &ValidationError{
			Field:   "synth.delay_ms",
			Value:   c.Synth.DelayMS,
			Message: "must not be negative",
		})
	}
	switch c.Synth.DelayMode {
	case "fixed", "human":
	default:
		errs = append(errs, &ValidationError{
			Field:   "synth.delay_mode",
			Value:   c.Synth.DelayMode,
			Message: `must be "fixed" or "human"`,
		})
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: "must be debug, info, warn or error",
		})
	}

	return errors.Join(errs...)
}

// WaitSlice returns the capture wait slice as a duration.
func (c CaptureConfig) WaitSlice() time.Duration {
	return time.Duration(c.WaitSliceMS) * time.Millisecond
}

// Delay returns the synthesis pause as a duration.
func (c SynthConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Mode returns the parsed delay mode. Call Validate first; unknown
// strings fall back to fixed pacing.
func (c SynthConfig) Mode() synth.DelayMode {
	if strings.EqualFold(c.DelayMode, "human") {
		return synth.DelayHuman
	}
	return synth.DelayFixed
}

// ParsedLevel returns the parsed log level. Unknown strings fall back
// to info, matching logging.ParseLevel.
func (c LogConfig) ParsedLevel() logging.Level {
	return logging.ParseLevel(strings.ToLower(c.Level))
}
