package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/logging"
	"github.com/t4euyoon/keygate/internal/synth"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Devices.Ports != device.MaxDevices {
		t.Errorf("Devices.Ports = %d, want %d", cfg.Devices.Ports, device.MaxDevices)
	}
	if !cfg.Capture.Keyboard {
		t.Error("Capture.Keyboard = false, want true")
	}
	if cfg.Capture.Mouse {
		t.Error("Capture.Mouse = true, want false")
	}
	if cfg.Capture.WaitSliceMS != 50 {
		t.Errorf("Capture.WaitSliceMS = %d, want 50", cfg.Capture.WaitSliceMS)
	}
	if cfg.Pool.QueueSize != 64 {
		t.Errorf("Pool.QueueSize = %d, want 64", cfg.Pool.QueueSize)
	}
	if cfg.Pool.Workers != 4 {
		t.Errorf("Pool.Workers = %d, want 4", cfg.Pool.Workers)
	}
	if cfg.Synth.DelayMS != 50 {
		t.Errorf("Synth.DelayMS = %d, want 50", cfg.Synth.DelayMS)
	}
	if cfg.Synth.DelayMode != "fixed" {
		t.Errorf("Synth.DelayMode = %q, want %q", cfg.Synth.DelayMode, "fixed")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.File != "" {
		t.Errorf("Log.File = %q, want empty", cfg.Log.File)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing file", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	doc := `
[devices]
ports = 5

[capture]
mouse = true
wait_slice_ms = 25

[synth]
delay_mode = "human"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Devices.Ports != 5 {
		t.Errorf("Devices.Ports = %d, want 5", cfg.Devices.Ports)
	}
	if !cfg.Capture.Mouse {
		t.Error("Capture.Mouse = false, want true")
	}
	if cfg.Capture.WaitSliceMS != 25 {
		t.Errorf("Capture.WaitSliceMS = %d, want 25", cfg.Capture.WaitSliceMS)
	}
	if cfg.Synth.DelayMode != "human" {
		t.Errorf("Synth.DelayMode = %q, want %q", cfg.Synth.DelayMode, "human")
	}

	// Untouched sections keep their defaults.
	if !cfg.Capture.Keyboard {
		t.Error("Capture.Keyboard = false, want default true")
	}
	if cfg.Pool.QueueSize != 64 {
		t.Errorf("Pool.QueueSize = %d, want default 64", cfg.Pool.QueueSize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, "info")
	}
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	if err := os.WriteFile(path, []byte("this is not toml"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
	}
	if perr.Message == "" {
		t.Error("ParseError.Message is empty")
	}
}

func TestLoadValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	doc := `
[devices]
ports = 99
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Load() error = %v, want *ValidationError", err)
	}
	if verr.Field != "devices.ports" {
		t.Errorf("ValidationError.Field = %q, want %q", verr.Field, "devices.ports")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KEYGATE_DEVICES_PORTS", "3")
	t.Setenv("KEYGATE_CAPTURE_MOUSE", "true")
	t.Setenv("KEYGATE_POOL_WORKERS", "8")
	t.Setenv("KEYGATE_SYNTH_DELAY_MODE", "human")
	t.Setenv("KEYGATE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Devices.Ports != 3 {
		t.Errorf("Devices.Ports = %d, want 3", cfg.Devices.Ports)
	}
	if !cfg.Capture.Mouse {
		t.Error("Capture.Mouse = false, want true")
	}
	if cfg.Pool.Workers != 8 {
		t.Errorf("Pool.Workers = %d, want 8", cfg.Pool.Workers)
	}
	if cfg.Synth.DelayMode != "human" {
		t.Errorf("Synth.DelayMode = %q, want %q", cfg.Synth.DelayMode, "human")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	doc := `
[log]
level = "warn"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("KEYGATE_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want environment override %q", cfg.Log.Level, "error")
	}
}

func TestEnvOverrideParseError(t *testing.T) {
	t.Setenv("KEYGATE_POOL_WORKERS", "many")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() error = nil, want parse failure for bad override")
	}
	if !strings.Contains(err.Error(), "KEYGATE_POOL_WORKERS") {
		t.Errorf("Load() error = %v, want mention of KEYGATE_POOL_WORKERS", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"ports zero", func(c *Config) { c.Devices.Ports = 0 }, "devices.ports"},
		{"ports beyond max", func(c *Config) { c.Devices.Ports = device.MaxDevices + 1 }, "devices.ports"},
		{"wait slice zero", func(c *Config) { c.Capture.WaitSliceMS = 0 }, "capture.wait_slice_ms"},
		{"queue size zero", func(c *Config) { c.Pool.QueueSize = 0 }, "pool.queue_size"},
		{"workers negative", func(c *Config) { c.Pool.Workers = -1 }, "pool.workers"},
		{"delay negative", func(c *Config) { c.Synth.DelayMS = -10 }, "synth.delay_ms"},
		{"unknown delay mode", func(c *Config) { c.Synth.DelayMode = "jittery" }, "synth.delay_mode"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateReportsAllFailures(t *testing.T) {
	cfg := Default()
	cfg.Devices.Ports = 0
	cfg.Pool.Workers = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "devices.ports") || !strings.Contains(msg, "pool.workers") {
		t.Errorf("Validate() = %q, want both field failures reported", msg)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")

	want := Default()
	want.Devices.Ports = 7
	want.Synth.DelayMode = "human"
	want.Log.File = "/tmp/keygate.log"

	if err := want.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() after WriteFile() = %+v, want %+v", got, want)
	}
}

func TestCaptureWaitSlice(t *testing.T) {
	c := CaptureConfig{WaitSliceMS: 75}
	if got := c.WaitSlice(); got != 75*time.Millisecond {
		t.Errorf("WaitSlice() = %v, want 75ms", got)
	}
}

func TestSynthDelayAndMode(t *testing.T) {
	c := SynthConfig{DelayMS: 30, DelayMode: "human"}
	if got := c.Delay(); got != 30*time.Millisecond {
		t.Errorf("Delay() = %v, want 30ms", got)
	}

	tests := []struct {
		mode string
		want synth.DelayMode
	}{
		{"fixed", synth.DelayFixed},
		{"human", synth.DelayHuman},
		{"HUMAN", synth.DelayHuman},
		{"anything else", synth.DelayFixed},
	}
	for _, tt := range tests {
		c := SynthConfig{DelayMode: tt.mode}
		if got := c.Mode(); got != tt.want {
			t.Errorf("Mode() with %q = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestLogParsedLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"INFO", logging.LevelInfo},
		{"Warn", logging.LevelWarn},
		{"error", logging.LevelError},
		{"", logging.LevelInfo},
	}
	for _, tt := range tests {
		c := LogConfig{Level: tt.level}
		if got := c.ParsedLevel(); got != tt.want {
			t.Errorf("ParsedLevel() with %q = %v, want %v", tt.level, got, tt.want)
		}
	}
}
