package synth

import "github.com/t4euyoon/keygate/internal/stroke"

// Keyboard synthesizes keyboard input through a Sender.
type Keyboard struct {
	sender Sender
	cfg    config
}

// NewKeyboard creates a keyboard synthesizer writing through the
// given sender.
func NewKeyboard(sender Sender, opts ...Option) *Keyboard {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Keyboard{sender: sender, cfg: cfg}
}

// Press sends a key-down stroke.
func (k *Keyboard) Press(key stroke.Key) error {
	return k.sender.Send(stroke.NewKeyStroke(key, stroke.KeyStateDown))
}

// Release sends a key-up stroke.
func (k *Keyboard) Release(key stroke.Key) error {
	return k.sender.Send(stroke.NewKeyStroke(key, stroke.KeyStateUp))
}

// Tap presses and releases a key with the configured pause between.
// A failed press skips the release.
func (k *Keyboard) Tap(key stroke.Key) error {
	if err := k.Press(key); err != nil {
		return err
	}
	k.pause()
	return k.Release(key)
}

// TypeKeys taps each key in order, stopping at the first failure.
func (k *Keyboard) TypeKeys(keys ...stroke.Key) error {
	for _, key := range keys {
		if err := k.Tap(key); err != nil {
			return err
		}
	}
	return nil
}

// PressCombo presses the keys in order, then releases them in reverse
// order, pausing between each transition. On a failed press the keys
// already down are released best-effort so nothing stays held.
func (k *Keyboard) PressCombo(keys ...stroke.Key) error {
	for i, key := range keys {
		if err := k.Press(key); err != nil {
			k.releaseDown(keys[:i])
			return err
		}
		k.pause()
	}
	for i := len(keys) - 1; i >= 0; i-- {
		if err := k.Release(keys[i]); err != nil {
			return err
		}
		k.pause()
	}
	return nil
}

// releaseDown releases keys in reverse order, ignoring failures.
func (k *Keyboard) releaseDown(keys []stroke.Key) {
	for i := len(keys) - 1; i >= 0; i-- {
		_ = k.Release(keys[i])
	}
}

// IsPressed reports whether the key is held in the hardware or
// software set. Without an attached tracker it reports false.
func (k *Keyboard) IsPressed(key stroke.Key, hardware bool) bool {
	if k.cfg.tracker == nil {
		return false
	}
	return k.cfg.tracker.IsKeyPressed(key, hardware)
}

func (k *Keyboard) pause() {
	if k.cfg.delay <= 0 {
		return
	}
	k.cfg.sleep(jitter(k.cfg.delay, k.cfg.mode))
}
