package synth

import "github.com/t4euyoon/keygate/internal/stroke"

// Step is one relative motion increment of a drag path.
type Step struct {
	DX int32
	DY int32
}

// Mouse synthesizes pointer input through a Sender.
type Mouse struct {
	sender Sender
	cfg    config
}

// NewMouse creates a mouse synthesizer writing through the given
// sender.
func NewMouse(sender Sender, opts ...Option) *Mouse {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Mouse{sender: sender, cfg: cfg}
}

// Move sends a relative motion stroke.
func (m *Mouse) Move(dx, dy int32) error {
	return m.sender.Send(stroke.NewMoveStroke(dx, dy))
}

// MoveTo sends an absolute motion stroke in the driver's normalized
// desktop coordinates.
func (m *Mouse) MoveTo(x, y int32) error {
	return m.sender.Send(stroke.NewAbsoluteMoveStroke(x, y))
}

// Scroll rotates the vertical wheel. Rotation is in driver units; one
// detent is stroke.WheelDelta, positive away from the user.
func (m *Mouse) Scroll(rotation int16) error {
	return m.sender.Send(stroke.NewWheelStroke(rotation))
}

// ScrollHorizontal rotates the horizontal wheel.
func (m *Mouse) ScrollHorizontal(rotation int16) error {
	return m.sender.Send(stroke.NewHWheelStroke(rotation))
}

// Press sends a button-down stroke.
func (m *Mouse) Press(b stroke.Button) error {
	return m.sender.Send(stroke.NewButtonStroke(b, true))
}

// Release sends a button-up stroke.
func (m *Mouse) Release(b stroke.Button) error {
	return m.sender.Send(stroke.NewButtonStroke(b, false))
}

// Click presses and releases a button with the configured pause
// between. A failed press skips the release.
func (m *Mouse) Click(b stroke.Button) error {
	if err := m.Press(b); err != nil {
		return err
	}
	m.pause()
	return m.Release(b)
}

// Drag holds a button while moving through the relative steps, then
// releases it. The button is released even when a step fails, so it
// never stays held.
func (m *Mouse) Drag(b stroke.Button, path ...Step) error {
	if err := m.Press(b); err != nil {
		return err
	}
	for _, st := range path {
		if err := m.Move(st.DX, st.DY); err != nil {
			_ = m.Release(b)
			return err
		}
		m.pause()
	}
	return m.Release(b)
}

// IsPressed reports whether the button is held in the hardware or
// software set. Without an attached tracker it reports false.
func (m *Mouse) IsPressed(b stroke.Button, hardware bool) bool {
	if m.cfg.tracker == nil {
		return false
	}
	return m.cfg.tracker.IsButtonPressed(b, hardware)
}

func (m *Mouse) pause() {
	if m.cfg.delay <= 0 {
		return
	}
	m.cfg.sleep(jitter(m.cfg.delay, m.cfg.mode))
}
