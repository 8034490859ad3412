package stroke

import "fmt"

// Stroke is a single input event read from or written to a device
// channel. The two concrete implementations are KeyStroke and
// MouseStroke; consumers classify a stroke with a type switch.
type Stroke interface {
	// IsDown reports whether the stroke is a press transition. Motion
	// and wheel strokes report false.
	IsDown() bool
	// IsHardware reports whether the stroke originated from a physical
	// device rather than from software injection.
	IsHardware() bool

	fmt.Stringer
}

// KeyStroke is a keyboard event in wire form: the base scan code plus
// state flags, with E0/E1 extension carried as flag bits. Construct
// with NewKeyStroke so the extended prefix is split into the flags;
// read with Code so it is joined back.
type KeyStroke struct {
	unitID   uint16
	code     uint16
	flags    KeyState
	info     uint32
	hardware bool
}

// NewKeyStroke builds a key stroke from a full key code and state
// flags. An E0/E1 prefix in the code is moved into the corresponding
// flag bit; passing both a prefixed code and the matching flag is
// equivalent to passing either alone.
func NewKeyStroke(key Key, flags KeyState) KeyStroke {
	switch key.Prefix() {
	case PrefixE0:
		flags |= KeyStateE0
	case PrefixE1:
		flags |= KeyStateE1
	}
	return KeyStroke{code: key.Base(), flags: flags}
}

// Code returns the full key code with the E0/E1 prefix joined back
// from the flag bits.
func (k KeyStroke) Code() Key {
	code := Key(k.code)
	if k.flags&KeyStateE0 != 0 {
		code |= PrefixE0
	}
	if k.flags&KeyStateE1 != 0 {
		code |= PrefixE1
	}
	return code
}

// Flags returns the raw state flags, including the E0/E1 bits.
func (k KeyStroke) Flags() KeyState { return k.flags }

// UnitID returns the driver-assigned unit number.
func (k KeyStroke) UnitID() uint16 { return k.unitID }

// Information returns the opaque device information word.
func (k KeyStroke) Information() uint32 { return k.info }

// IsDown reports whether this is a press. The up bit is the only
// transition bit, so its absence means down.
func (k KeyStroke) IsDown() bool {
	return k.flags&KeyStateUp == 0
}

// IsHardware reports whether the stroke came from a physical keyboard.
func (k KeyStroke) IsHardware() bool { return k.hardware }

// AsHardware returns a copy marked as read from a physical device.
// The device layer marks strokes on receive; synthesized strokes stay
// software-origin.
func (k KeyStroke) AsHardware() KeyStroke {
	k.hardware = true
	return k
}

// WithUnitID returns a copy with the driver unit number set.
func (k KeyStroke) WithUnitID(id uint16) KeyStroke {
	k.unitID = id
	return k
}

// WithInformation returns a copy with the device information word set.
func (k KeyStroke) WithInformation(info uint32) KeyStroke {
	k.info = info
	return k
}

func (k KeyStroke) String() string {
	dir := "down"
	if !k.IsDown() {
		dir = "up"
	}
	return fmt.Sprintf("key %s %s (flags=%s)", k.Code(), dir, k.flags)
}

// MouseStroke is a pointer event: button transitions, wheel rotation
// and motion, in the driver's native layout.
type MouseStroke struct {
	UnitID      uint16
	Flags       MouseFlag
	ButtonFlags MouseState
	ButtonData  int16
	RawButtons  uint32
	X           int32
	Y           int32
	Info        uint32

	hardware bool
}

// NewButtonStroke builds a button press or release stroke.
func NewButtonStroke(b Button, down bool) MouseStroke {
	state := b.UpState()
	if down {
		state = b.DownState()
	}
	return MouseStroke{ButtonFlags: state}
}

// NewMoveStroke builds a relative motion stroke.
func NewMoveStroke(dx, dy int32) MouseStroke {
	return MouseStroke{Flags: MouseFlagMoveRelative, X: dx, Y: dy}
}

// NewAbsoluteMoveStroke builds an absolute motion stroke. Coordinates
// are in the driver's normalized desktop space.
func NewAbsoluteMoveStroke(x, y int32) MouseStroke {
	return MouseStroke{Flags: MouseFlagMoveAbsolute, X: x, Y: y}
}

// NewWheelStroke builds a vertical wheel stroke. Positive rotation
// scrolls away from the user.
func NewWheelStroke(rotation int16) MouseStroke {
	return MouseStroke{ButtonFlags: MouseStateWheel, ButtonData: rotation}
}

// NewHWheelStroke builds a horizontal wheel stroke.
func NewHWheelStroke(rotation int16) MouseStroke {
	return MouseStroke{ButtonFlags: MouseStateHWheel, ButtonData: rotation}
}

// IsDown reports whether the stroke contains at least one button-down
// transition. Wheel and motion strokes report false.
func (m MouseStroke) IsDown() bool {
	return m.ButtonFlags&mouseStateAnyDown != 0
}

// IsHardware reports whether the stroke came from a physical mouse.
func (m MouseStroke) IsHardware() bool { return m.hardware }

// AsHardware returns a copy marked as read from a physical device.
func (m MouseStroke) AsHardware() MouseStroke {
	m.hardware = true
	return m
}

func (m MouseStroke) String() string {
	switch {
	case m.ButtonFlags&(MouseStateWheel|MouseStateHWheel) != 0:
		return fmt.Sprintf("mouse wheel %s data=%d", m.ButtonFlags, m.ButtonData)
	case m.ButtonFlags != 0:
		return fmt.Sprintf("mouse button %s", m.ButtonFlags)
	default:
		return fmt.Sprintf("mouse move %s (%d,%d)", m.Flags, m.X, m.Y)
	}
}
