package stroke

import "strings"

// KeyState holds the flag word of a keyboard stroke.
type KeyState uint16

// Keyboard stroke flags. KeyStateDown is the zero value: a stroke with no
// flags set is a plain key press.
const (
	KeyStateDown KeyState = 0x00
	KeyStateUp   KeyState = 0x01
	KeyStateE0   KeyState = 0x02
	KeyStateE1   KeyState = 0x04

	KeyStateTermsrvSetLED   KeyState = 0x08
	KeyStateTermsrvShadow   KeyState = 0x10
	KeyStateTermsrvVKPacket KeyState = 0x20
)

var keyStateNames = []struct {
	bit  KeyState
	name string
}{
	{KeyStateUp, "UP"},
	{KeyStateE0, "E0"},
	{KeyStateE1, "E1"},
	{KeyStateTermsrvSetLED, "TERMSRV_SET_LED"},
	{KeyStateTermsrvShadow, "TERMSRV_SHADOW"},
	{KeyStateTermsrvVKPacket, "TERMSRV_VKPACKET"},
}

// String renders the flag word as "DOWN" or a "|"-joined list of set bits.
func (s KeyState) String() string {
	if s == KeyStateDown {
		return "DOWN"
	}
	var parts []string
	for _, f := range keyStateNames {
		if s&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// MouseState holds the button-transition flag word of a mouse stroke.
type MouseState uint16

// Mouse button and wheel transition flags.
const (
	MouseStateNone MouseState = 0x000

	MouseStateLeftDown   MouseState = 0x001
	MouseStateLeftUp     MouseState = 0x002
	MouseStateRightDown  MouseState = 0x004
	MouseStateRightUp    MouseState = 0x008
	MouseStateMiddleDown MouseState = 0x010
	MouseStateMiddleUp   MouseState = 0x020

	MouseStateButton4Down MouseState = 0x040
	MouseStateButton4Up   MouseState = 0x080
	MouseStateButton5Down MouseState = 0x100
	MouseStateButton5Up   MouseState = 0x200

	MouseStateWheel  MouseState = 0x400
	MouseStateHWheel MouseState = 0x800
)

var mouseStateNames = []struct {
	bit  MouseState
	name string
}{
	{MouseStateLeftDown, "LEFT_BUTTON_DOWN"},
	{MouseStateLeftUp, "LEFT_BUTTON_UP"},
	{MouseStateRightDown, "RIGHT_BUTTON_DOWN"},
	{MouseStateRightUp, "RIGHT_BUTTON_UP"},
	{MouseStateMiddleDown, "MIDDLE_BUTTON_DOWN"},
	{MouseStateMiddleUp, "MIDDLE_BUTTON_UP"},
	{MouseStateButton4Down, "BUTTON_4_DOWN"},
	{MouseStateButton4Up, "BUTTON_4_UP"},
	{MouseStateButton5Down, "BUTTON_5_DOWN"},
	{MouseStateButton5Up, "BUTTON_5_UP"},
	{MouseStateWheel, "WHEEL"},
	{MouseStateHWheel, "HWHEEL"},
}

// String renders the flag word as "NONE" or a "|"-joined list of set bits.
func (s MouseState) String() string {
	if s == MouseStateNone {
		return "NONE"
	}
	var parts []string
	for _, f := range mouseStateNames {
		if s&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// MouseFlag holds the movement flag word of a mouse stroke.
type MouseFlag uint16

// Movement flags. MouseFlagMoveRelative is the zero value.
const (
	MouseFlagMoveRelative      MouseFlag = 0x0000
	MouseFlagMoveAbsolute      MouseFlag = 0x0001
	MouseFlagVirtualDesktop    MouseFlag = 0x0002
	MouseFlagAttributesChanged MouseFlag = 0x0004
	MouseFlagMoveNoCoalesce    MouseFlag = 0x0008
	MouseFlagTermsrvSrcShadow  MouseFlag = 0x0100
)

var mouseFlagNames = []struct {
	bit  MouseFlag
	name string
}{
	{MouseFlagMoveAbsolute, "MOVE_ABSOLUTE"},
	{MouseFlagVirtualDesktop, "VIRTUAL_DESKTOP"},
	{MouseFlagAttributesChanged, "ATTRIBUTES_CHANGED"},
	{MouseFlagMoveNoCoalesce, "MOVE_NOCOALESCE"},
	{MouseFlagTermsrvSrcShadow, "TERMSRV_SRC_SHADOW"},
}

// String renders the flag word as "MOVE_RELATIVE" or a "|"-joined list of set bits.
func (f MouseFlag) String() string {
	if f == MouseFlagMoveRelative {
		return "MOVE_RELATIVE"
	}
	var parts []string
	for _, n := range mouseFlagNames {
		if f&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}
