package stroke

// FilterKey is a driver filter mask selecting which keyboard events a
// device delivers. The bit layout differs from KeyState: filters have a
// dedicated Down bit where the stroke flag word uses zero.
type FilterKey uint16

const (
	FilterKeyNone FilterKey = 0x0000

	FilterKeyDown FilterKey = 0x0001
	FilterKeyUp   FilterKey = 0x0002
	FilterKeyE0   FilterKey = 0x0004
	FilterKeyE1   FilterKey = 0x0008

	FilterKeyTermsrvSetLED   FilterKey = 0x0010
	FilterKeyTermsrvShadow   FilterKey = 0x0020
	FilterKeyTermsrvVKPacket FilterKey = 0x0040

	FilterKeyAll FilterKey = 0xFFFF
)

// FilterMouse is a driver filter mask selecting which mouse events a
// device delivers.
type FilterMouse uint16

const (
	FilterMouseNone FilterMouse = 0x0000

	FilterMouseLeftDown   FilterMouse = 0x0001
	FilterMouseLeftUp     FilterMouse = 0x0002
	FilterMouseRightDown  FilterMouse = 0x0004
	FilterMouseRightUp    FilterMouse = 0x0008
	FilterMouseMiddleDown FilterMouse = 0x0010
	FilterMouseMiddleUp   FilterMouse = 0x0020

	FilterMouseButton4Down FilterMouse = 0x0040
	FilterMouseButton4Up   FilterMouse = 0x0080
	FilterMouseButton5Down FilterMouse = 0x0100
	FilterMouseButton5Up   FilterMouse = 0x0200

	FilterMouseWheel  FilterMouse = 0x0400
	FilterMouseHWheel FilterMouse = 0x0800

	FilterMouseMove FilterMouse = 0x1000

	FilterMouseAll FilterMouse = 0xFFFF
)
