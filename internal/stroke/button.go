package stroke

import "fmt"

// Button identifies a mouse button independent of transition
// direction.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	Button4
	Button5
)

// WheelDelta is one wheel detent in ButtonData units.
const WheelDelta int16 = 120

// mouseStateAnyDown masks every button-down transition bit.
const mouseStateAnyDown = MouseStateLeftDown | MouseStateRightDown |
	MouseStateMiddleDown | MouseStateButton4Down | MouseStateButton5Down

var buttonDown = [...]MouseState{
	ButtonLeft:   MouseStateLeftDown,
	ButtonRight:  MouseStateRightDown,
	ButtonMiddle: MouseStateMiddleDown,
	Button4:      MouseStateButton4Down,
	Button5:      MouseStateButton5Down,
}

var buttonUp = [...]MouseState{
	ButtonLeft:   MouseStateLeftUp,
	ButtonRight:  MouseStateRightUp,
	ButtonMiddle: MouseStateMiddleUp,
	Button4:      MouseStateButton4Up,
	Button5:      MouseStateButton5Up,
}

// DownState returns the press transition bit for the button.
func (b Button) DownState() MouseState { return buttonDown[b] }

// UpState returns the release transition bit for the button.
func (b Button) UpState() MouseState { return buttonUp[b] }

var buttonNames = [...]string{
	ButtonLeft:   "Left",
	ButtonRight:  "Right",
	ButtonMiddle: "Middle",
	Button4:      "Button4",
	Button5:      "Button5",
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// ButtonTransition decodes the first button transition present in a
// button-flags word. It returns the button, whether the transition is
// a press, and false when the word carries no button transition at
// all (wheel-only or empty).
func ButtonTransition(state MouseState) (b Button, down bool, ok bool) {
	for btn := ButtonLeft; btn <= Button5; btn++ {
		if state&buttonDown[btn] != 0 {
			return btn, true, true
		}
		if state&buttonUp[btn] != 0 {
			return btn, false, true
		}
	}
	return 0, false, false
}
