package inputstate

import (
	"fmt"

	"github.com/t4euyoon/keygate/internal/stroke"
)

// ChangeKind discriminates what a Change transitions.
type ChangeKind int

const (
	// ChangeKey is a keyboard key transition.
	ChangeKey ChangeKind = iota
	// ChangeButton is a mouse button transition.
	ChangeButton
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeKey:
		return "key"
	case ChangeButton:
		return "button"
	default:
		return "unknown"
	}
}

// Change is one press or release transition. Key is valid when Kind is
// ChangeKey, Button when Kind is ChangeButton. Strokes that transition
// nothing, wheel rotation and motion, produce no Change.
type Change struct {
	Kind   ChangeKind
	Key    stroke.Key
	Button stroke.Button
	Down   bool
}

// KeyChange builds a key transition.
func KeyChange(key stroke.Key, down bool) Change {
	return Change{Kind: ChangeKey, Key: key, Down: down}
}

// ButtonChange builds a mouse button transition.
func ButtonChange(b stroke.Button, down bool) Change {
	return Change{Kind: ChangeButton, Button: b, Down: down}
}

// FromStroke derives the transition a stroke carries. It returns
// ok=false for strokes that press or release nothing: wheel rotation
// and pointer motion.
func FromStroke(s stroke.Stroke) (Change, bool) {
	switch st := s.(type) {
	case stroke.KeyStroke:
		return KeyChange(st.Code(), st.IsDown()), true
	case stroke.MouseStroke:
		b, down, ok := stroke.ButtonTransition(st.ButtonFlags)
		if !ok {
			return Change{}, false
		}
		return ButtonChange(b, down), true
	default:
		return Change{}, false
	}
}

func (c Change) String() string {
	dir := "down"
	if !c.Down {
		dir = "up"
	}
	switch c.Kind {
	case ChangeButton:
		return fmt.Sprintf("button %v %s", c.Button, dir)
	default:
		return fmt.Sprintf("key %v %s", c.Key, dir)
	}
}
