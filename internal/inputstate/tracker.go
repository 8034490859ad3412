// Package inputstate tracks which keys and mouse buttons are held,
// split by origin. The hardware sets mirror the physical devices and
// are updated for every received stroke; the software sets only see
// strokes that survived suppression and were echoed onward, so they
// describe what the rest of the system believes is held.
package inputstate

import (
	"sort"
	"sync"

	"github.com/t4euyoon/keygate/internal/stroke"
)

// KeySet is a snapshot of pressed keys.
type KeySet map[stroke.Key]struct{}

// Contains reports whether the key is in the set.
func (s KeySet) Contains(k stroke.Key) bool {
	_, ok := s[k]
	return ok
}

// ContainsAll reports whether every given key is in the set.
func (s KeySet) ContainsAll(keys []stroke.Key) bool {
	for _, k := range keys {
		if !s.Contains(k) {
			return false
		}
	}
	return true
}

// Keys returns the set as a sorted slice.
func (s KeySet) Keys() []stroke.Key {
	out := make([]stroke.Key, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ButtonSet is a snapshot of pressed mouse buttons.
type ButtonSet map[stroke.Button]struct{}

// Contains reports whether the button is in the set.
func (s ButtonSet) Contains(b stroke.Button) bool {
	_, ok := s[b]
	return ok
}

// Tracker holds the four pressed sets. All methods are safe for
// concurrent use; query results are copies and never alias the
// internal state.
type Tracker struct {
	mu sync.RWMutex

	hardwareKeys    KeySet
	softwareKeys    KeySet
	hardwareButtons ButtonSet
	softwareButtons ButtonSet
}

// NewTracker creates a tracker with all sets empty.
func NewTracker() *Tracker {
	return &Tracker{
		hardwareKeys:    make(KeySet),
		softwareKeys:    make(KeySet),
		hardwareButtons: make(ButtonSet),
		softwareButtons: make(ButtonSet),
	}
}

// Apply records a transition in the hardware or software sets. Presses
// add, releases remove; releasing something not held is a no-op.
func (t *Tracker) Apply(c Change, hardware bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch c.Kind {
	case ChangeKey:
		set := t.softwareKeys
		if hardware {
			set = t.hardwareKeys
		}
		if c.Down {
			set[c.Key] = struct{}{}
		} else {
			delete(set, c.Key)
		}
	case ChangeButton:
		set := t.softwareButtons
		if hardware {
			set = t.hardwareButtons
		}
		if c.Down {
			set[c.Button] = struct{}{}
		} else {
			delete(set, c.Button)
		}
	}
}

// IsKeyPressed reports whether the key is held in the selected set.
func (t *Tracker) IsKeyPressed(k stroke.Key, hardware bool) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if hardware {
		return t.hardwareKeys.Contains(k)
	}
	return t.softwareKeys.Contains(k)
}

// IsButtonPressed reports whether the button is held in the selected
// set.
func (t *Tracker) IsButtonPressed(b stroke.Button, hardware bool) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if hardware {
		return t.hardwareButtons.Contains(b)
	}
	return t.softwareButtons.Contains(b)
}

// PressedKeys returns the union of the hardware and software key sets.
func (t *Tracker) PressedKeys() KeySet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(KeySet, len(t.hardwareKeys)+len(t.softwareKeys))
	for k := range t.hardwareKeys {
		out[k] = struct{}{}
	}
	for k := range t.softwareKeys {
		out[k] = struct{}{}
	}
	return out
}

// PressedButtons returns the union of the hardware and software button
// sets.
func (t *Tracker) PressedButtons() ButtonSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(ButtonSet, len(t.hardwareButtons)+len(t.softwareButtons))
	for b := range t.hardwareButtons {
		out[b] = struct{}{}
	}
	for b := range t.softwareButtons {
		out[b] = struct{}{}
	}
	return out
}

// HardwareKeys returns a copy of the hardware key set.
func (t *Tracker) HardwareKeys() KeySet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(KeySet, len(t.hardwareKeys))
	for k := range t.hardwareKeys {
		out[k] = struct{}{}
	}
	return out
}

// SoftwareKeys returns a copy of the software key set.
func (t *Tracker) SoftwareKeys() KeySet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(KeySet, len(t.softwareKeys))
	for k := range t.softwareKeys {
		out[k] = struct{}{}
	}
	return out
}

// HardwareButtons returns a copy of the hardware button set.
func (t *Tracker) HardwareButtons() ButtonSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(ButtonSet, len(t.hardwareButtons))
	for b := range t.hardwareButtons {
		out[b] = struct{}{}
	}
	return out
}

// SoftwareButtons returns a copy of the software button set.
func (t *Tracker) SoftwareButtons() ButtonSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(ButtonSet, len(t.softwareButtons))
	for b := range t.softwareButtons {
		out[b] = struct{}{}
	}
	return out
}

// Reset empties all four sets.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hardwareKeys = make(KeySet)
	t.softwareKeys = make(KeySet)
	t.hardwareButtons = make(ButtonSet)
	t.softwareButtons = make(ButtonSet)
}
