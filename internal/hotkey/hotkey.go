package hotkey

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/t4euyoon/keygate/internal/inputstate"
	"github.com/t4euyoon/keygate/internal/stroke"
)

// Action is the work a hotkey triggers. It runs on a worker goroutine
// with a snapshot of the hardware keys that were held when the chord
// matched. The context ends when the manager stops.
type Action func(ctx context.Context, pressed []stroke.Key) error

// Hotkey binds a key chord to an action. A chord matches when every
// one of its keys is physically held, so a registration for ctrl+c
// also fires on ctrl+shift+c.
type Hotkey struct {
	id           string
	keys         []stroke.Key
	action       Action
	suppress     bool
	allowReentry bool

	// running is the single-flight latch: set when an invocation is
	// scheduled, cleared when it completes.
	running atomic.Bool
}

func newHotkey(keys []stroke.Key, action Action, cfg bindConfig) *Hotkey {
	return &Hotkey{
		id:           uuid.New().String(),
		keys:         normalizeChord(keys),
		action:       action,
		suppress:     cfg.suppress,
		allowReentry: cfg.allowReentry,
	}
}

// normalizeChord returns the chord sorted with duplicates removed.
func normalizeChord(keys []stroke.Key) []stroke.Key {
	out := make([]stroke.Key, 0, len(keys))
	seen := make(map[stroke.Key]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ID returns the identifier assigned at registration.
func (h *Hotkey) ID() string { return h.id }

// Keys returns a copy of the chord in sorted order.
func (h *Hotkey) Keys() []stroke.Key {
	out := make([]stroke.Key, len(h.keys))
	copy(out, h.keys)
	return out
}

// Suppress reports whether matching strokes are withheld from
// pass-through.
func (h *Hotkey) Suppress() bool { return h.suppress }

// AllowReentry reports whether the action may overlap a still-running
// invocation of itself.
func (h *Hotkey) AllowReentry() bool { return h.allowReentry }

// Running reports whether an invocation is scheduled or in flight.
func (h *Hotkey) Running() bool { return h.running.Load() }

// Matches reports whether every chord key is in pressed.
func (h *Hotkey) Matches(pressed inputstate.KeySet) bool {
	return pressed.ContainsAll(h.keys)
}

func (h *Hotkey) String() string {
	names := make([]string, len(h.keys))
	for i, k := range h.keys {
		names[i] = k.String()
	}
	return fmt.Sprintf("hotkey %s [%s]", h.id, strings.Join(names, "+"))
}
