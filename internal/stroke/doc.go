// Package stroke defines the data model for intercepted input events.
//
// A Stroke is the atomic unit flowing through the pipeline: one key or
// mouse event as delivered by the interception driver. KeyStroke and
// MouseStroke mirror the driver's stroke layout; both carry an origin
// marker (the Information field) that is zero if and only if the stroke
// was generated by real hardware.
//
// # Key Codes
//
// Key is a full scan code: the base code in the low byte and the E0/E1
// extended prefix in the high byte (0xE000 or 0xE100). On the wire the
// driver stores the base code and signals the prefix through the E0/E1
// state flags; KeyStroke performs the join and split so callers only
// ever see full codes:
//
//	s := stroke.NewKeyStroke(stroke.KeyRightCtrl, stroke.KeyStateDown)
//	s.Code() // 0xE01D, E0 flag set internally
//
// # States and Filters
//
// KeyState and MouseState are the per-stroke flag words; FilterKey and
// FilterMouse are the driver filter masks controlling which events a
// device delivers at all. Strokes are immutable once read from a
// device; re-injection constructs a fresh value.
package stroke
