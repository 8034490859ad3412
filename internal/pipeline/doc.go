// Package pipeline is the interception core: it pulls strokes off the
// multiplexer, updates hardware state, fans each stroke out to the
// registered listeners, and decides whether to pass the stroke back to
// its device.
//
// Every processed stroke walks the same five steps, in order:
//
//  1. Derive the transition the stroke carries, if any.
//  2. Record the transition in the hardware pressed sets. This happens
//     before any listener runs and regardless of suppression, so the
//     hardware sets always mirror the physical devices.
//  3. Invoke every listener in registration order. Each returns a
//     suppress vote; one true vote suppresses the stroke. A listener
//     that panics votes false.
//  4. Decide passage: a suppressed stroke is dropped. An unsuppressed
//     press always passes. An unsuppressed release passes only when
//     the software state believes the key or button is held, so a
//     release whose press was suppressed is swallowed with it.
//     Strokes that transition nothing, wheel and motion, pass whenever
//     they are not suppressed.
//  5. If the stroke passes, record the transition in the software
//     pressed sets and send the stroke back out through the device it
//     came from.
//
// The software sets therefore lag the hardware sets by exactly the
// suppressed strokes: they describe what the rest of the desktop has
// been allowed to see.
package pipeline
