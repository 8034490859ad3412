// Package mux multiplexes readiness across every opened device port.
// Open enumerates the numbered ports, keeps the ones that report a
// hardware identity, and starts one pump goroutine per device that
// funnels readiness tokens into a single queue. Wait blocks on that
// queue and hands back the next ready device, so one consumer can
// drain any number of keyboards and mice.
//
// A wake is a hint, not a guarantee: the device queue may already be
// empty when the consumer gets there. Receiving then fails with
// device.ErrNoStroke and the consumer simply waits again.
package mux
