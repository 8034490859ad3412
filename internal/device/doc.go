// Package device models the numbered input ports exposed by the
// interception driver. A Channel is the raw transport to one port;
// a Device wraps a channel with its class (keyboard, mouse) derived
// from the port number and the hardware identity read at open time.
//
// The package ships a complete in-memory implementation, SimChannel,
// so every layer above can run without the driver: tests inject
// strokes and inspect what was sent back, and the demo mode of the
// daemon runs against a simulated cluster.
package device
