// Package server implements the downstream websocket listener and the
// per-session control protocol.
//
// Each subscriber connection gets one session: registered with the hub on
// upgrade, driven by a control loop that turns start/stop messages into feed
// manager calls, and unregistered when the connection drops. Malformed client
// messages are logged and ignored; unknown message types are a silent no-op.
package server
