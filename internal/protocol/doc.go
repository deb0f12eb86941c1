// Package protocol defines the client-relay wire messages.
//
// Every message is one JSON-encoded websocket text frame carrying a "type"
// tag. Inbound client messages are decoded exactly once, at this boundary,
// into a tagged Command; unknown tags map to CommandUnknown so new client
// message kinds degrade to a no-op instead of an error.
package protocol
