// Package feed implements the Upstream Feed Manager component.
//
// The manager owns the single multiplexed websocket connection to the
// external price provider. Start and Stop are idempotent and shared by all
// subscriber sessions; the receive loop parses each inbound frame into a
// model.PriceUpdate and hands it to the Broadcaster.
//
// There is no automatic reconnection: after an unexpected drop the manager
// simply reports not-running until a client issues a new start. Retry policy
// belongs to an operator-level supervisor.
package feed
