// Package hub implements the Client Registry and Broadcaster components.
//
// The hub tracks live subscriber sessions and fans each price update out to
// all of them. Delivery is best effort: a session whose send fails is dropped
// from the registry after the broadcast pass, and no failure ever reaches the
// feed's receive loop.
package hub
