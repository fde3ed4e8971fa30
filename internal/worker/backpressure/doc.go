// Package backpressure decides whether new work should be accepted by looking
// at the queues that work would land on.
//
// A Gate holds any number of FullChecker values, typically queue producers
// with different message types. Check fails with ErrOverloaded as soon as
// one of them reports full. What happens next is up to the caller; the HTTP
// middleware in this repository turns it into a 503 response.
package backpressure
