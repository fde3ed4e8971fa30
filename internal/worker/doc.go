// Package worker runs background units of work against a queue.
//
// A worker is a single goroutine that owns some long-lived state, such as a
// store connection, pops messages off a queue.Consumer and calls a unit
// function with a pointer to that state for each one. Only the worker's
// goroutine touches the state, so the unit needs no locking of its own.
//
// Units must not fail the worker. Errors belong in the message (complete its
// reply with the error) or in the log. A panicking unit is recovered and
// logged so later messages are still processed.
package worker
