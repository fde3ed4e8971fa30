// Package queue provides the multi-producer, multi-consumer transport used to
// hand work from request handlers to background workers.
//
// A queue is built once and split into a Producer and a Consumer handle. Both
// handles are small values that can be copied or cloned freely; every copy
// refers to the same underlying queue.
//
// A queue may be given a recommended maximum length (a high-watermark). The
// watermark is advisory: Push never rejects or blocks, it only moves the
// occupancy counter that IsFull reads. Callers decide what to do with a full
// queue, which is what the backpressure package is for.
//
// Build a queue with a recommended max length of 500:
//
//	tx, rx := queue.NewBuilder[Message]().WithMaxLen(500).Build()
//
// Build a queue that is never reported as full:
//
//	tx, rx := queue.NewBuilder[Message]().Build()
package queue
