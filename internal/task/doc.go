// Package task offloads store commands onto per-entity worker queues.
// Callers push a message carrying a one-shot reply and wait for it; a worker
// owns the store handles and answers messages in FIFO order. A backpressure
// gate watches every queue so the HTTP layer can shed load before pushing.
package task
