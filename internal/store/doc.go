// Package store defines the persistence interfaces used by the background
// workers. Implementations live under internal/platform: an in-memory store,
// PostgreSQL and Redis.
package store
