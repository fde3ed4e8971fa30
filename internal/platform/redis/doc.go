// Package redis provides a Redis-backed implementation of the person and
// product stores. Entities are kept as JSON strings under "person:<id>" and
// "product:<id>" keys.
package redis
