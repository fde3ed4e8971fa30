// Package postgres provides PostgreSQL implementations of the store
// interfaces, plus the embedded goose migrations that create their tables.
// Queries go through database/sql with the pgx driver.
package postgres
