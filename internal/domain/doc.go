// Package domain contains the entities handled by the API: people and
// catalogue products. Their constructors enforce the invariants, so a value
// obtained from this package is always valid.
package domain
