// Package memory provides an in-process implementation of the store
// interfaces. It is the default backend and the one used by most tests.
package memory
