// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. Environment
// variables use the OFFLOAD_ prefix, e.g. OFFLOAD_SERVER_PORT or
// OFFLOAD_STORE_DRIVER.
package config
