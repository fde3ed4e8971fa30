package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Store  StoreConfig  `mapstructure:"store"  validate:"required"`
	Worker WorkerConfig `mapstructure:"worker" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds the graceful shutdown of the server and workers.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	// MaxRequestsPerSecond enables a token bucket in the backpressure gate when positive.
	MaxRequestsPerSecond float64 `mapstructure:"max_requests_per_second" validate:"gte=0"`
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver             string `mapstructure:"driver"               validate:"required,oneof=memory postgres redis"`
	DatabaseURL        string `mapstructure:"database_url"         validate:"omitempty,url"`
	RedisURL           string `mapstructure:"redis_url"            validate:"omitempty,url"`
	OperationTimeoutMS int    `mapstructure:"operation_timeout_ms" validate:"gt=0"`
}

// OperationTimeout returns OperationTimeoutMS as a duration.
func (c StoreConfig) OperationTimeout() time.Duration {
	return time.Duration(c.OperationTimeoutMS) * time.Millisecond
}

// WorkerConfig contains the queue watermarks and worker behaviour.
type WorkerConfig struct {
	PersonQueueMaxLen  int  `mapstructure:"person_queue_max_len"  validate:"gte=1"`
	ProductQueueMaxLen int  `mapstructure:"product_queue_max_len" validate:"gte=1"`
	ReplyTimeoutMS     int  `mapstructure:"reply_timeout_ms"      validate:"gt=0"`
	DrainOnStop        bool `mapstructure:"drain_on_stop"`
}

// ReplyTimeout returns ReplyTimeoutMS as a duration.
func (c WorkerConfig) ReplyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutMS) * time.Millisecond
}
