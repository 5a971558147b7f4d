// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging level, and request limits; everything below is
// SurveyHub's own.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Group lifecycle
	RestoreMatch        string // "batch" or "window"
	GroupOptionDefaults string // JSON object, decoded by OptionDefaults

	// Audit logging
	AuditLogAdmin string // "all", "db", "log", or "off"

	// Handler timeouts
	TimeoutShort time.Duration
	TimeoutLong  time.Duration
}
