// internal/app/bootstrap/config.go
package bootstrap

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/surveyhub/internal/app/system/grouprepo"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SurveyHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, restore_match, etc.
//   - Environment variables: SURVEYHUB_MONGO_URI, SURVEYHUB_RESTORE_MATCH, etc.
//   - Command-line flags: --mongo_uri, --restore_match, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "survey_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Group lifecycle
	{Name: "restore_match", Default: "batch", Desc: "How restore picks cascaded questions: 'batch' (batch id, window fallback) or 'window' (1s window only)"},
	{Name: "group_option_defaults", Default: "{}", Desc: "JSON object of option defaults layered under every group's options"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Group event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Handler timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single group reads and option writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for cascading delete and restore"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SURVEYHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SURVEYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RestoreMatch:        appValues.String("restore_match"),
		GroupOptionDefaults: appValues.String("group_option_defaults"),

		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutShort: appValues.Duration("timeout_short", 5*time.Second),
		TimeoutLong:  appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// SurveyHub checks the MongoDB URI, the restore mode, the option defaults
// document, and the audit setting before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if _, err := grouprepo.ParseRestoreMode(appCfg.RestoreMatch); err != nil {
		return err
	}
	if _, err := appCfg.OptionDefaults(); err != nil {
		return err
	}
	switch appCfg.AuditLogAdmin {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log_admin must be one of all, db, log, off (got %q)", appCfg.AuditLogAdmin)
	}
	return nil
}

// OptionDefaults decodes GroupOptionDefaults. Blank means no defaults.
func (c AppConfig) OptionDefaults() (models.Options, error) {
	raw := strings.TrimSpace(c.GroupOptionDefaults)
	if raw == "" {
		return models.Options{}, nil
	}
	var opts models.Options
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil, fmt.Errorf("group_option_defaults is not a JSON object: %w", err)
	}
	if opts == nil {
		opts = models.Options{}
	}
	return opts, nil
}
