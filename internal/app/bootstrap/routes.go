// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	groupsfeature "github.com/dalemusser/surveyhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/surveyhub/internal/app/features/health"
	"github.com/dalemusser/surveyhub/internal/app/store/audit"
	"github.com/dalemusser/surveyhub/internal/app/system/auditlog"
	"github.com/dalemusser/surveyhub/internal/app/system/grouprepo"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. SurveyHub wires the group repository
// (with its audit logger and restore mode) and mounts the health and groups
// routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	repo, events, err := newGroupRepository(appCfg, deps, logger)
	if err != nil {
		logger.Error("group repository init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.SurveyHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Group lifecycle JSON API
	groupsHandler := groupsfeature.NewHandler(repo, events, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	return r, nil
}

func newGroupRepository(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*grouprepo.Repository, *audit.Store, error) {
	mode, err := grouprepo.ParseRestoreMode(appCfg.RestoreMatch)
	if err != nil {
		return nil, nil, err
	}
	defaults, err := appCfg.OptionDefaults()
	if err != nil {
		return nil, nil, err
	}

	events := audit.New(deps.SurveyHubMongoDatabase)
	audits := auditlog.New(events, logger, auditlog.Config{Admin: appCfg.AuditLogAdmin})

	repo := grouprepo.New(deps.SurveyHubMongoDatabase, logger, audits, grouprepo.Config{
		RestoreMatch: mode,
		Defaults:     defaults,
	})

	logger.Info("group repository ready",
		zap.String("restore_match", string(repo.Mode())),
		zap.Int("option_defaults", len(defaults)))
	return repo, events, nil
}
