// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/surveyhub/internal/app/store/audit"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls logging for group lifecycle events (create, delete, restore, options).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

type actorKey struct{}

// WithActor returns a context carrying the name of whoever is performing the
// change. The HTTP layer sets it; audit events pick it up.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey{}).(string)
	return s
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.GroupID != nil {
		fields = append(fields, zap.Int64("group_id", *event.GroupID))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if event.Actor == "" {
		event.Actor = ActorFrom(ctx)
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Group Events ---

// GroupCreated logs when a group is created.
func (l *Logger) GroupCreated(ctx context.Context, g models.Group) {
	id := g.ID
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGroupCreated,
		GroupID:   &id,
		Success:   true,
		Details: map[string]string{
			"name":       g.Name,
			"slug":       g.Slug,
			"section_id": strconv.FormatInt(g.SectionID, 10),
		},
	})
}

// GroupUpdated records a rename or slug change.
func (l *Logger) GroupUpdated(ctx context.Context, g models.Group) {
	id := g.ID
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGroupUpdated,
		GroupID:   &id,
		Success:   true,
		Details: map[string]string{
			"name": g.Name,
			"slug": g.Slug,
		},
	})
}

// GroupDeleted logs a cascading soft delete.
func (l *Logger) GroupDeleted(ctx context.Context, groupID int64, batch string, questions int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGroupDeleted,
		GroupID:   &groupID,
		Success:   true,
		Details: map[string]string{
			"batch":     batch,
			"questions": strconv.Itoa(questions),
		},
	})
}

// GroupDeleteFailed logs a cascading delete that failed.
func (l *Logger) GroupDeleteFailed(ctx context.Context, groupID int64, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventGroupDeleted,
		GroupID:       &groupID,
		Success:       false,
		FailureReason: reason,
	})
}

// GroupRestored logs a cascading restore.
func (l *Logger) GroupRestored(ctx context.Context, groupID int64, mode string, questions int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGroupRestored,
		GroupID:   &groupID,
		Success:   true,
		Details: map[string]string{
			"match":     mode,
			"questions": strconv.Itoa(questions),
		},
	})
}

// GroupOptionsChanged logs a set, unset, or sync of a group's options.
func (l *Logger) GroupOptionsChanged(ctx context.Context, groupID int64, op string, keys []string) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventGroupOptionsChanged,
		GroupID:   &groupID,
		Success:   true,
		Details: map[string]string{
			"op":   op,
			"keys": strings.Join(sorted, ","),
		},
	})
}
