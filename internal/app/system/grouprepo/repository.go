// internal/app/system/grouprepo/repository.go
package grouprepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	groupstore "github.com/dalemusser/surveyhub/internal/app/store/groups"
	questionstore "github.com/dalemusser/surveyhub/internal/app/store/questions"
	"github.com/dalemusser/surveyhub/internal/app/system/auditlog"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RestoreMode selects how Restore decides which questions came from the
// group's own cascade.
type RestoreMode string

const (
	// RestoreBatch matches questions by delete batch id. Rows without a batch
	// id fall back to the time window.
	RestoreBatch RestoreMode = "batch"
	// RestoreWindow matches questions only by the time window.
	RestoreWindow RestoreMode = "window"
)

// ParseRestoreMode maps a config value to a RestoreMode. Empty means batch.
func ParseRestoreMode(s string) (RestoreMode, error) {
	switch RestoreMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RestoreBatch:
		return RestoreBatch, nil
	case RestoreWindow:
		return RestoreWindow, nil
	}
	return "", fmt.Errorf("unknown restore match mode %q (want batch or window)", s)
}

// Config controls repository behavior.
type Config struct {
	RestoreMatch RestoreMode
	// Defaults are layered under each group's options by EffectiveOptions.
	Defaults models.Options
}

// Repository owns the group lifecycle: cascading delete and restore,
// options reconciliation, and identifier resolution.
type Repository struct {
	db        *mongo.Database
	groups    *groupstore.Store
	questions *questionstore.Store
	log       *zap.Logger
	audit     *auditlog.Logger
	mode      RestoreMode
	defaults  models.Options
}

// New builds a Repository over db. log and audit may be nil.
func New(db *mongo.Database, log *zap.Logger, audit *auditlog.Logger, cfg Config) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	mode := cfg.RestoreMatch
	if mode == "" {
		mode = RestoreBatch
	}
	return &Repository{
		db:        db,
		groups:    groupstore.New(db),
		questions: questionstore.New(db),
		log:       log,
		audit:     audit,
		mode:      mode,
		defaults:  cfg.Defaults.Clone(),
	}
}

// Mode returns the configured restore match mode.
func (r *Repository) Mode() RestoreMode { return r.mode }

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a slug from a display name.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(text.Fold(name), "-"), "-")
}

// Create validates and inserts a new group. A blank slug is derived from the
// name. Duplicate slugs return groupstore.ErrDuplicateSlug.
func (r *Repository) Create(ctx context.Context, g models.Group) (*models.Group, error) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return nil, ErrNameRequired
	}
	g.Slug = strings.TrimSpace(g.Slug)
	if g.Slug == "" {
		g.Slug = Slugify(g.Name)
	}
	if g.Slug == "" {
		return nil, fmt.Errorf("cannot derive slug from name %q", g.Name)
	}
	for k := range g.Options {
		if err := validateKey(k); err != nil {
			return nil, err
		}
	}

	created, err := r.groups.Create(ctx, g)
	if err != nil {
		return nil, err
	}
	r.log.Info("group created",
		zap.Int64("group_id", created.ID),
		zap.String("slug", created.Slug),
		zap.Int64("section_id", created.SectionID))
	r.audit.GroupCreated(ctx, created)
	return &created, nil
}

// UpdateInfo renames g and/or changes its slug. Blank arguments leave the
// field as is.
func (r *Repository) UpdateInfo(ctx context.Context, g *models.Group, name, slug string) error {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if name == "" && slug == "" {
		return nil
	}
	if err := r.groups.UpdateInfo(ctx, g.ID, name, slug); err != nil {
		return err
	}
	if name != "" {
		g.Name = name
		g.NameCI = text.Fold(name)
	}
	if slug != "" {
		g.Slug = slug
	}
	r.audit.GroupUpdated(ctx, *g)
	return nil
}

// ListBySection returns a section's groups in display order.
func (r *Repository) ListBySection(ctx context.Context, sectionID int64, includeDeleted bool) ([]models.Group, error) {
	return r.groups.ListBySection(ctx, sectionID, includeDeleted)
}

// Questions returns the questions of a group, optionally including
// soft-deleted ones.
func (r *Repository) Questions(ctx context.Context, g *models.Group, includeDeleted bool) ([]models.Question, error) {
	return r.questions.ListByGroup(ctx, g.ID, includeDeleted)
}
