// internal/app/system/grouprepo/options.go
package grouprepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/surveyhub/internal/domain/models"
	"go.uber.org/zap"
)

func validateKey(key string) error {
	if key == "" || strings.Contains(key, ".") || strings.HasPrefix(key, "$") {
		return fmt.Errorf("%w: %q", ErrInvalidOptionKey, key)
	}
	return nil
}

// persistOptions writes next as g's full options map and, on success, swaps
// it into g.
func (r *Repository) persistOptions(ctx context.Context, g *models.Group, next models.Options, op string, keys []string) error {
	if err := r.groups.SetOptions(ctx, g.ID, next); err != nil {
		return err
	}
	g.Options = next
	r.log.Debug("group options changed",
		zap.Int64("group_id", g.ID),
		zap.String("op", op),
		zap.Strings("keys", keys))
	r.audit.GroupOptionsChanged(ctx, g.ID, op, keys)
	return nil
}

// SetOption inserts or overwrites key and persists immediately.
func (r *Repository) SetOption(ctx context.Context, g *models.Group, key string, value interface{}) (*models.Group, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	next := g.Options.Clone()
	next[key] = value
	if err := r.persistOptions(ctx, g, next, "set", []string{key}); err != nil {
		return nil, err
	}
	return g, nil
}

// UnsetOption removes key and persists immediately. An absent key is a no-op.
func (r *Repository) UnsetOption(ctx context.Context, g *models.Group, key string) (*models.Group, error) {
	if !g.Options.Has(key) {
		return g, nil
	}
	next := g.Options.Clone()
	delete(next, key)
	if err := r.persistOptions(ctx, g, next, "unset", []string{key}); err != nil {
		return nil, err
	}
	return g, nil
}

// SyncOptions makes g's options equal target. Removals and upserts go out as
// one write, so a failure leaves the stored map untouched.
func (r *Repository) SyncOptions(ctx context.Context, g *models.Group, target models.Options) (*models.Group, error) {
	for k := range target {
		if err := validateKey(k); err != nil {
			return nil, err
		}
	}

	var changed []string
	for k := range g.Options {
		if !target.Has(k) {
			changed = append(changed, k)
		}
	}
	for k := range target {
		changed = append(changed, k)
	}

	if err := r.persistOptions(ctx, g, target.Clone(), "sync", changed); err != nil {
		return nil, err
	}
	return g, nil
}

// EffectiveOptions returns g's options layered over the configured defaults.
// The result is a fresh map and is never persisted.
func (r *Repository) EffectiveOptions(g *models.Group) models.Options {
	out := r.defaults.Clone()
	for k, v := range g.Options {
		out[k] = v
	}
	return out
}
