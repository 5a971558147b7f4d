// internal/app/system/grouprepo/cascade.go
package grouprepo

import (
	"context"
	"time"

	"github.com/dalemusser/surveyhub/internal/app/system/txn"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CascadeWindow is how long after a group's deletion instant a question's
// deletion may fall and still be treated as part of the same cascade.
const CascadeWindow = time.Second

// Delete soft-deletes g and every question of g that is active right now,
// stamping all of them with the same instant and batch id. Questions that
// were already deleted keep their original marker. Deleting an already
// deleted group re-stamps it and cascades to whatever is still active.
//
// All writes share one transaction when the deployment supports it. Any
// store error is returned unchanged and g is left as it was.
func (r *Repository) Delete(ctx context.Context, g *models.Group) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	batch := uuid.NewString()

	var cascaded int
	err := txn.Run(ctx, r.db, r.log, func(ctx context.Context) error {
		cascaded = 0
		if err := r.groups.MarkDeleted(ctx, g.ID, now, batch); err != nil {
			return err
		}
		qs, err := r.questions.ListByGroup(ctx, g.ID, false)
		if err != nil {
			return err
		}
		for _, q := range qs {
			changed, err := r.questions.SoftDelete(ctx, q.ID, now, batch)
			if err != nil {
				return err
			}
			if changed {
				cascaded++
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("group delete failed", zap.Int64("group_id", g.ID), zap.Error(err))
		r.audit.GroupDeleteFailed(ctx, g.ID, err.Error())
		return err
	}

	g.DeletedAt = &now
	g.DeleteBatch = batch

	r.log.Info("group deleted",
		zap.Int64("group_id", g.ID),
		zap.String("batch", batch),
		zap.Int("questions", cascaded))
	r.audit.GroupDeleted(ctx, g.ID, batch, cascaded)
	return nil
}

// Restore clears the soft-delete marker of g and of the questions removed by
// the same cascade. Questions deleted independently stay deleted. Restoring a
// group that is not deleted does nothing.
func (r *Repository) Restore(ctx context.Context, g *models.Group) error {
	if g.DeletedAt == nil {
		return nil
	}
	deletedAt := *g.DeletedAt
	batch := g.DeleteBatch

	var restored int
	err := txn.Run(ctx, r.db, r.log, func(ctx context.Context) error {
		restored = 0
		qs, err := r.questions.ListByGroup(ctx, g.ID, true)
		if err != nil {
			return err
		}
		for _, q := range qs {
			if !matchesCascade(q, deletedAt, batch, r.mode) {
				continue
			}
			if err := r.questions.Restore(ctx, q.ID); err != nil {
				return err
			}
			restored++
		}
		return r.groups.ClearDeleted(ctx, g.ID)
	})
	if err != nil {
		r.log.Error("group restore failed", zap.Int64("group_id", g.ID), zap.Error(err))
		return err
	}

	g.DeletedAt = nil
	g.DeleteBatch = ""

	r.log.Info("group restored",
		zap.Int64("group_id", g.ID),
		zap.String("match", string(r.mode)),
		zap.Int("questions", restored))
	r.audit.GroupRestored(ctx, g.ID, string(r.mode), restored)
	return nil
}

// matchesCascade reports whether q was deleted by the cascade that deleted
// its group at groupDeletedAt with batch groupBatch.
func matchesCascade(q models.Question, groupDeletedAt time.Time, groupBatch string, mode RestoreMode) bool {
	if q.DeletedAt == nil {
		return false
	}
	if mode == RestoreBatch && groupBatch != "" && q.DeleteBatch != "" {
		return q.DeleteBatch == groupBatch
	}
	at := *q.DeletedAt
	return !at.Before(groupDeletedAt) && !at.After(groupDeletedAt.Add(CascadeWindow))
}
