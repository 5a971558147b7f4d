// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	counterstore "github.com/dalemusser/surveyhub/internal/app/store/counters"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c   *mongo.Collection
	seq *counterstore.Store
}

var (
	ErrNotFound      = errors.New("group not found")
	ErrDuplicateSlug = errors.New("a group with this slug already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:   db.Collection("groups"),
		seq: counterstore.New(db),
	}
}

// scoped adds the active-only condition unless includeDeleted is set.
func scoped(filter bson.M, includeDeleted bool) bson.M {
	if !includeDeleted {
		filter["deleted_at"] = nil
	}
	return filter
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, filter).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// GetByID loads a group by id. Soft-deleted groups are only returned when
// includeDeleted is true.
func (s *Store) GetByID(ctx context.Context, id int64, includeDeleted bool) (models.Group, error) {
	return s.findOne(ctx, scoped(bson.M{"_id": id}, includeDeleted))
}

// GetBySlug loads a group by slug, honouring includeDeleted like GetByID.
func (s *Store) GetBySlug(ctx context.Context, slug string, includeDeleted bool) (models.Group, error) {
	return s.findOne(ctx, scoped(bson.M{"slug": slug}, includeDeleted))
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	id, err := s.seq.Next(ctx, counterstore.SeqGroups)
	if err != nil {
		return models.Group{}, err
	}
	now := time.Now().UTC()
	g.ID = id
	g.NameCI = text.Fold(g.Name)
	if g.Options == nil {
		g.Options = models.Options{}
	}
	g.DeletedAt = nil
	g.DeleteBatch = ""
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateSlug
		}
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo changes name and/or slug. Blank values are left untouched.
func (s *Store) UpdateInfo(ctx context.Context, id int64, name, slug string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if strings.TrimSpace(slug) != "" {
		set["slug"] = slug
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOptions replaces the stored options map in a single write.
func (s *Store) SetOptions(ctx context.Context, id int64, opts models.Options) error {
	if opts == nil {
		opts = models.Options{}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"options":    opts,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkDeleted stamps the soft-delete marker. It applies whether or not the
// group is already deleted.
func (s *Store) MarkDeleted(ctx context.Context, id int64, at time.Time, batch string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted_at":   at,
		"delete_batch": batch,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearDeleted removes the soft-delete marker.
func (s *Store) ClearDeleted(ctx context.Context, id int64) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"deleted_at": nil, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"delete_batch": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySection returns a section's groups sorted by their order option,
// then by name.
func (s *Store) ListBySection(ctx context.Context, sectionID int64, includeDeleted bool) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, scoped(bson.M{"section_id": sectionID}, includeDeleted))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	sort.SliceStable(groups, func(i, j int) bool {
		oi, oj := groups[i].Order(), groups[j].Order()
		if oi != oj {
			return oi < oj
		}
		if groups[i].NameCI != groups[j].NameCI {
			return groups[i].NameCI < groups[j].NameCI
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

