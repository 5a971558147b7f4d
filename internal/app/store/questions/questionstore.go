// internal/app/store/questions/questionstore.go
package questionstore

import (
	"context"
	"errors"
	"time"

	counterstore "github.com/dalemusser/surveyhub/internal/app/store/counters"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c   *mongo.Collection
	seq *counterstore.Store
}

var ErrNotFound = errors.New("question not found")

func New(db *mongo.Database) *Store {
	return &Store{
		c:   db.Collection("questions"),
		seq: counterstore.New(db),
	}
}

func (s *Store) Create(ctx context.Context, q models.Question) (models.Question, error) {
	id, err := s.seq.Next(ctx, counterstore.SeqQuestions)
	if err != nil {
		return models.Question{}, err
	}
	now := time.Now().UTC()
	q.ID = id
	q.CreatedAt = now
	q.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, q); err != nil {
		return models.Question{}, err
	}
	return q, nil
}

// GetByID loads a question regardless of its deleted state.
func (s *Store) GetByID(ctx context.Context, id int64) (models.Question, error) {
	var q models.Question
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Question{}, ErrNotFound
		}
		return models.Question{}, err
	}
	return q, nil
}

// ListByGroup returns the questions of a group ordered by id. Soft-deleted
// questions are included only when includeDeleted is true.
func (s *Store) ListByGroup(ctx context.Context, groupID int64, includeDeleted bool) ([]models.Question, error) {
	filter := bson.M{"group_id": groupID}
	if !includeDeleted {
		filter["deleted_at"] = nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Question
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SoftDelete marks an active question as deleted at the given instant.
// Returns false when the question was already deleted (its marker is kept).
func (s *Store) SoftDelete(ctx context.Context, id int64, at time.Time, batch string) (bool, error) {
	set := bson.M{
		"deleted_at": at,
		"updated_at": time.Now().UTC(),
	}
	if batch != "" {
		set["delete_batch"] = batch
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "deleted_at": nil},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Restore clears the soft-delete marker of a question.
func (s *Store) Restore(ctx context.Context, id int64) error {
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

