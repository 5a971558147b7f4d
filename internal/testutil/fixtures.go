package testutil

import (
	"context"
	"testing"
	"time"

	counterstore "github.com/dalemusser/surveyhub/internal/app/store/counters"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db  *mongo.Database
	seq *counterstore.Store
	t   *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, seq: counterstore.New(db), t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) nextID(ctx context.Context, name string) int64 {
	f.t.Helper()
	id, err := f.seq.Next(ctx, name)
	if err != nil {
		f.t.Fatalf("failed to allocate %s id: %v", name, err)
	}
	return id
}

// CreateGroup inserts an active group in the given section.
func (f *Fixtures) CreateGroup(ctx context.Context, name, slug string, sectionID int64) models.Group {
	f.t.Helper()
	return f.CreateGroupWithOptions(ctx, name, slug, sectionID, models.Options{})
}

// CreateGroupWithOptions inserts an active group carrying opts. A nil opts
// is stored as BSON null.
func (f *Fixtures) CreateGroupWithOptions(ctx context.Context, name, slug string, sectionID int64, opts models.Options) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        f.nextID(ctx, counterstore.SeqGroups),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug,
		Options:   opts,
		SectionID: sectionID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateDeletedGroup inserts a group that was soft-deleted at deletedAt.
func (f *Fixtures) CreateDeletedGroup(ctx context.Context, name, slug string, sectionID int64, deletedAt time.Time) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	at := deletedAt.UTC().Truncate(time.Millisecond)
	group := models.Group{
		ID:        f.nextID(ctx, counterstore.SeqGroups),
		Name:      name,
		NameCI:    text.Fold(name),
		Slug:      slug,
		Options:   models.Options{},
		SectionID: sectionID,
		DeletedAt: &at,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create deleted test group: %v", err)
	}
	return group
}

// CreateQuestion inserts an active question in the given group.
func (f *Fixtures) CreateQuestion(ctx context.Context, groupID int64, body string) models.Question {
	f.t.Helper()

	now := time.Now().UTC()
	q := models.Question{
		ID:        f.nextID(ctx, counterstore.SeqQuestions),
		GroupID:   groupID,
		Text:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("questions").InsertOne(ctx, q); err != nil {
		f.t.Fatalf("failed to create test question: %v", err)
	}
	return q
}

// CreateDeletedQuestion inserts a question soft-deleted at deletedAt with
// the given batch id (empty for none).
func (f *Fixtures) CreateDeletedQuestion(ctx context.Context, groupID int64, body string, deletedAt time.Time, batch string) models.Question {
	f.t.Helper()

	now := time.Now().UTC()
	at := deletedAt.UTC().Truncate(time.Millisecond)
	q := models.Question{
		ID:          f.nextID(ctx, counterstore.SeqQuestions),
		GroupID:     groupID,
		Text:        body,
		DeletedAt:   &at,
		DeleteBatch: batch,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("questions").InsertOne(ctx, q); err != nil {
		f.t.Fatalf("failed to create deleted test question: %v", err)
	}
	return q
}
