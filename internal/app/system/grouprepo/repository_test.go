package grouprepo_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/surveyhub/internal/app/store/audit"
	groupstore "github.com/dalemusser/surveyhub/internal/app/store/groups"
	"github.com/dalemusser/surveyhub/internal/app/system/auditlog"
	"github.com/dalemusser/surveyhub/internal/app/system/grouprepo"
	"github.com/dalemusser/surveyhub/internal/app/system/indexes"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"github.com/dalemusser/surveyhub/internal/testutil"
	"go.uber.org/zap"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Demographics", "demographics"},
		{"  Daily Habits & Routines ", "daily-habits-routines"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := grouprepo.Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	repo := grouprepo.New(db, zap.NewNop(), auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: "db"}), grouprepo.Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := repo.Create(ctx, models.Group{Name: "Daily Habits", SectionID: 4})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.Slug != "daily-habits" {
		t.Errorf("Slug: got %q, want daily-habits", g.Slug)
	}
	if g.ID == 0 {
		t.Error("expected an id")
	}

	events, err := store.GetByGroup(ctx, g.ID, 10, 0)
	if err != nil {
		t.Fatalf("GetByGroup failed: %v", err)
	}
	if len(events) != 1 || events[0].EventType != audit.EventGroupCreated {
		t.Errorf("expected one group_created event, got %+v", events)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := grouprepo.New(db, nil, nil, grouprepo.Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := repo.Create(ctx, models.Group{Name: "   "}); !errors.Is(err, grouprepo.ErrNameRequired) {
		t.Errorf("blank name: expected ErrNameRequired, got %v", err)
	}
	if _, err := repo.Create(ctx, models.Group{Name: "!!!"}); err == nil {
		t.Error("expected an error when no slug can be derived")
	}
	_, err := repo.Create(ctx, models.Group{Name: "Bad", Options: models.Options{"a.b": 1}})
	if !errors.Is(err, grouprepo.ErrInvalidOptionKey) {
		t.Errorf("bad option key: expected ErrInvalidOptionKey, got %v", err)
	}
}

func TestCreate_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := grouprepo.New(db, nil, nil, grouprepo.Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	if _, err := repo.Create(ctx, models.Group{Name: "Intro"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := repo.Create(ctx, models.Group{Name: "INTRO"}); !errors.Is(err, groupstore.ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestListBySection_UsesOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := grouprepo.New(db, nil, nil, grouprepo.Config{})
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fixtures.CreateGroupWithOptions(ctx, "B", "b", 2, models.Options{"order": 5})
	a := fixtures.CreateGroup(ctx, "A", "a", 2)

	groups, err := repo.ListBySection(ctx, 2, false)
	if err != nil {
		t.Fatalf("ListBySection failed: %v", err)
	}
	if len(groups) != 2 || groups[0].ID != a.ID || groups[1].ID != b.ID {
		t.Errorf("unexpected order: %+v", groups)
	}

	if _, err := repo.SetOption(ctx, &b, "order", 0); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}
	groups, err = repo.ListBySection(ctx, 2, false)
	if err != nil {
		t.Fatalf("ListBySection failed: %v", err)
	}
	if groups[0].ID != b.ID {
		t.Errorf("expected b first after reordering, got %d", groups[0].ID)
	}
}

func TestUpdateInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	repo := grouprepo.New(db, zap.NewNop(), auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: "db"}), grouprepo.Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	g, err := repo.Create(ctx, models.Group{Name: "Warm Up", SectionID: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(ctx, models.Group{Name: "Taken", SectionID: 1}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdateInfo(ctx, g, " Cool Down ", ""); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	if g.Name != "Cool Down" || g.Slug != "warm-up" {
		t.Errorf("after rename: name %q slug %q", g.Name, g.Slug)
	}

	reloaded, err := repo.Resolve(ctx, grouprepo.ByID(g.ID), false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if reloaded.Name != "Cool Down" {
		t.Errorf("stored name: got %q", reloaded.Name)
	}

	if err := repo.UpdateInfo(ctx, g, "", "taken"); !errors.Is(err, groupstore.ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}
	if g.Slug != "warm-up" {
		t.Errorf("slug changed after failed update: %q", g.Slug)
	}

	events, err := store.Query(ctx, audit.QueryFilter{GroupID: &g.ID, EventType: audit.EventGroupUpdated})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected one group_updated event, got %d", len(events))
	}
}

func TestUpdateInfo_BlankIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := grouprepo.New(db, nil, nil, grouprepo.Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := &models.Group{ID: 424242, Name: "Ghost"}
	if err := repo.UpdateInfo(ctx, g, "  ", ""); err != nil {
		t.Errorf("blank update should not touch storage, got %v", err)
	}
}

func TestNew_RestoreMode(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if got := grouprepo.New(db, nil, nil, grouprepo.Config{}).Mode(); got != grouprepo.RestoreBatch {
		t.Errorf("default mode: got %q, want batch", got)
	}
	if got := grouprepo.New(db, nil, nil, grouprepo.Config{RestoreMatch: grouprepo.RestoreWindow}).Mode(); got != grouprepo.RestoreWindow {
		t.Errorf("configured mode: got %q, want window", got)
	}
}
