package groups_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/surveyhub/internal/app/features/groups"
	"github.com/dalemusser/surveyhub/internal/app/store/audit"
	questionstore "github.com/dalemusser/surveyhub/internal/app/store/questions"
	"github.com/dalemusser/surveyhub/internal/app/system/auditlog"
	"github.com/dalemusser/surveyhub/internal/app/system/grouprepo"
	"github.com/dalemusser/surveyhub/internal/app/system/indexes"
	"github.com/dalemusser/surveyhub/internal/domain/models"
	"github.com/dalemusser/surveyhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	events := audit.New(db)
	audits := auditlog.New(events, logger, auditlog.Config{Admin: "db"})
	repo := grouprepo.New(db, logger, audits, grouprepo.Config{
		Defaults: models.Options{"layout": "stacked"},
	})
	return groups.NewHandler(repo, events, logger), testutil.NewFixtures(t, db)
}

func serve(h *groups.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	groups.Routes(h).ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response %q: %v", rec.Body.String(), err)
	}
}

func TestServeGroup_BySlugAndID(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroupWithOptions(ctx, "Intro", "intro", 1, models.Options{"order": 3})

	for _, ref := range []string{"intro", strconv.FormatInt(g.ID, 10)} {
		rec := serve(handler, "GET", "/"+ref, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET /%s: status %d, body %s", ref, rec.Code, rec.Body.String())
		}
		var body map[string]interface{}
		decode(t, rec, &body)
		if body["slug"] != "intro" {
			t.Errorf("slug: got %v", body["slug"])
		}
		if body["order"] != float64(3) {
			t.Errorf("order: got %v, want 3", body["order"])
		}
		if _, ok := body["delete_batch"]; ok {
			t.Error("delete_batch should not be exposed")
		}
	}
}

func TestServeGroup_DirectCallWithURLParams(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGroup(ctx, "Direct", "direct", 1)

	req := httptest.NewRequest("GET", "/groups/direct", nil)
	req = testutil.WithChiURLParams(req, "ref", "direct")
	rec := httptest.NewRecorder()
	handler.ServeGroup(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
}

func TestServeGroup_NotFound(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		target  string
		message string
	}{
		{"/42", "group not found with the given ID"},
		{"/unknown-slug", "group not found with the given slug"},
	}
	for _, tt := range tests {
		rec := serve(handler, "GET", tt.target, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", tt.target, rec.Code)
			continue
		}
		var body map[string]string
		decode(t, rec, &body)
		if body["error"] != tt.message {
			t.Errorf("GET %s: error %q, want %q", tt.target, body["error"], tt.message)
		}
	}

	fixtures.CreateDeletedGroup(ctx, "Old", "old", 1, time.Now())
	if rec := serve(handler, "GET", "/old", ""); rec.Code != http.StatusNotFound {
		t.Errorf("deleted group without with_deleted: status %d, want 404", rec.Code)
	}
	if rec := serve(handler, "GET", "/old?with_deleted=1", ""); rec.Code != http.StatusOK {
		t.Errorf("deleted group with with_deleted: status %d, want 200", rec.Code)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Cascade", "cascade", 1)
	q := fixtures.CreateQuestion(ctx, g.ID, "q1")
	questions := questionstore.New(fixtures.DB())

	rec := serve(handler, "DELETE", "/cascade", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE: status %d, body %s", rec.Code, rec.Body.String())
	}
	found, err := questions.GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !found.IsDeleted() {
		t.Error("expected question to be cascaded")
	}

	if rec := serve(handler, "DELETE", "/cascade", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE: status %d, want 404", rec.Code)
	}

	rec = serve(handler, "POST", "/cascade/restore", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: status %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["deleted_at"] != nil {
		t.Errorf("deleted_at: got %v, want null", body["deleted_at"])
	}
	found, err = questions.GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.IsDeleted() {
		t.Error("expected question to be restored")
	}
}

func TestDelete_RecordsActor(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Actor", "actor", 1)

	req := httptest.NewRequest("DELETE", "/actor", nil)
	req.Header.Set(groups.ActorHeader, "editor@example.com")
	rec := httptest.NewRecorder()
	groups.Routes(handler).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE: status %d", rec.Code)
	}

	events, err := audit.New(fixtures.DB()).GetByGroup(ctx, g.ID, 10, 0)
	if err != nil {
		t.Fatalf("GetByGroup failed: %v", err)
	}
	if len(events) != 1 || events[0].Actor != "editor@example.com" {
		t.Errorf("expected one event with actor, got %+v", events)
	}
}

func TestOptionsEndpoints(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGroupWithOptions(ctx, "Opts", "opts", 1, models.Options{"order": 1, "color": "red"})

	rec := serve(handler, "PUT", "/opts/options/size", `{"value": "xl"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set: status %d, body %s", rec.Code, rec.Body.String())
	}
	var g map[string]interface{}
	decode(t, rec, &g)
	if opts := g["options"].(map[string]interface{}); opts["size"] != "xl" {
		t.Errorf("set: options %v", opts)
	}

	rec = serve(handler, "DELETE", "/opts/options/missing_key", "")
	if rec.Code != http.StatusOK {
		t.Errorf("unset missing: status %d, want 200", rec.Code)
	}

	rec = serve(handler, "DELETE", "/opts/options/color", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unset: status %d", rec.Code)
	}
	decode(t, rec, &g)
	if _, ok := g["options"].(map[string]interface{})["color"]; ok {
		t.Error("unset: color still present")
	}

	rec = serve(handler, "PUT", "/opts/options", `{"order": 2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync: status %d", rec.Code)
	}
	g = nil
	decode(t, rec, &g)
	opts := g["options"].(map[string]interface{})
	if len(opts) != 1 || opts["order"] != float64(2) || g["order"] != float64(2) {
		t.Errorf("sync: got options %v order %v", opts, g["order"])
	}

	rec = serve(handler, "GET", "/opts/options/effective", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("effective: status %d", rec.Code)
	}
	var eff map[string]interface{}
	decode(t, rec, &eff)
	if eff["layout"] != "stacked" || eff["order"] != float64(2) {
		t.Errorf("effective: got %v", eff)
	}
}

func TestSyncOptions_NullBodyRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGroupWithOptions(ctx, "Keep", "keep", 1, models.Options{"color": "red"})

	if rec := serve(handler, "PUT", "/keep/options", `null`); rec.Code != http.StatusBadRequest {
		t.Errorf("null body: status %d, want 400", rec.Code)
	}

	rec := serve(handler, "GET", "/keep", "")
	var g map[string]interface{}
	decode(t, rec, &g)
	if opts := g["options"].(map[string]interface{}); opts["color"] != "red" {
		t.Errorf("options changed after rejected sync: %v", opts)
	}

	rec = serve(handler, "PUT", "/keep/options", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty object: status %d", rec.Code)
	}
	g = nil
	decode(t, rec, &g)
	if opts := g["options"].(map[string]interface{}); len(opts) != 0 {
		t.Errorf("empty object should clear options, got %v", opts)
	}
}

func TestSetOption_InvalidKey(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGroup(ctx, "Keys", "keys", 1)

	rec := serve(handler, "PUT", "/keys/options/a.b", `{"value": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	rec = serve(handler, "PUT", "/keys/options/color", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: got %d, want 400", rec.Code)
	}
}

func TestCreateAndList(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, fixtures.DB()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	rec := serve(handler, "POST", "/", `{"name": "Daily Habits", "section_id": 5, "options": {"order": 2}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created map[string]interface{}
	decode(t, rec, &created)
	if created["slug"] != "daily-habits" {
		t.Errorf("slug: got %v", created["slug"])
	}

	if rec := serve(handler, "POST", "/", `{"name": "Daily habits", "section_id": 5}`); rec.Code != http.StatusConflict {
		t.Errorf("duplicate slug: status %d, want 409", rec.Code)
	}
	if rec := serve(handler, "POST", "/", `{"name": " ", "section_id": 5}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status %d, want 400", rec.Code)
	}

	fixtures.CreateGroup(ctx, "First", "first", 5)

	rec = serve(handler, "GET", "/?section=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var list []map[string]interface{}
	decode(t, rec, &list)
	if len(list) != 2 || list[0]["slug"] != "first" || list[1]["slug"] != "daily-habits" {
		t.Errorf("list order: got %v", list)
	}

	if rec := serve(handler, "GET", "/?section=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad section: status %d, want 400", rec.Code)
	}
}

func TestServeQuestions(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Qs", "qs", 1)
	fixtures.CreateQuestion(ctx, g.ID, "a")
	fixtures.CreateDeletedQuestion(ctx, g.ID, "b", time.Now(), "")

	var qs []map[string]interface{}
	rec := serve(handler, "GET", "/qs/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	decode(t, rec, &qs)
	if len(qs) != 1 {
		t.Errorf("active questions: got %d, want 1", len(qs))
	}

	rec = serve(handler, "GET", "/qs/questions?with_deleted=1", "")
	decode(t, rec, &qs)
	if len(qs) != 2 {
		t.Errorf("all questions: got %d, want 2", len(qs))
	}
}

func TestServeEvents_PagesNewestFirst(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGroup(ctx, "History", "history", 1)

	for _, body := range []string{`{"value": 1}`, `{"value": 2}`} {
		if rec := serve(handler, "PUT", "/history/options/order", body); rec.Code != http.StatusOK {
			t.Fatalf("PUT option: status %d, body %s", rec.Code, rec.Body.String())
		}
	}
	if rec := serve(handler, "DELETE", "/history", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE: status %d", rec.Code)
	}

	rec := serve(handler, "GET", "/history/events?size=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET events: status %d, body %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Events []struct {
			EventType string `json:"event_type"`
		} `json:"events"`
		Range struct {
			Start     int `json:"start"`
			End       int `json:"end"`
			NextStart int `json:"next_start"`
		} `json:"range"`
		Total   int64 `json:"total"`
		HasNext bool  `json:"has_next"`
	}
	decode(t, rec, &page)

	if page.Total != 3 {
		t.Errorf("total: got %d, want 3", page.Total)
	}

	if len(page.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(page.Events))
	}
	if page.Events[0].EventType != audit.EventGroupDeleted {
		t.Errorf("newest event: got %q, want %q", page.Events[0].EventType, audit.EventGroupDeleted)
	}
	if !page.HasNext {
		t.Error("expected has_next with a third event remaining")
	}
	if page.Range.Start != 1 || page.Range.End != 2 || page.Range.NextStart != 3 {
		t.Errorf("unexpected range: %+v", page.Range)
	}

	rec = serve(handler, "GET", "/history/events?start=3&size=2", "")
	decode(t, rec, &page)
	if len(page.Events) != 1 || page.HasNext {
		t.Errorf("second page: got %d events, has_next=%v", len(page.Events), page.HasNext)
	}
	if len(page.Events) == 1 && page.Events[0].EventType != audit.EventGroupOptionsChanged {
		t.Errorf("oldest event: got %q", page.Events[0].EventType)
	}
}

func TestHandleUpdate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGroup(ctx, "Before", "before", 1)

	rec := serve(handler, "PATCH", "/before", `{"name": "After", "slug": "after"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH: status %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["name"] != "After" || body["slug"] != "after" {
		t.Errorf("unexpected body: %v", body)
	}

	if rec := serve(handler, "GET", "/after", ""); rec.Code != http.StatusOK {
		t.Errorf("GET by new slug: status %d", rec.Code)
	}
	if rec := serve(handler, "GET", "/before", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET by old slug: status %d, want 404", rec.Code)
	}
}
