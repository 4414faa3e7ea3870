package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayfarer/paperfeed/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleArticle(guid string) *models.Article {
	return &models.Article{
		GUID:            guid,
		Title:           "Machine learning in classrooms",
		Link:            "https://example.org/a/1",
		Authors:         "Rivers, J.",
		Abstract:        "This paper discusses machine learning in classrooms",
		Published:       "Mon, 02 Jun 2025 09:00:00 GMT",
		FeedSource:      "candE",
		RelevanceScore:  4,
		KeywordsMatched: []string{"machine learning", "classroom"},
	}
}

func TestInsert_andExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("guid should not exist before insert")
	}

	inserted, err := store.Insert(ctx, sampleArticle("g1"))
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Error("first insert should report newly inserted")
	}

	ok, err = store.Exists(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("guid should exist after insert")
	}
}

func TestInsert_duplicateGUIDIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, sampleArticle("g1")); err != nil {
		t.Fatal(err)
	}

	dup := sampleArticle("g1")
	dup.Title = "A different title that must not replace the stored row"
	inserted, err := store.Insert(ctx, dup)
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Error("second insert of same guid should report not newly inserted")
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected exactly one row, got %d", count)
	}

	got, err := store.Query(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Title != "Machine learning in classrooms" {
		t.Errorf("duplicate insert must not mutate stored row, got title %q", got[0].Title)
	}
}

func TestQuery_minScoreAndOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	rows := []struct {
		guid    string
		score   int
		fetched time.Time
	}{
		{"old-low", 2, base},
		{"old-high", 7, base},
		{"new-low", 3, base.Add(time.Hour)},
		{"new-high", 5, base.Add(time.Hour)},
	}
	for _, r := range rows {
		a := sampleArticle(r.guid)
		a.RelevanceScore = r.score
		a.FetchedDate = r.fetched
		if _, err := store.Insert(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Query(ctx, QueryOptions{MinScore: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles with score >= 3, got %d", len(got))
	}
	wantOrder := []string{"new-high", "new-low", "old-high"}
	for i, w := range wantOrder {
		if got[i].GUID != w {
			t.Errorf("position %d: expected %s, got %s", i, w, got[i].GUID)
		}
	}
}

func TestQuery_sinceAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	for i, guid := range []string{"a", "b", "c"} {
		art := sampleArticle(guid)
		art.FetchedDate = base.Add(time.Duration(i) * time.Hour)
		if _, err := store.Insert(ctx, art); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Query(ctx, QueryOptions{Since: base.Add(30 * time.Minute)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 articles since cutoff, got %d", len(got))
	}

	got, err = store.Query(ctx, QueryOptions{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected limit 1, got %d", len(got))
	}
	if got[0].GUID != "c" {
		t.Errorf("expected most recent first, got %s", got[0].GUID)
	}
}

func TestInsert_roundTripsKeywords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, sampleArticle("g1")); err != nil {
		t.Fatal(err)
	}
	got, err := store.Query(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	kw := got[0].KeywordsMatched
	if len(kw) != 2 || kw[0] != "machine learning" || kw[1] != "classroom" {
		t.Errorf("keywords did not round-trip: %v", kw)
	}
}

func TestStorage_durableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Insert(ctx, sampleArticle("g1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	ok, err := reopened.Exists(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("article should survive reopen")
	}
}
