package index

import (
	"path/filepath"
	"testing"

	"github.com/wayfarer/paperfeed/internal/models"
)

func newTestIndex(t *testing.T) *BleveIndex {
	t.Helper()
	idx, err := NewBleveIndex(filepath.Join(t.TempDir(), "articles.bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndexAndSearch(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.Index(&models.Article{
		GUID:     "g1",
		Title:    "Machine learning for school leadership",
		Abstract: "We examine adoption of predictive models by principals.",
	}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Index(&models.Article{
		GUID:     "g2",
		Title:    "Reading instruction in primary schools",
		Abstract: "A longitudinal study of phonics programs.",
	}); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search("machine learning", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one hit")
	}
	if results[0].GUID != "g1" {
		t.Errorf("expected g1 as best hit, got %s", results[0].GUID)
	}
	if results[0].Score <= 0 {
		t.Errorf("expected positive score, got %f", results[0].Score)
	}
}

func TestSearch_noResults(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.Index(&models.Article{GUID: "g1", Title: "Phonics"}); err != nil {
		t.Fatal(err)
	}
	results, err := idx.Search("quantum chromodynamics", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no hits, got %d", len(results))
	}
}

func TestNewBleveIndex_reopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.bleve")

	idx, err := NewBleveIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Index(&models.Article{GUID: "g1", Title: "Machine learning"}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBleveIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	count, err := reopened.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 indexed article after reopen, got %d", count)
	}
}
