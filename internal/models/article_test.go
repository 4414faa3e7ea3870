package models

import (
	"reflect"
	"testing"
)

func TestKeywordsText_roundTrip(t *testing.T) {
	a := &Article{KeywordsMatched: []string{"machine learning", "classroom"}}
	text := a.KeywordsText()
	if text != "machine learning, classroom" {
		t.Errorf("unexpected serialization %q", text)
	}
	if got := SplitKeywords(text); !reflect.DeepEqual(got, a.KeywordsMatched) {
		t.Errorf("round trip failed: %v", got)
	}
}

func TestSplitKeywords_empty(t *testing.T) {
	if got := SplitKeywords(""); got != nil {
		t.Errorf("expected nil for empty string, got %v", got)
	}
	if got := SplitKeywords(" , ,"); len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
}

func TestRunReport_totals(t *testing.T) {
	r := &RunReport{
		Feeds: []FeedResult{
			{Feed: "a", Inserted: 2},
			{Feed: "b", Err: "timeout"},
			{Feed: "c", Inserted: 1},
		},
	}
	if r.TotalInserted() != 3 {
		t.Errorf("expected 3 inserted, got %d", r.TotalInserted())
	}
	failed := r.FailedFeeds()
	if len(failed) != 1 || failed[0].Feed != "b" {
		t.Errorf("unexpected failed feeds: %+v", failed)
	}
}
