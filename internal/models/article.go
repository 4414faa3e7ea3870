// Package models defines core data structures for feed items, articles, and run reports.
package models

import (
	"strings"
	"time"
)

// Item is a raw record parsed from a feed entry, before scoring.
// All fields are plain strings exactly as the feed provided them;
// absent fields are empty strings.
type Item struct {
	GUID      string `json:"guid"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Authors   string `json:"authors"`
	Abstract  string `json:"abstract"`
	Published string `json:"published"`
}

// Article is a scored feed item as persisted in the store.
// An Article is created once at ingestion and never mutated afterwards;
// re-ingestion of the same GUID is discarded, not merged.
type Article struct {
	ID              int64     `json:"id,omitempty" db:"id"`
	GUID            string    `json:"guid" db:"guid"`
	Title           string    `json:"title" db:"title"`
	Link            string    `json:"link" db:"link"`
	Authors         string    `json:"authors" db:"authors"`
	Abstract        string    `json:"abstract" db:"abstract"`
	Published       string    `json:"published" db:"published"`
	FeedSource      string    `json:"feed_source" db:"feed_source"`
	RelevanceScore  int       `json:"relevance_score" db:"relevance_score"`
	KeywordsMatched []string  `json:"keywords_matched" db:"keywords_matched"`
	FetchedDate     time.Time `json:"fetched_date" db:"fetched_date"`
}

// KeywordsText returns the matched keywords joined for storage and display.
func (a *Article) KeywordsText() string {
	return strings.Join(a.KeywordsMatched, ", ")
}

// SplitKeywords parses a stored keywords_matched column back into a slice.
func SplitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FeedResult records the outcome of processing one feed in a run.
type FeedResult struct {
	Feed      string `json:"feed"`
	Fetched   int    `json:"fetched"`
	Relevant  int    `json:"relevant"`
	Inserted  int    `json:"inserted"`
	Duplicate int    `json:"duplicate"`
	Err       string `json:"error,omitempty"`
}

// Failed reports whether the feed could not be fetched or parsed.
func (r *FeedResult) Failed() bool {
	return r.Err != ""
}

// RunReport summarizes a single ingestion pass.
type RunReport struct {
	RunID       string        `json:"run_id"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Feeds       []FeedResult  `json:"feeds"`
	NewArticles []*Article    `json:"new_articles"`
}

// TotalInserted returns the number of newly stored articles across all feeds.
func (r *RunReport) TotalInserted() int {
	n := 0
	for i := range r.Feeds {
		n += r.Feeds[i].Inserted
	}
	return n
}

// FailedFeeds returns the results for feeds that could not be processed.
func (r *RunReport) FailedFeeds() []FeedResult {
	var out []FeedResult
	for _, f := range r.Feeds {
		if f.Failed() {
			out = append(out, f)
		}
	}
	return out
}
