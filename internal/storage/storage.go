// Package storage persists scored articles, deduplicated by GUID.
package storage

import (
	"context"
	"time"

	"github.com/wayfarer/paperfeed/internal/models"
)

// QueryOptions filters and bounds a Query call.
type QueryOptions struct {
	MinScore int
	Since    time.Time
	Limit    int
}

// Storage is the article store. A single writer is assumed: the system runs
// as one batch pass at a time.
type Storage interface {
	// Exists reports whether an article with the given GUID is stored.
	Exists(ctx context.Context, guid string) (bool, error)
	// Insert stores the article and returns true, or returns false without
	// error when the GUID is already present.
	Insert(ctx context.Context, article *models.Article) (bool, error)
	// Query returns stored articles matching opts, ordered by fetched_date
	// descending, then relevance_score descending.
	Query(ctx context.Context, opts QueryOptions) ([]*models.Article, error)
	// Count returns the total number of stored articles.
	Count(ctx context.Context) (int64, error)
	Close() error
}
