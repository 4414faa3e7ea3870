// Package pipeline orchestrates one ingestion pass:
// fetch -> score -> filter -> store -> index -> export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wayfarer/paperfeed/internal/config"
	"github.com/wayfarer/paperfeed/internal/feed"
	"github.com/wayfarer/paperfeed/internal/models"
	"github.com/wayfarer/paperfeed/internal/scoring"
	"github.com/wayfarer/paperfeed/internal/storage"
)

// ArticleIndexer receives newly inserted articles. The Bleve index implements
// it; index failures are warnings, the store is the source of truth.
type ArticleIndexer interface {
	Index(article *models.Article) error
}

// Driver runs the ingestion pass over the configured feeds, sequentially and
// without retries. A feed failure is recorded and skipped; a storage failure
// aborts the run.
type Driver struct {
	feeds   []config.Feed
	fetcher feed.Fetcher
	model   *scoring.Model
	store   storage.Storage
	indexer ArticleIndexer
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithIndexer attaches a search indexer for newly inserted articles.
func WithIndexer(idx ArticleIndexer) Option {
	return func(d *Driver) { d.indexer = idx }
}

// WithClock overrides the ingestion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// NewDriver builds a Driver from its collaborators.
func NewDriver(feeds []config.Feed, fetcher feed.Fetcher, model *scoring.Model,
	store storage.Storage, logger *zap.Logger, opts ...Option) *Driver {
	d := &Driver{
		feeds:   feeds,
		fetcher: fetcher,
		model:   model,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run performs one full pass and returns the run report. The returned error
// is non-nil only for storage failures; feed failures are recorded in the
// report and logged.
func (d *Driver) Run(ctx context.Context) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: d.now(),
	}
	log := d.logger.With(zap.String("run_id", report.RunID))
	log.Info("run started", zap.Int("feeds", len(d.feeds)))

	for _, f := range d.feeds {
		result, articles, err := d.processFeed(ctx, f)
		report.Feeds = append(report.Feeds, result)
		if err != nil {
			return report, err
		}
		report.NewArticles = append(report.NewArticles, articles...)
	}

	report.Duration = d.now().Sub(report.StartedAt)
	log.Info("run finished",
		zap.Int("new_articles", len(report.NewArticles)),
		zap.Int("failed_feeds", len(report.FailedFeeds())),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// processFeed fetches, scores, and stores one feed. The error return is
// reserved for storage failures; fetch errors land in the FeedResult.
func (d *Driver) processFeed(ctx context.Context, f config.Feed) (models.FeedResult, []*models.Article, error) {
	result := models.FeedResult{Feed: f.Source()}
	log := d.logger.With(zap.String("feed", f.Source()))

	log.Info("fetching feed", zap.String("url", f.URL))
	items, err := d.fetcher.Fetch(ctx, f)
	if err != nil {
		log.Warn("feed fetch failed, skipping", zap.Error(err))
		result.Err = err.Error()
		return result, nil, nil
	}
	result.Fetched = len(items)

	var inserted []*models.Article
	for i := range items {
		article := d.buildArticle(&items[i], f)
		if !d.model.Relevant(article.RelevanceScore) {
			continue
		}
		result.Relevant++

		ok, err := d.store.Insert(ctx, article)
		if err != nil {
			return result, nil, fmt.Errorf("storing article %s: %w", article.GUID, err)
		}
		if !ok {
			result.Duplicate++
			continue
		}
		result.Inserted++
		inserted = append(inserted, article)

		if d.indexer != nil {
			if err := d.indexer.Index(article); err != nil {
				log.Warn("article index failed", zap.String("guid", article.GUID), zap.Error(err))
			}
		}
	}

	log.Info("feed processed",
		zap.Int("fetched", result.Fetched),
		zap.Int("relevant", result.Relevant),
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicate", result.Duplicate),
	)
	return result, inserted, nil
}

// buildArticle turns a raw item into a scored candidate Article. Metadata is
// carried over verbatim; only the score fields and timestamps are computed.
func (d *Driver) buildArticle(item *models.Item, f config.Feed) *models.Article {
	score, matched := d.model.Score(item.Title + " " + item.Abstract)
	return &models.Article{
		GUID:            item.GUID,
		Title:           item.Title,
		Link:            item.Link,
		Authors:         item.Authors,
		Abstract:        item.Abstract,
		Published:       item.Published,
		FeedSource:      f.Source(),
		RelevanceScore:  score,
		KeywordsMatched: matched,
		FetchedDate:     d.now(),
	}
}
