// Package feed retrieves and parses RSS/Atom documents into normalized items.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/wayfarer/paperfeed/internal/config"
	"github.com/wayfarer/paperfeed/internal/models"
)

// Fetcher retrieves all items from one configured feed. A failed feed
// returns an error; the caller decides whether to continue the run.
type Fetcher interface {
	Fetch(ctx context.Context, feed config.Feed) ([]models.Item, error)
}

// RSSFetcher fetches RSS/Atom documents over HTTP and parses them.
type RSSFetcher struct {
	client *resty.Client
	parser *gofeed.Parser
}

// NewRSSFetcher builds a fetcher with the configured per-feed timeout and
// User-Agent.
func NewRSSFetcher(cfg config.FetchConfig) *RSSFetcher {
	client := resty.New().
		SetTimeout(cfg.TimeoutDuration()).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
	return &RSSFetcher{
		client: client,
		parser: gofeed.NewParser(),
	}
}

// Fetch retrieves the feed document and normalizes every entry.
func (f *RSSFetcher) Fetch(ctx context.Context, feed config.Feed) ([]models.Item, error) {
	resp, err := f.client.R().SetContext(ctx).Get(feed.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", feed.Source(), err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching %s: status %d", feed.Source(), resp.StatusCode())
	}

	parsed, err := f.parser.ParseString(resp.String())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", feed.Source(), err)
	}

	items := make([]models.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		items = append(items, normalizeItem(entry))
	}
	return items, nil
}

// normalizeItem maps a parsed entry to an Item. The GUID falls back to the
// entry link when the feed omits an identifier, so every record has a usable
// unique key.
func normalizeItem(entry *gofeed.Item) models.Item {
	guid := entry.GUID
	if guid == "" {
		guid = entry.Link
	}

	abstract := entry.Description
	if abstract == "" {
		abstract = entry.Content
	}

	published := entry.Published
	if published == "" {
		published = entry.Updated
	}

	return models.Item{
		GUID:      guid,
		Title:     entry.Title,
		Link:      entry.Link,
		Authors:   joinAuthors(entry),
		Abstract:  StripHTML(abstract),
		Published: published,
	}
}

func joinAuthors(entry *gofeed.Item) string {
	var names []string
	for _, a := range entry.Authors {
		if a != nil && a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}
