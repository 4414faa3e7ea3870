// Package cli provides output rendering for the paperfeed commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wayfarer/paperfeed/internal/export"
	"github.com/wayfarer/paperfeed/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteArticles writes a list of articles to w in the given format.
func WriteArticles(w io.Writer, articles []*models.Article, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	}
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return nil
	}
	for i, a := range articles {
		export.WriteArticle(w, i+1, a)
	}
	return nil
}

// WriteReport writes a run summary to w.
func WriteReport(w io.Writer, report *models.RunReport) {
	fmt.Fprintf(w, "Fetched %d feed(s), %d failed\n",
		len(report.Feeds), len(report.FailedFeeds()))
	for _, fr := range report.FailedFeeds() {
		fmt.Fprintf(w, "  failed: %s (%s)\n", fr.Feed, fr.Err)
	}
	fmt.Fprintf(w, "Saved %d new article(s)\n\n", report.TotalInserted())
	for i, a := range report.NewArticles {
		export.WriteArticle(w, i+1, a)
	}
}
