// Package export writes the plain-text artifact for a run's newly stored articles.
package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wayfarer/paperfeed/internal/models"
)

// WriteFile writes the run report to path. The file is overwritten each run:
// the artifact describes one pass, and history lives in the article store.
func WriteFile(path string, report *models.RunReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, report); err != nil {
		return err
	}
	return f.Sync()
}

// Write renders the run report as plain text to w.
func Write(w io.Writer, report *models.RunReport) error {
	fmt.Fprintf(w, "paperfeed run %s\n", report.RunID)
	fmt.Fprintf(w, "started: %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "new articles: %d\n", len(report.NewArticles))
	if failed := report.FailedFeeds(); len(failed) > 0 {
		fmt.Fprintf(w, "failed feeds: %d\n", len(failed))
		for _, fr := range failed {
			fmt.Fprintf(w, "  - %s: %s\n", fr.Feed, fr.Err)
		}
	}
	fmt.Fprintln(w)

	for i, a := range report.NewArticles {
		WriteArticle(w, i+1, a)
	}
	return nil
}

// WriteArticle renders one numbered article entry.
func WriteArticle(w io.Writer, n int, a *models.Article) {
	fmt.Fprintf(w, "%d. [%d pts] %s\n", n, a.RelevanceScore, a.Title)
	if a.Authors != "" {
		fmt.Fprintf(w, "   Authors: %s\n", a.Authors)
	}
	fmt.Fprintf(w, "   Link: %s\n", a.Link)
	fmt.Fprintf(w, "   Keywords: %s\n", a.KeywordsText())
	if a.Published != "" {
		fmt.Fprintf(w, "   Published: %s\n", a.Published)
	}
	fmt.Fprintf(w, "   Source: %s\n", a.FeedSource)
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")
}
