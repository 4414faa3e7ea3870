package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML extracts the plain text of an HTML fragment and collapses
// whitespace. Journal feeds commonly wrap abstracts in markup; the scorer
// and the export artifact want clean text. Input without markup passes
// through with whitespace normalized.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	text := s
	if strings.ContainsRune(s, '<') {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			text = doc.Text()
		}
	}
	return strings.Join(strings.Fields(text), " ")
}
