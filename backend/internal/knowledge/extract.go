package knowledge

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText returns the plain text of a document. HTML input is
// stripped of markup, scripts and styles; anything else passes through
// unchanged.
func ExtractText(raw string) string {
	if !looksLikeHTML(raw) {
		return raw
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	// Collapse the whitespace soup HTML rendering leaves behind into
	// paragraph-shaped text the chunker can work with.
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func looksLikeHTML(raw string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(trimmed, "<!doctype html") ||
		strings.HasPrefix(trimmed, "<html") ||
		strings.Contains(trimmed, "<body")
}
