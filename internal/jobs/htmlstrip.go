package jobs

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML flattens markup in provider descriptions to plain text. Inputs
// without tags pass through untouched.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	text := doc.Text()
	text = strings.ReplaceAll(text, " ", " ")
	return strings.TrimSpace(text)
}
