package news

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/aletheia/internal/model"
)

// FilterByKeywords keeps items whose text fields meet the keyword-hit
// threshold: one distinct keyword for sets of at most three members,
// two otherwise. Provider relevance ranking alone is noisy; this
// rejects topically unrelated matches before they count as
// corroboration. An empty keyword set keeps everything.
func FilterByKeywords(items []model.NewsItem, keywords []string) []model.NewsItem {
	if len(keywords) == 0 {
		return items
	}

	threshold := 1
	if len(keywords) > 3 {
		threshold = 2
	}

	var kept []model.NewsItem
	for _, item := range items {
		if keywordHits(item, keywords) >= threshold {
			kept = append(kept, item)
		}
	}
	return kept
}

// keywordHits counts the distinct keywords occurring across the item's
// title, description, summary and source name.
func keywordHits(item model.NewsItem, keywords []string) int {
	text := strings.ToLower(strings.Join([]string{
		item.Title,
		item.Description,
		item.Summary,
		item.SourceName,
	}, " "))

	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return hits
}

// StripTags strips HTML markup from provider snippets, collapsing
// whitespace. Plain strings pass through untouched.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			buf.WriteString(z.Token().Data)
			buf.WriteString(" ")
		}
	}

	return strings.Join(strings.Fields(buf.String()), " ")
}
