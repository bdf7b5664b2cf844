package extract

import (
	"strings"
	"unicode"

	"github.com/ppiankov/aletheia/internal/model"
)

// stopWords are dropped from keyword sets. Function words carry no
// topical signal for relevance filtering.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"from": {}, "will": {}, "have": {}, "has": {}, "had": {}, "was": {},
	"were": {}, "are": {}, "been": {}, "being": {}, "its": {}, "their": {},
	"they": {}, "them": {}, "than": {}, "then": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "would": {}, "could": {}, "should": {},
	"about": {}, "after": {}, "before": {}, "into": {}, "over": {},
	"under": {}, "between": {}, "during": {}, "against": {}, "also": {},
	"more": {}, "most": {}, "some": {}, "such": {}, "only": {}, "other": {},
	"these": {}, "those": {}, "there": {}, "here": {}, "what": {},
	"who": {}, "how": {}, "not": {}, "but": {}, "all": {}, "any": {},
	"can": {}, "may": {}, "per": {}, "via": {}, "said": {},
}

// CollectKeywords builds the relevance keyword set for a claim: tokens
// from the text and every entity value, lowercased, at least three
// characters, minus stop words, deduplicated in first-seen order.
func CollectKeywords(text string, bag *model.EntityBag) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(s string) {
		for _, tok := range tokenize(s) {
			if len([]rune(tok)) < 3 {
				continue
			}
			if _, stop := stopWords[tok]; stop {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}

	add(text)
	if bag != nil {
		for _, v := range bag.All() {
			add(v)
		}
	}

	return out
}

// tokenize lowercases and splits on every non-alphanumeric rune
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
