package news

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ppiankov/aletheia/internal/model"
)

// Authority tiers for ordering corroboration. Wire services and a few
// major broadcasters rank above known nationals; everything else keeps
// the default tier. Ranking never removes items.
const (
	tierWire     = 1
	tierNational = 2
	tierDefault  = 3
)

var wireDomains = map[string]struct{}{
	"reuters.com": {},
	"apnews.com":  {},
	"afp.com":     {},
	"bbc.com":     {},
	"bbc.co.uk":   {},
}

var nationalDomains = map[string]struct{}{
	"nytimes.com":        {},
	"washingtonpost.com": {},
	"theguardian.com":    {},
	"wsj.com":            {},
	"ft.com":             {},
	"bloomberg.com":      {},
	"economist.com":      {},
	"cnn.com":            {},
	"aljazeera.com":      {},
	"dw.com":             {},
}

// RankByAuthority stable-sorts items so better-known sources come
// first. Provider order is preserved within a tier.
func RankByAuthority(items []model.NewsItem) []model.NewsItem {
	out := make([]model.NewsItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return authorityTier(out[i]) < authorityTier(out[j])
	})
	return out
}

// authorityTier classifies an item by its URL host
func authorityTier(item model.NewsItem) int {
	host := hostOf(item.URL)
	if host == "" {
		return tierDefault
	}
	if matchDomain(host, wireDomains) {
		return tierWire
	}
	if matchDomain(host, nationalDomains) {
		return tierNational
	}
	return tierDefault
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}

func matchDomain(host string, domains map[string]struct{}) bool {
	if _, ok := domains[host]; ok {
		return true
	}
	for d := range domains {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
