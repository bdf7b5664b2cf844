package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

const (
	enrichMaxRetries = 1
	shortDescription = 40  // Snippets below this length get enriched
	snippetMaxRunes  = 280 // Cap on derived summaries
)

// enrichSleepFunc is the sleep between retries (injectable for tests)
var enrichSleepFunc = time.Sleep

// Enricher fills in NewsItem.Summary by fetching the article page when
// the provider snippet is missing or too short. Fetches honor
// robots.txt, are rate-limited per publisher domain and run under a
// bounded semaphore. Every failure leaves the item unchanged.
type Enricher struct {
	httpClient *http.Client
	robots     *RobotsChecker
	limiter    *DomainLimiter
	cfg        model.EnrichConfig
	log        logger.Logger
}

// NewEnricher creates an enricher
func NewEnricher(cfg model.EnrichConfig, log logger.Logger) *Enricher {
	return &Enricher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:  NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter: NewDomainLimiter(1, 2),
		cfg:     cfg,
		log:     log,
	}
}

// Enrich returns a copy of items with summaries filled where possible
func (e *Enricher) Enrich(ctx context.Context, items []model.NewsItem) []model.NewsItem {
	out := make([]model.NewsItem, len(items))
	copy(out, items)

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = 3
	}
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range out {
		if !needsSummary(out[i]) {
			continue
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			if summary := e.fetchSummary(ctx, out[idx].URL); summary != "" {
				out[idx].Summary = summary
			}
		}(i)
	}

	wg.Wait()
	return out
}

func needsSummary(item model.NewsItem) bool {
	return item.URL != "" && item.Summary == "" && len(item.Description) < shortDescription
}

// fetchSummary fetches the article and derives a snippet, retrying
// once on transient failures.
func (e *Enricher) fetchSummary(ctx context.Context, rawURL string) string {
	allowed, delay, err := e.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return ""
	}
	if !allowed {
		e.log.Debug("enrichment blocked by robots.txt", logger.String("url", rawURL))
		return ""
	}

	for attempt := 0; attempt <= enrichMaxRetries; attempt++ {
		if attempt > 0 {
			enrichSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
		}
		if err := e.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
			return ""
		}

		summary, retryable := e.fetchOnce(ctx, rawURL)
		if summary != "" || !retryable {
			return summary
		}
	}
	return ""
}

func (e *Enricher) fetchOnce(ctx context.Context, rawURL string) (summary string, retryable bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return "", true
	}
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBodyBytes))
	if err != nil {
		return "", true
	}

	return extractSnippet(string(body)), false
}

// extractSnippet prefers the page's meta description, then the first
// substantial paragraph of visible text.
func extractSnippet(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	if meta := findMetaDescription(doc); meta != "" {
		return clip(meta)
	}
	if p := findFirstParagraph(doc); p != "" {
		return clip(p)
	}
	return ""
}

func findMetaDescription(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var name, content string
		for _, attr := range n.Attr {
			switch strings.ToLower(attr.Key) {
			case "name", "property":
				name = strings.ToLower(attr.Val)
			case "content":
				content = attr.Val
			}
		}
		if (name == "description" || name == "og:description") && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMetaDescription(c); found != "" {
			return found
		}
	}
	return ""
}

func findFirstParagraph(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe":
			return ""
		case "p":
			text := strings.Join(strings.Fields(nodeText(n)), " ")
			if len(text) >= 60 {
				return text
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirstParagraph(c); found != "" {
			return found
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func clip(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetMaxRunes {
		return s
	}
	return strings.TrimSpace(string(runes[:snippetMaxRunes])) + "..."
}
