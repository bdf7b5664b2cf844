package news

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

const maxResponseBytes = 2_000_000

// Client queries a news API for corroborating articles. Every failure
// mode is soft: missing credential, transport errors, provider errors
// and malformed payloads all produce an empty result, never an error
// the pipeline has to handle.
type Client struct {
	httpClient *http.Client
	cfg        model.NewsConfig
	limiter    *rate.Limiter
	log        logger.Logger
}

// NewClient creates a client for the configured provider
func NewClient(cfg model.NewsConfig, log logger.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
	}
}

type searchResponse struct {
	Status   string    `json:"status"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Search asks the provider for recent articles matching the query,
// bounded by the window in days and capped at limit results.
func (c *Client) Search(ctx context.Context, query string, windowDays, limit int) []model.NewsItem {
	if c.cfg.APIKey == "" {
		c.log.Debug("news search skipped, no api key")
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		c.log.Warn("news search aborted before request", logger.Error(err))
		return nil
	}

	u, err := url.Parse(c.cfg.BaseURL + "/everything")
	if err != nil {
		c.log.Warn("bad news base url", logger.Error(err))
		return nil
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("pageSize", strconv.Itoa(limit))
	q.Set("sortBy", "relevancy")
	q.Set("language", c.cfg.Language)
	if windowDays > 0 {
		q.Set("from", time.Now().UTC().AddDate(0, 0, -windowDays).Format("2006-01-02"))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.log.Warn("build news request failed", logger.Error(err))
		return nil
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("news search failed", logger.Error(err), logger.String("query", query))
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("news provider status", logger.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.log.Warn("read news response failed", logger.Error(err))
		return nil
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warn("decode news response failed", logger.Error(err))
		return nil
	}

	items := make([]model.NewsItem, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		title := strings.TrimSpace(StripTags(a.Title))
		if title == "" {
			// Untitled results can never be served from cache; drop
			// them at the boundary.
			continue
		}
		items = append(items, model.NewsItem{
			Title:       title,
			Description: strings.TrimSpace(StripTags(a.Description)),
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			SourceName:  strings.TrimSpace(a.Source.Name),
		})
	}

	c.log.Debug("news search completed",
		logger.String("query", query),
		logger.Int("results", len(items)))

	return items
}
