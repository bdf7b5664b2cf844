package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

func testNewsConfig(baseURL string) model.NewsConfig {
	return model.NewsConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Language:   "en",
		WindowDays: 7,
		Limit:      5,
		Timeout:    2 * time.Second,
	}
}

func TestClient_SearchMapsArticles(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query()

		resp := searchResponse{
			Status: "ok",
			Articles: []article{
				{
					Title:       "<b>SpaceX</b> launches again",
					Description: "A further <i>Starship</i> flight",
					URL:         "https://example.com/a",
					PublishedAt: "2026-08-25T10:00:00Z",
				},
				{
					Title: "", // dropped: no title
					URL:   "https://example.com/b",
				},
			},
		}
		resp.Articles[0].Source.Name = "Example Wire"
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(testNewsConfig(server.URL), logger.NewNop())
	items := client.Search(context.Background(), "spacex starship", 7, 5)

	if gotPath != "/everything" {
		t.Errorf("Path = %s, want /everything", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("X-Api-Key = %s", gotKey)
	}
	for param, want := range map[string]string{
		"q":        "spacex starship",
		"pageSize": "5",
		"sortBy":   "relevancy",
		"language": "en",
	} {
		if got := gotQuery[param]; len(got) != 1 || got[0] != want {
			t.Errorf("Query %s = %v, want %s", param, got, want)
		}
	}
	if got := gotQuery["from"]; len(got) != 1 || got[0] == "" {
		t.Errorf("Expected a from date, got %v", got)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Title != "SpaceX launches again" {
		t.Errorf("Title = %q", items[0].Title)
	}
	if items[0].Description != "A further Starship flight" {
		t.Errorf("Description = %q", items[0].Description)
	}
	if items[0].SourceName != "Example Wire" {
		t.Errorf("SourceName = %q", items[0].SourceName)
	}
}

func TestClient_SearchNoAPIKey(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	cfg := testNewsConfig(server.URL)
	cfg.APIKey = ""
	client := NewClient(cfg, logger.NewNop())

	if items := client.Search(context.Background(), "anything", 7, 5); items != nil {
		t.Errorf("Expected nil result without a key, got %v", items)
	}
	if requests != 0 {
		t.Errorf("Expected no provider request, got %d", requests)
	}
}

func TestClient_SearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testNewsConfig(server.URL), logger.NewNop())

	if items := client.Search(context.Background(), "anything", 7, 5); len(items) != 0 {
		t.Errorf("Expected empty result on provider error, got %d items", len(items))
	}
}

func TestClient_SearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := NewClient(testNewsConfig(server.URL), logger.NewNop())

	if items := client.Search(context.Background(), "anything", 7, 5); len(items) != 0 {
		t.Errorf("Expected empty result on malformed body, got %d items", len(items))
	}
}

func TestClient_SearchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(testNewsConfig(server.URL), logger.NewNop())

	if items := client.Search(context.Background(), "anything", 7, 5); len(items) != 0 {
		t.Errorf("Expected empty result on transport error, got %d items", len(items))
	}
}
