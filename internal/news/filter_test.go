package news

import (
	"testing"

	"github.com/ppiankov/aletheia/internal/model"
)

func TestFilterByKeywords_SmallSetNeedsOneHit(t *testing.T) {
	items := []model.NewsItem{
		{Title: "Rocket launch scheduled for Friday"},
		{Title: "Completely unrelated gardening tips"},
	}
	keywords := []string{"rocket", "launch", "spacex"}

	kept := FilterByKeywords(items, keywords)

	if len(kept) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(kept))
	}
	if kept[0].Title != items[0].Title {
		t.Errorf("Kept the wrong item: %q", kept[0].Title)
	}
}

func TestFilterByKeywords_LargeSetNeedsTwoHits(t *testing.T) {
	keywords := []string{"rocket", "launch", "spacex", "texas"}

	oneHit := []model.NewsItem{{Title: "A rocket appeared in a museum"}}
	if kept := FilterByKeywords(oneHit, keywords); len(kept) != 0 {
		t.Errorf("Expected one-hit item to be rejected, kept %d", len(kept))
	}

	twoHits := []model.NewsItem{{Title: "SpaceX rocket on display"}}
	if kept := FilterByKeywords(twoHits, keywords); len(kept) != 1 {
		t.Errorf("Expected two-hit item to pass, kept %d", len(kept))
	}
}

func TestFilterByKeywords_EmptySetKeepsEverything(t *testing.T) {
	items := []model.NewsItem{
		{Title: "First"},
		{Title: "Second"},
	}

	kept := FilterByKeywords(items, nil)

	if len(kept) != len(items) {
		t.Errorf("Expected all %d items, got %d", len(items), len(kept))
	}
}

func TestFilterByKeywords_CountsAllTextFields(t *testing.T) {
	keywords := []string{"quantum", "processor", "vendor", "chips"}

	item := model.NewsItem{
		Title:       "New hardware announced",
		Description: "A quantum device",
		Summary:     "The processor doubles throughput",
		SourceName:  "Vendor Weekly",
	}

	kept := FilterByKeywords([]model.NewsItem{item}, keywords)

	if len(kept) != 1 {
		t.Error("Expected hits across description, summary and source name to count")
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no markup here", "no markup here"},
		{"tags", "<b>Breaking</b>: markets <i>rally</i>", "Breaking : markets rally"},
		{"entity", "profits &amp; losses", "profits & losses"},
		{"nested", "<p>One <span>two</span> three</p>", "One two three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
