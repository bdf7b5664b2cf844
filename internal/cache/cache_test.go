package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

func testVerdict() model.Verdict {
	return model.Verdict{
		Status:      model.StatusConfirmed,
		Probability: model.Float64(0.9),
		Explanation: "Corroborated by news sources.",
		MatchedSources: []model.NewsItem{
			{Title: "Company X launches product Y", URL: "https://example.com/a", SourceName: "Example Wire"},
		},
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("The Eiffel Tower is in Paris", model.StyleFormal)
	b := Fingerprint("The Eiffel Tower is in Paris", model.StyleFormal)

	if a != b {
		t.Errorf("Expected identical fingerprints, got %s and %s", a, b)
	}
}

func TestFingerprint_TrimsText(t *testing.T) {
	a := Fingerprint("  claim text under test  ", model.StyleSimple)
	b := Fingerprint("claim text under test", model.StyleSimple)

	if a != b {
		t.Errorf("Expected trimmed and untrimmed text to share a fingerprint")
	}
}

func TestFingerprint_DistinctInputs(t *testing.T) {
	inputs := []struct {
		text  string
		style model.Style
	}{
		{"The Berlin Wall fell in 1989", model.StyleFormal},
		{"The Berlin Wall fell in 1989", model.StyleSimple},
		{"The Berlin Wall fell in 1990", model.StyleFormal},
		{"Water boils at 100 degrees Celsius", model.StyleFormal},
		{"Water boils at 100 degrees celsius", model.StyleFormal},
		{"SpaceX launched a rocket yesterday", model.StyleSimple},
	}

	seen := make(map[string]int)
	for i, in := range inputs {
		fp := Fingerprint(in.text, in.style)
		if prev, dup := seen[fp]; dup {
			t.Errorf("Inputs %d and %d collided on %s", prev, i, fp)
		}
		seen[fp] = i
	}
}

func TestValidEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{
			name:  "current version with titled sources",
			entry: &Entry{SchemaVersion: SchemaVersion, Verdict: testVerdict()},
			want:  true,
		},
		{
			name: "current version with no sources",
			entry: &Entry{SchemaVersion: SchemaVersion, Verdict: model.Verdict{
				Status:      model.StatusNotFound,
				Explanation: "nothing found",
			}},
			want: true,
		},
		{
			name:  "stale version",
			entry: &Entry{SchemaVersion: 1, Verdict: testVerdict()},
			want:  false,
		},
		{
			name: "source without title",
			entry: &Entry{SchemaVersion: SchemaVersion, Verdict: model.Verdict{
				Status:         model.StatusConfirmed,
				Explanation:    "ok",
				MatchedSources: []model.NewsItem{{URL: "https://example.com"}},
			}},
			want: false,
		},
		{
			name: "source with blank title",
			entry: &Entry{SchemaVersion: SchemaVersion, Verdict: model.Verdict{
				Status:         model.StatusConfirmed,
				Explanation:    "ok",
				MatchedSources: []model.NewsItem{{Title: "   "}},
			}},
			want: false,
		},
		{
			name:  "nil entry",
			entry: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidEntry(tt.entry); got != tt.want {
				t.Errorf("ValidEntry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerdictCache_RoundTrip(t *testing.T) {
	vc := NewVerdictCache(NewMemoryStore(time.Hour, time.Hour), time.Hour, logger.NewNop())
	ctx := context.Background()
	fp := Fingerprint("roundtrip claim", model.StyleFormal)

	if _, found := vc.Lookup(ctx, fp); found {
		t.Fatal("Expected miss before store")
	}

	verdict := testVerdict()
	if err := vc.StoreVerdict(ctx, fp, verdict); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entry, found := vc.Lookup(ctx, fp)
	if !found {
		t.Fatal("Expected hit after store")
	}
	if !ValidEntry(entry) {
		t.Fatal("Expected stored entry to be valid")
	}
	if entry.Verdict.Status != verdict.Status {
		t.Errorf("Status = %s, want %s", entry.Verdict.Status, verdict.Status)
	}
	if entry.Verdict.Explanation != verdict.Explanation {
		t.Errorf("Explanation = %q, want %q", entry.Verdict.Explanation, verdict.Explanation)
	}
	if len(entry.Verdict.MatchedSources) != 1 || entry.Verdict.MatchedSources[0].Title != verdict.MatchedSources[0].Title {
		t.Errorf("Matched sources not preserved: %+v", entry.Verdict.MatchedSources)
	}
	if p, ok := entry.Verdict.ProbabilityValue(); !ok || p != 0.9 {
		t.Errorf("Probability = %v, %v, want 0.9", p, ok)
	}
}

func TestVerdictCache_LegacyRowIsStale(t *testing.T) {
	store := NewMemoryStore(time.Hour, time.Hour)
	vc := NewVerdictCache(store, time.Hour, logger.NewNop())
	ctx := context.Background()
	fp := Fingerprint("legacy claim", model.StyleSimple)

	// Rows from before structured matched sources held bare strings.
	legacy := []byte(`{"verdict":{"status":"confirmed","probability":0.9,"explanation":"ok","matched_sources":["headline one","headline two"]},"created_at":"2024-01-01T00:00:00Z"}`)
	if err := store.Set(ctx, fp, legacy, time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entry, found := vc.Lookup(ctx, fp)
	if !found {
		t.Fatal("Expected the row to be found")
	}
	if entry != nil {
		t.Fatalf("Expected undecodable row to yield nil entry, got %+v", entry)
	}
	if ValidEntry(entry) {
		t.Fatal("Expected legacy row to be invalid")
	}
}

func TestVerdictCache_UnversionedRowIsStale(t *testing.T) {
	store := NewMemoryStore(time.Hour, time.Hour)
	vc := NewVerdictCache(store, time.Hour, logger.NewNop())
	ctx := context.Background()
	fp := Fingerprint("unversioned claim", model.StyleSimple)

	// Structured sources but no schema_version field.
	raw := []byte(`{"verdict":{"status":"confirmed","probability":0.9,"explanation":"ok","matched_sources":[{"title":"headline"}]},"created_at":"2024-01-01T00:00:00Z"}`)
	if err := store.Set(ctx, fp, raw, time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entry, found := vc.Lookup(ctx, fp)
	if !found || entry == nil {
		t.Fatal("Expected a decodable row")
	}
	if ValidEntry(entry) {
		t.Fatal("Expected unversioned row to be invalid")
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("backend down")
}
func (failingStore) Delete(context.Context, string) error { return nil }
func (failingStore) Clear(context.Context) error          { return nil }

func TestVerdictCache_StoreFailureWrapsErrStore(t *testing.T) {
	vc := NewVerdictCache(failingStore{}, time.Hour, logger.NewNop())

	err := vc.StoreVerdict(context.Background(), "fp", testVerdict())
	if err == nil {
		t.Fatal("Expected error from failing backend")
	}
	if !errors.Is(err, ErrStore) {
		t.Errorf("Expected ErrStore, got %v", err)
	}
}

func TestVerdictCache_Evict(t *testing.T) {
	vc := NewVerdictCache(NewMemoryStore(time.Hour, time.Hour), time.Hour, logger.NewNop())
	ctx := context.Background()
	fp := Fingerprint("evicted claim", model.StyleFormal)

	if err := vc.StoreVerdict(ctx, fp, testVerdict()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	vc.Evict(ctx, fp)

	if _, found := vc.Lookup(ctx, fp); found {
		t.Error("Expected miss after evict")
	}
}

func TestLayeredStore_PromotesBackingHits(t *testing.T) {
	memory := NewMemoryStore(time.Hour, time.Hour)
	backing := NewMemoryStore(time.Hour, time.Hour)
	layered := NewLayeredStore(memory, backing)
	ctx := context.Background()

	if err := backing.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found, err := layered.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !found || string(val) != "v" {
		t.Fatalf("Expected backing hit, got %q found=%v", val, found)
	}

	// The hit must now be served from memory.
	if _, found, _ := memory.Get(ctx, "k"); !found {
		t.Error("Expected promotion into the memory layer")
	}
}

func TestLayeredStore_DeleteRemovesBothLayers(t *testing.T) {
	memory := NewMemoryStore(time.Hour, time.Hour)
	backing := NewMemoryStore(time.Hour, time.Hour)
	layered := NewLayeredStore(memory, backing)
	ctx := context.Background()

	if err := layered.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := layered.Delete(ctx, "k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, found, _ := memory.Get(ctx, "k"); found {
		t.Error("Expected memory layer delete")
	}
	if _, found, _ := backing.Get(ctx, "k"); found {
		t.Error("Expected backing layer delete")
	}
}
