package model

// Status classifies the outcome of a verification run
type Status string

const (
	StatusConfirmed Status = "confirmed" // Corroborated by filtered news results
	StatusUncertain Status = "uncertain" // No corroboration, model judgment >= 0.4
	StatusNotFound  Status = "not_found" // No corroboration, model judgment < 0.4
)

// NewsItem is one corroborating document. Every field except Title may
// be absent; absence is meaningful, not an error.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	SourceName  string `json:"source_name,omitempty"`
}

// Verdict is the structured outcome of one verification run
type Verdict struct {
	Status         Status     `json:"status"`
	Probability    *float64   `json:"probability,omitempty"` // In [0,1]; nil when undetermined
	Explanation    string     `json:"explanation"`
	MatchedSources []NewsItem `json:"matched_sources"`
}

// ProbabilityValue returns the probability and whether it is set
func (v *Verdict) ProbabilityValue() (float64, bool) {
	if v.Probability == nil {
		return 0, false
	}
	return *v.Probability, true
}

// Float64 returns a pointer to v, for optional probability fields
func Float64(v float64) *float64 {
	return &v
}
