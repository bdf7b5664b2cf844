package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/aletheia/internal/logger"
)

const expandSystem = `You turn a factual claim into news search queries. Respond with a single JSON object of the form {"queries": ["...", "..."]} containing one to three short keyword phrases likely to match headlines about the claim. No other text.`

const maxExpandedQueries = 3

// ExpandQuery asks the model for search phrasings of the claim and
// joins them into one provider query. Any failure returns the claim
// unchanged; expansion is an optimization, never a dependency.
func ExpandQuery(ctx context.Context, provider Provider, claim string, log logger.Logger) string {
	if provider == nil {
		return claim
	}

	resp, err := provider.Complete(ctx, CompletionRequest{
		System:    expandSystem,
		Prompt:    fmt.Sprintf("Claim: %q", claim),
		MaxTokens: 120,
	})
	if err != nil {
		log.Debug("query expansion failed", logger.Error(err))
		return claim
	}

	queries := parseQueries(resp.Text)
	if len(queries) == 0 {
		log.Debug("query expansion returned nothing usable")
		return claim
	}

	expanded := strings.Join(queries, " OR ")
	log.Debug("query expanded",
		logger.String("original", claim),
		logger.String("expanded", expanded))
	return expanded
}

func parseQueries(raw string) []string {
	var payload struct {
		Queries []string `json:"queries"`
	}

	candidate := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		obj, ok := FirstJSONObject(candidate)
		if !ok {
			return nil
		}
		if err := json.Unmarshal([]byte(obj), &payload); err != nil {
			return nil
		}
	}

	queries := make([]string, 0, len(payload.Queries))
	for _, q := range payload.Queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == maxExpandedQueries {
			break
		}
	}
	return queries
}
