package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/logger"
)

const analysisSystem = `You are a careful fact-checking assistant. Assess how plausible a short factual claim is, using only your general knowledge. Respond with a single JSON object of the form {"probability": <number between 0 and 1>, "explanation": "<two or three sentences>"} and nothing else. The probability is your estimate that the claim is true.`

const (
	// degradedProbability is assigned when analysis cannot run at all
	degradedProbability = 0.3

	// defaultProbability is assigned when the model answered but its
	// probability could not be coerced to a number
	defaultProbability = 0.5
)

const placeholderExplanation = "No explanation was provided by the analysis model."

// Judgment kinds. Degraded kinds share the same conservative
// probability; the tag keeps failure modes distinguishable in logs
// and tests.
const (
	KindOK          = "ok"
	KindUnavailable = "unavailable"
	KindTimeout     = "timeout"
	KindParse       = "parse"
	KindProvider    = "provider"
)

// Judgment is the analyzer's assessment of a claim
type Judgment struct {
	Probability float64
	Explanation string
	Kind        string
}

// Analyzer produces a plausibility judgment for a claim when no
// corroboration was found. It is observationally total: every failure
// mode degrades into a conservative low-confidence judgment instead
// of an error, so the pipeline never needs an "analysis failed" state.
type Analyzer struct {
	provider Provider
	timeout  time.Duration
	log      logger.Logger
}

// NewAnalyzer creates an analyzer. A nil provider is valid and yields
// degraded judgments for every call.
func NewAnalyzer(provider Provider, timeout time.Duration, log logger.Logger) *Analyzer {
	return &Analyzer{
		provider: provider,
		timeout:  timeout,
		log:      log,
	}
}

// Analyze asks the model how plausible the claim is. searchContext
// tells the model what the corroboration search already established;
// empty is fine.
func (a *Analyzer) Analyze(ctx context.Context, claim, searchContext string) Judgment {
	if a.provider == nil {
		return Judgment{
			Probability: degradedProbability,
			Explanation: "AI analysis is unavailable; no provider is configured.",
			Kind:        KindUnavailable,
		}
	}

	timeout := a.timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	analysisCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := fmt.Sprintf("Claim: %q", claim)
	if searchContext != "" {
		prompt += "\nContext: " + searchContext
	}

	resp, err := a.provider.Complete(analysisCtx, CompletionRequest{
		System: analysisSystem,
		Prompt: prompt,
	})

	switch {
	case err == nil:

	case errors.Is(err, context.DeadlineExceeded):
		a.log.Warn("claim analysis timed out",
			logger.String("provider", a.provider.Name()),
			logger.Duration("timeout", timeout))
		return Judgment{
			Probability: degradedProbability,
			Explanation: "AI analysis timed out before a judgment was produced.",
			Kind:        KindTimeout,
		}

	case errors.Is(err, ErrUnavailable):
		a.log.Warn("analysis provider unreachable",
			logger.String("provider", a.provider.Name()),
			logger.Error(err))
		return Judgment{
			Probability: degradedProbability,
			Explanation: "AI analysis is unavailable; the provider could not be reached.",
			Kind:        KindUnavailable,
		}

	default:
		a.log.Warn("claim analysis failed",
			logger.String("provider", a.provider.Name()),
			logger.Error(err))
		return Judgment{
			Probability: degradedProbability,
			Explanation: fmt.Sprintf("AI analysis failed: %v.", err),
			Kind:        KindProvider,
		}
	}

	judgment, ok := parseJudgment(resp.Text)
	if !ok {
		a.log.Warn("analysis response was not parsable",
			logger.String("provider", a.provider.Name()),
			logger.Int("response_length", len(resp.Text)))
		return Judgment{
			Probability: degradedProbability,
			Explanation: "The AI response could not be parsed into a judgment.",
			Kind:        KindParse,
		}
	}

	a.log.Debug("claim analysis completed",
		logger.String("provider", a.provider.Name()),
		logger.Float64("probability", judgment.Probability),
		logger.Int("tokens", resp.TokensUsed))

	return judgment
}

// parseJudgment applies the two-stage lenient parse: a whole-response
// decode first, then the first balanced JSON object found in the text.
func parseJudgment(raw string) (Judgment, bool) {
	var payload struct {
		Probability any    `json:"probability"`
		Explanation string `json:"explanation"`
	}

	candidate := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		obj, ok := FirstJSONObject(candidate)
		if !ok {
			return Judgment{}, false
		}
		if err := json.Unmarshal([]byte(obj), &payload); err != nil {
			return Judgment{}, false
		}
	}

	explanation := strings.TrimSpace(payload.Explanation)
	if explanation == "" {
		explanation = placeholderExplanation
	}

	return Judgment{
		Probability: clampProbability(coerceProbability(payload.Probability)),
		Explanation: explanation,
		Kind:        KindOK,
	}, true
}

// coerceProbability accepts a JSON number or a numeric string. Models
// produce both.
func coerceProbability(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return defaultProbability
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FirstJSONObject returns the first balanced {...} substring of s.
// Braces inside string literals do not affect the balance.
func FirstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
