package verify

import (
	"fmt"
	"strings"

	"github.com/ppiankov/aletheia/internal/model"
)

// FormatExplanation renders the user-facing explanation for a verdict
// in the claim's requested style. The analyzer's raw explanation, when
// present in verdict.Explanation, is carried into the formal rendering
// verbatim. Pure function of already-validated fields.
func FormatExplanation(claim model.Claim, verdict *model.Verdict, entities *model.EntityBag) string {
	if claim.Style == model.StyleSimple {
		return formatSimple(verdict)
	}
	return formatFormal(claim, verdict, entities, verdict.Explanation)
}

func statusPhrase(s model.Status) string {
	switch s {
	case model.StatusConfirmed:
		return "corroborated by news sources"
	case model.StatusUncertain:
		return "no direct corroboration, moderately plausible"
	default:
		return "no corroboration found, low plausibility"
	}
}

func formatFormal(claim model.Claim, verdict *model.Verdict, entities *model.EntityBag, raw string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim: %q\n\n", claim.Text)
	fmt.Fprintf(&b, "Assessment: %s.\n", statusPhrase(verdict.Status))

	if p, ok := verdict.ProbabilityValue(); ok {
		fmt.Fprintf(&b, "Estimated probability: %.2f\n", p)
	} else {
		b.WriteString("Estimated probability: undetermined\n")
	}

	if entities != nil && !entities.IsEmpty() {
		var parts []string
		for _, cat := range entities.NonEmptyCategories() {
			parts = append(parts, fmt.Sprintf("%s: %s", cat, strings.Join(entities.Values(cat), ", ")))
		}
		fmt.Fprintf(&b, "Recognized entities: %s.\n", strings.Join(parts, "; "))
	}

	fmt.Fprintf(&b, "Corroborating sources used: %d.\n", len(verdict.MatchedSources))

	if raw != "" {
		b.WriteString("\n")
		b.WriteString(raw)
		b.WriteString("\n")
	}

	b.WriteString("\nThis verdict is probabilistic and is not an authoritative statement of fact.")
	return b.String()
}

func formatSimple(verdict *model.Verdict) string {
	p, ok := verdict.ProbabilityValue()
	if !ok {
		return "There is insufficient data to assess this claim."
	}

	return statusClause(verdict) + " " + confidencePhrase(p)
}

func statusClause(verdict *model.Verdict) string {
	switch verdict.Status {
	case model.StatusConfirmed:
		n := len(verdict.MatchedSources)
		if n == 1 {
			return "News coverage supports this claim (1 corroborating source)."
		}
		return fmt.Sprintf("News coverage supports this claim (%d corroborating sources).", n)
	case model.StatusUncertain:
		return "No direct news coverage was found."
	default:
		return "No supporting news coverage was found."
	}
}

func confidencePhrase(p float64) string {
	switch {
	case p >= 0.8:
		return "The claim is likely true."
	case p >= 0.5:
		return "The claim is plausible but unconfirmed."
	case p >= 0.3:
		return "The claim is doubtful."
	default:
		return "The claim is unlikely."
	}
}
