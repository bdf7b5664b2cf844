package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/metrics"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/verify"
)

var (
	checkStyle    string
	checkTimeout  time.Duration
	llmProvider   string
	llmModel      string
	newsWindow    int
	newsLimit     int
	expandQuery   bool
	enrichSources bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Verify a single claim and print the verdict",
	Long: `Check runs one claim through the verification pipeline:
- Extract entities and keywords from the claim
- Search recent news coverage for corroboration
- Fall back to model judgment when nothing corroborates
- Print the formatted verdict to stdout

Example:
  aletheia check "The Berlin Wall fell in 1989"
  aletheia check "Company X acquired Company Y" --style formal
  aletheia check "..." --provider openai --model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&checkStyle, "style", "simple", "explanation style (formal, simple)")

	// Pipeline flags
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 60*time.Second, "overall verification timeout")
	checkCmd.Flags().IntVar(&newsWindow, "window", 0, "news search window in days (overrides config)")
	checkCmd.Flags().IntVar(&newsLimit, "limit", 0, "max corroborating sources kept (overrides config)")
	checkCmd.Flags().BoolVar(&expandQuery, "expand-query", false, "ask the model for search keyphrases")
	checkCmd.Flags().BoolVar(&enrichSources, "enrich", false, "fetch article pages to fill missing snippets")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider for fallback analysis (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claimText := args[0]

	if err := model.ValidateClaimText(claimText); err != nil {
		return err
	}

	style, err := model.ParseStyle(checkStyle)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCheckFlags(cmd, cfg)

	if err := requireProviderKey(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	// Quiet by default; structured progress only with --verbose.
	log := logger.NewNop()
	if verbose {
		log, err = logger.New(true)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()
	}

	verifier, err := verify.FromConfig(cfg, metrics.Nop{}, log)
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claimText)
		fmt.Fprintf(os.Stderr, "Style: %s\n\n", style)
	}

	result, err := verifier.Verify(ctx, model.Claim{Text: claimText, Style: style})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	printVerdict(result)
	return nil
}

// applyCheckFlags layers explicitly set flags over the loaded config.
func applyCheckFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("provider") {
		cfg.LLM.Provider = llmProvider
		applyEnvSecrets(cfg)
	}
	if cmd.Flags().Changed("model") {
		cfg.LLM.Model = llmModel
	}
	if cmd.Flags().Changed("window") {
		cfg.News.WindowDays = newsWindow
	}
	if cmd.Flags().Changed("limit") {
		cfg.News.Limit = newsLimit
	}
	if cmd.Flags().Changed("expand-query") {
		cfg.Verify.ExpandQuery = expandQuery
	}
	if cmd.Flags().Changed("enrich") {
		cfg.News.Enrich.Enabled = enrichSources
	}
}

func printVerdict(result *verify.Result) {
	verdict := result.Verdict

	fmt.Println(verdict.Explanation)
	fmt.Println()

	if prob, ok := verdict.ProbabilityValue(); ok {
		fmt.Printf("Status: %s (probability %.2f)\n", verdict.Status, prob)
	} else {
		fmt.Printf("Status: %s (probability undetermined)\n", verdict.Status)
	}
	if len(verdict.MatchedSources) > 0 {
		fmt.Printf("Sources: %d\n", len(verdict.MatchedSources))
	}
	if result.Cached {
		fmt.Println("(cached verdict)")
	}
}
