package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/extract"
	"github.com/ppiankov/aletheia/internal/llm"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/metrics"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/news"
)

const (
	// confirmedProbability is assigned when corroboration exists.
	// Corroboration is strong evidence, never certainty.
	confirmedProbability = 0.9

	// uncertainThreshold splits fallback judgments between the
	// uncertain and not_found statuses
	uncertainThreshold = 0.4
)

// NewsSearcher finds corroborating articles for a query
type NewsSearcher interface {
	Search(ctx context.Context, query string, windowDays, limit int) []model.NewsItem
}

// Analyzer judges a claim's plausibility when corroboration is absent
type Analyzer interface {
	Analyze(ctx context.Context, claim, searchContext string) llm.Judgment
}

// EntityExtractor pulls named entities from claim text
type EntityExtractor interface {
	Extract(ctx context.Context, text string) *model.EntityBag
}

// Result is the outcome of one verification
type Result struct {
	Verdict *model.Verdict `json:"verdict"`
	Cached  bool           `json:"cached"`
}

// Verifier orchestrates the verification pipeline: cache check,
// extraction, corroboration search, fallback analysis, formatting and
// storage. It never fails for business reasons; the only error it
// returns is a verdict store failure.
type Verifier struct {
	cfg       *model.Config
	verdicts  *cache.VerdictCache
	searcher  NewsSearcher
	extractor EntityExtractor
	analyzer  Analyzer
	provider  llm.Provider
	enricher  *news.Enricher
	metrics   metrics.Recorder
	log       logger.Logger
}

// Deps are the verifier's collaborators
type Deps struct {
	Verdicts  *cache.VerdictCache
	Searcher  NewsSearcher
	Extractor EntityExtractor
	Analyzer  Analyzer
	Provider  llm.Provider // Used only for query expansion; nil when disabled
	Enricher  *news.Enricher
	Metrics   metrics.Recorder
}

// New creates a verifier from explicit collaborators
func New(cfg *model.Config, deps Deps, log logger.Logger) *Verifier {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}

	return &Verifier{
		cfg:       cfg,
		verdicts:  deps.Verdicts,
		searcher:  deps.Searcher,
		extractor: deps.Extractor,
		analyzer:  deps.Analyzer,
		provider:  deps.Provider,
		enricher:  deps.Enricher,
		metrics:   deps.Metrics,
		log:       log,
	}
}

// FromConfig builds a verifier with its production collaborators
func FromConfig(cfg *model.Config, rec metrics.Recorder, log logger.Logger) (*Verifier, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	if provider != nil {
		log.Info("llm provider configured", logger.String("provider", provider.Name()))
	} else {
		log.Info("llm provider disabled; fallback analysis degrades")
	}

	store := cache.NewStore(cfg.Cache, log)

	var enricher *news.Enricher
	if cfg.News.Enrich.Enabled {
		enricher = news.NewEnricher(cfg.News.Enrich, log)
	}

	return New(cfg, Deps{
		Verdicts:  cache.NewVerdictCache(store, cfg.Cache.TTL, log),
		Searcher:  news.NewClient(cfg.News, log),
		Extractor: extract.NewEntityExtractor(provider, log),
		Analyzer:  llm.NewAnalyzer(provider, cfg.Verify.AnalyzeTimeout, log),
		Provider:  provider,
		Enricher:  enricher,
		Metrics:   rec,
	}, log), nil
}

// Cache exposes the verdict cache for health checks
func (v *Verifier) Cache() *cache.VerdictCache {
	return v.verdicts
}

// Provider exposes the configured LLM provider (nil when disabled)
func (v *Verifier) Provider() llm.Provider {
	return v.provider
}

// Verify runs the pipeline for one claim
func (v *Verifier) Verify(ctx context.Context, claim model.Claim) (*Result, error) {
	start := time.Now()

	// 1. Fingerprint and cache check
	fingerprint := cache.Fingerprint(claim.Text, claim.Style)
	if entry, found := v.verdicts.Lookup(ctx, fingerprint); found {
		if cache.ValidEntry(entry) {
			v.log.Debug("verdict served from cache",
				logger.String("fingerprint", fingerprint),
				logger.String("status", string(entry.Verdict.Status)))
			v.metrics.ObserveVerification(string(entry.Verdict.Status), true, time.Since(start).Seconds())
			verdict := entry.Verdict
			return &Result{Verdict: &verdict, Cached: true}, nil
		}
		// Stale schema: evict and recompute as a plain miss
		v.log.Info("evicting stale cache entry", logger.String("fingerprint", fingerprint))
		v.verdicts.Evict(ctx, fingerprint)
	}

	// 2. Entities and keywords
	entities := v.extractor.Extract(ctx, claim.Text)
	keywords := extract.CollectKeywords(claim.Text, entities)

	// 3. Corroboration search
	query := claim.Text
	if v.cfg.Verify.ExpandQuery {
		query = llm.ExpandQuery(ctx, v.provider, claim.Text, v.log)
	}
	items := v.searcher.Search(ctx, query, v.cfg.News.WindowDays, v.cfg.News.Limit)
	matched := news.FilterByKeywords(items, keywords)

	var verdict *model.Verdict
	if len(matched) > 0 {
		// 4a. Corroborated
		if v.cfg.News.RankSources {
			matched = news.RankByAuthority(matched)
		}
		if limit := v.cfg.News.Limit; limit > 0 && len(matched) > limit {
			matched = matched[:limit]
		}
		if v.enricher != nil {
			matched = v.enricher.Enrich(ctx, matched)
		}
		verdict = &model.Verdict{
			Status:         model.StatusConfirmed,
			Probability:    model.Float64(confirmedProbability),
			MatchedSources: matched,
		}
	} else {
		// 4b. Fallback analysis, bounded by its own timeout
		searchContext := fmt.Sprintf("No matching news articles were found for this claim within the last %d days.", v.cfg.News.WindowDays)
		judgment := v.analyzer.Analyze(ctx, claim.Text, searchContext)
		if judgment.Kind != llm.KindOK {
			v.metrics.IncProviderError(v.providerName(), judgment.Kind)
		}

		status := model.StatusNotFound
		if judgment.Probability >= uncertainThreshold {
			status = model.StatusUncertain
		}
		verdict = &model.Verdict{
			Status:      status,
			Probability: model.Float64(judgment.Probability),
			Explanation: judgment.Explanation,
		}
	}

	// 5. Render the explanation for the requested style
	verdict.Explanation = FormatExplanation(claim, verdict, entities)

	// 6. Store the verdict; persistence failure is the one fatal path
	if err := v.verdicts.StoreVerdict(ctx, fingerprint, *verdict); err != nil {
		return nil, fmt.Errorf("store verdict: %w", err)
	}

	v.log.Info("claim verified",
		logger.String("status", string(verdict.Status)),
		logger.Int("matched_sources", len(verdict.MatchedSources)),
		logger.Duration("elapsed", time.Since(start)))
	v.metrics.ObserveVerification(string(verdict.Status), false, time.Since(start).Seconds())

	return &Result{Verdict: verdict, Cached: false}, nil
}

func (v *Verifier) providerName() string {
	if v.provider == nil {
		return "none"
	}
	return v.provider.Name()
}
