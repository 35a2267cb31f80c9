// Package aggregate fans a query out across the sources registered for a
// market, merges what survives extraction, runs the ranking stage, and
// assembles the price-sorted response.
package aggregate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pricescout/config"
	"pricescout/extract"
	"pricescout/fetch"
	"pricescout/models"
	"pricescout/rank"
	"pricescout/sources"
)

// Service is the aggregation engine. It is safe for concurrent use; the
// admission semaphore is the only state shared between requests.
type Service struct {
	cfg           *config.Config
	fetcher       fetch.Fetcher
	renderFetcher fetch.Fetcher
	ranker        rank.Ranker
	metrics       *Metrics

	// sem bounds concurrent page fetches across all in-flight requests.
	sem chan struct{}

	// registry is swappable so tests can aggregate over synthetic sources.
	registry func(models.Market) []sources.Source
}

// NewService wires the engine. ranker may be nil when no ranking backend is
// configured; comparisons then return empty results rather than exposing
// unranked candidates.
func NewService(cfg *config.Config, fetcher fetch.Fetcher, ranker rank.Ranker) *Service {
	return &Service{
		cfg:      cfg,
		fetcher:  fetcher,
		ranker:   ranker,
		metrics:  NewMetrics(),
		sem:      make(chan struct{}, cfg.MaxConcurrentFetches),
		registry: sources.ForMarket,
	}
}

// WithRenderFetcher sets the fetcher used for sources flagged RenderJS.
func (s *Service) WithRenderFetcher(f fetch.Fetcher) *Service {
	s.renderFetcher = f
	return s
}

// MetricsRegistry exposes the engine's collectors for serving.
func (s *Service) MetricsRegistry() *Metrics {
	return s.metrics
}

// Aggregate runs the fan-out for one query and merges per-source results in
// registration order. A failing source contributes zero records; the merge
// never fails as a whole.
func (s *Service) Aggregate(ctx context.Context, market models.Market, query string) []models.ScrapedProduct {
	srcs := s.registry(market)
	if len(srcs) == 0 {
		slog.Warn("no sources registered", slog.String("market", string(market)))
		return nil
	}

	// Indexed slots keep the merge order fixed without sharing mutable
	// state between tasks.
	results := make([][]models.ScrapedProduct, len(srcs))
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			results[i] = s.searchSource(ctx, src, query)
		}(i, src)
	}
	wg.Wait()

	var merged []models.ScrapedProduct
	for _, records := range results {
		merged = append(merged, records...)
	}
	return merged
}

func (s *Service) searchSource(ctx context.Context, src sources.Source, query string) []models.ScrapedProduct {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		slog.Warn("request cancelled before fetch", slog.String("source", src.Name))
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	fetcher := s.fetcher
	if src.RenderJS && s.renderFetcher != nil {
		fetcher = s.renderFetcher
	}

	target := src.SearchTarget(query)
	start := time.Now()
	markup, err := fetcher.Fetch(fetchCtx, target)
	s.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		category := fetch.TypeLabel(err)
		s.metrics.IncFetch(src.Name, "error")
		s.metrics.IncSourceError(src.Name, category)
		slog.Error("source fetch failed",
			slog.String("source", src.Name),
			slog.String("category", category),
			slog.Any("error", err),
		)
		return nil
	}
	s.metrics.IncFetch(src.Name, "ok")

	records := extract.Extract(markup, src)
	if limit := s.cfg.PerSourceLimit; limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	s.metrics.AddRecords(src.Name, len(records))
	slog.Info("source search complete",
		slog.String("source", src.Name),
		slog.Int("records", len(records)),
	)
	return records
}

// Compare runs the full flow: aggregate, rank once over the merged set,
// assemble, sort. Input validation happens upstream in
// models.NewCompareRequest; errors returned here are internal failures.
func (s *Service) Compare(ctx context.Context, req models.CompareRequest) ([]models.ProductResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveCompare(time.Since(start)) }()

	slog.Info("starting price comparison",
		slog.String("query", req.Query),
		slog.String("market", string(req.Market)),
	)

	candidates := s.Aggregate(ctx, req.Market, req.Query)
	slog.Info("aggregation complete", slog.Int("candidates", len(candidates)))
	if len(candidates) == 0 {
		return []models.ProductResult{}, nil
	}

	if s.ranker == nil {
		// Unranked candidates have not been through the cap, diversity, and
		// authenticity rules, so they are never exposed.
		s.metrics.IncRank("unavailable")
		slog.Error("filtering unavailable: no ranker configured, returning no results")
		return []models.ProductResult{}, nil
	}

	indices, err := s.ranker.Rank(ctx, req.Query, candidates)
	if err != nil {
		s.metrics.IncRank("failed")
		slog.Error("ranking failed, returning no results", slog.Any("error", err))
		return []models.ProductResult{}, nil
	}

	selected := make([]models.ScrapedProduct, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(candidates) {
			continue
		}
		selected = append(selected, candidates[idx])
	}
	if len(selected) == 0 {
		s.metrics.IncRank("empty")
		slog.Info("ranking selected no candidates", slog.String("query", req.Query))
	} else {
		s.metrics.IncRank("selected")
	}

	results := Assemble(selected, req.Market)
	slog.Info("comparison complete",
		slog.String("query", req.Query),
		slog.Int("results", len(results)),
	)
	return results, nil
}

// Health reports readiness, the ranking backend state, and the registered
// source set.
func (s *Service) Health() models.HealthStatus {
	var markets []string
	for _, m := range models.Markets() {
		markets = append(markets, string(m))
	}
	return models.HealthStatus{
		Status:        "healthy",
		RankerEnabled: s.ranker != nil,
		Markets:       markets,
		Sources:       sources.Names(),
	}
}
