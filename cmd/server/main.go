package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pricescout/aggregate"
	"pricescout/config"
	"pricescout/fetch"
	"pricescout/httpapi"
	"pricescout/rank"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	listenAddr := flag.String("listen", cfg.ListenAddr, "HTTP listen address")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (empty disables)")
	maxFetches := flag.Int("max-fetches", cfg.MaxConcurrentFetches, "Concurrent page fetch ceiling")
	fetchTimeoutSec := flag.Int("fetch-timeout", int(cfg.FetchTimeout/time.Second), "Per-source fetch timeout (seconds)")
	rankerMode := flag.String("ranker", cfg.RankerMode, "Ranking backend: openai or heuristic")
	renderJS := flag.Bool("render-js", cfg.RenderJS, "Fetch JS-heavy sources through headless Chrome")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	cfg.ListenAddr = *listenAddr
	cfg.MetricsAddr = *metricsAddr
	cfg.MaxConcurrentFetches = *maxFetches
	cfg.FetchTimeout = time.Duration(*fetchTimeoutSec) * time.Second
	cfg.RankerMode = *rankerMode
	cfg.RenderJS = *renderJS
	cfg.Verbose = *verbose

	logger, _ := newLogger(cfg.Verbose)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	policy := rank.Policy{
		PerSourceCap:        cfg.PerSourceCap,
		DeprioritizedSource: cfg.DeprioritizedSource,
		Model:               cfg.RankerModel,
	}
	var ranker rank.Ranker
	switch cfg.RankerMode {
	case "heuristic":
		ranker = rank.NewHeuristicRanker(policy)
	case "openai":
		if cfg.OpenAIKey == "" {
			slog.Warn("OPENAI_API_KEY not set: ranking disabled, comparisons will return no results")
		} else {
			ranker = rank.NewOpenAIRanker(cfg.OpenAIKey, policy)
		}
	}

	fetcher := fetch.NewCollyFetcher(cfg.UserAgent, cfg.FetchTimeout)
	svc := aggregate.NewService(cfg, fetcher, ranker)
	if cfg.RenderJS {
		chrome := fetch.NewChromeFetcher(cfg.FetchTimeout)
		defer chrome.Close()
		svc.WithRenderFetcher(chrome)
	}

	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, svc)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(svc.MetricsRegistry().Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting price comparison service",
			slog.String("addr", cfg.ListenAddr),
			slog.String("ranker", cfg.RankerMode),
			slog.Bool("ranker_enabled", ranker != nil),
			slog.Bool("render_js", cfg.RenderJS),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", slog.Any("error", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
