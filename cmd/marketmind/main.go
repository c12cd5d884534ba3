package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"MarketMind/internal/collector"
	"MarketMind/internal/config"
	"MarketMind/internal/httpapi"
	"MarketMind/internal/logger"
	"MarketMind/internal/model"
	"MarketMind/internal/presenter"
	"MarketMind/internal/scheduler"
	"MarketMind/internal/sentiment"
)

func main() {
	cfgPath := flag.String("config", config.Path(), "path to the YAML config file")
	symbol := flag.String("symbol", "", "render one dashboard for this symbol to stdout and exit")
	period := flag.String("period", "", "period for -symbol (1mo, 3mo, 6mo, ytd, 1y, 5y, max)")
	flag.Parse()

	if err := run(*cfgPath, *symbol, *period); err != nil {
		fmt.Fprintln(os.Stderr, "marketmind:", err)
		os.Exit(1)
	}
}

func run(cfgPath, symbol, period string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger.Init(cfg.Logging.Env)
	defer logger.Sync()
	log := logger.Get()

	bars, news, err := buildFetchers(cfg)
	if err != nil {
		return err
	}
	log.Infof("data source: bars=%s news=%s", bars.Name(), newsName(news))

	scorer, err := buildScorer(cfg.Dashboard.LexiconPath)
	if err != nil {
		return err
	}
	col := collector.NewCollector(bars, news, scorer, cfg.Dashboard.Windows)

	defaultPeriod, err := model.ParsePeriod(cfg.Dashboard.DefaultPeriod)
	if err != nil {
		return err
	}

	if symbol != "" {
		return renderOnce(col, symbol, period, defaultPeriod, cfg.Dashboard.NewsLimit)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, closeCatalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()
	log.Infof("catalog loaded: %d tickers, default %s", cat.Len(), cat.Default())

	var health httpapi.HealthReporter
	if cfg.Probe.Enabled {
		sched := scheduler.NewScheduler(ctx, bars, news, cfg.Probe.Symbol)
		if err := sched.Register(cfg.Probe.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		go sched.RunNow()
		health = sched
	}

	gin.SetMode(cfg.Server.Mode)
	handler := httpapi.NewHandler(col, cat, health, defaultPeriod, cfg.Dashboard.NewsLimit)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("MarketMind listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("MarketMind stopped")
	return nil
}

// renderOnce writes a text report for one symbol to stdout.
func renderOnce(col *collector.Collector, symbol, period string, defaultPeriod model.Period, newsLimit int) error {
	p := defaultPeriod
	if period != "" {
		parsed, err := model.ParsePeriod(period)
		if err != nil {
			return err
		}
		p = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := col.Collect(ctx, collector.Request{Symbol: symbol, Period: p, NewsLimit: newsLimit})
	if err != nil {
		return err
	}
	return presenter.WriteReport(os.Stdout, d)
}

func buildScorer(lexiconPath string) (sentiment.Scorer, error) {
	if lexiconPath == "" {
		s, err := sentiment.NewDefaultScorer()
		if err != nil {
			return nil, fmt.Errorf("default lexicon: %w", err)
		}
		return s, nil
	}
	lex, err := sentiment.LoadLexicon(lexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return sentiment.NewLexiconScorer(lex), nil
}
