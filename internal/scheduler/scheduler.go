// Package scheduler runs the periodic provider health probe.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"MarketMind/internal/collector"
	"MarketMind/internal/logger"
)

const probeTimeout = 20 * time.Second

// ProbeStatus is the last health check result for one provider.
type ProbeStatus struct {
	Provider  string    `json:"provider"`
	Kind      string    `json:"kind"`
	CheckedAt time.Time `json:"checkedAt"`
	OK        bool      `json:"ok"`
	LatencyMs int64     `json:"latencyMs"`
	Error     string    `json:"error,omitempty"`
}

// Scheduler manages the cron-driven probe and holds its latest results.
type Scheduler struct {
	Cron   *cron.Cron
	Bars   collector.Fetcher
	News   collector.NewsFetcher
	Symbol string
	Ctx    context.Context

	mu     sync.RWMutex
	status map[string]ProbeStatus
	now    func() time.Time
}

// NewScheduler creates a new Scheduler. news may be nil.
func NewScheduler(ctx context.Context, bars collector.Fetcher, news collector.NewsFetcher, symbol string) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Bars:   bars,
		News:   news,
		Symbol: symbol,
		Ctx:    ctx,
		status: map[string]ProbeStatus{},
		now:    time.Now,
	}
}

// Register adds the probe job on the given 6-field spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("register probe task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Get().Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running probe to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Get().Info("scheduler stopped")
}

// RunNow probes every configured provider once.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(s.Ctx, probeTimeout)
	defer cancel()

	s.probe(ctx, s.Bars.Name(), "bars", func(ctx context.Context) error {
		_, err := s.Bars.FetchQuote(ctx, s.Symbol)
		return err
	})
	if s.News != nil {
		s.probe(ctx, s.News.Name(), "news", func(ctx context.Context) error {
			_, err := s.News.FetchNews(ctx, s.Symbol, 1)
			return err
		})
	}
}

func (s *Scheduler) probe(ctx context.Context, provider, kind string, fn func(context.Context) error) {
	start := s.now()
	err := fn(ctx)
	st := ProbeStatus{
		Provider:  provider,
		Kind:      kind,
		CheckedAt: start.UTC(),
		OK:        err == nil,
		LatencyMs: s.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		st.Error = err.Error()
		logger.Get().Warnf("probe %s provider %s failed: %v", kind, provider, err)
	} else {
		logger.Get().Debugf("probe %s provider %s ok in %dms", kind, provider, st.LatencyMs)
	}

	s.mu.Lock()
	s.status[kind] = st
	s.mu.Unlock()
}

// Status returns the latest results ordered by kind. Empty before the
// first run.
func (s *Scheduler) Status() []ProbeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProbeStatus, 0, len(s.status))
	for _, st := range s.status {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Healthy reports whether every probe that has run succeeded.
func (s *Scheduler) Healthy() bool {
	for _, st := range s.Status() {
		if !st.OK {
			return false
		}
	}
	return true
}
