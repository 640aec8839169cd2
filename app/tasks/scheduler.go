package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cambee/cambee-server/app/crawler"
	"github.com/cambee/cambee-server/app/database"
	"github.com/cambee/cambee-server/app/sources"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// SeedResult is one seed's outcome within a tick: either a run result
// or an error, never both.
type SeedResult struct {
	URL    string
	Result *RunResult
	Err    string
}

func (r SeedResult) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(struct {
			URL   string `json:"url"`
			Error string `json:"error"`
		}{r.URL, r.Err})
	}
	var result RunResult
	if r.Result != nil {
		result = *r.Result
	}
	return json.Marshal(struct {
		URL string `json:"url"`
		RunResult
	}{r.URL, result})
}

// Status is a by-value snapshot of the scheduler state.
type Status struct {
	Seeds       []string     `json:"seeds"`
	IntervalMin int          `json:"interval_min"`
	LastRunAt   *time.Time   `json:"last_run_at"`
	NextRunAt   *time.Time   `json:"next_run_at"`
	LastResults []SeedResult `json:"last_results"`
	Timezone    string       `json:"timezone"`
	Running     bool         `json:"running"`
}

type Scheduler struct {
	srcs     *sources.Cache
	db       database.SessionFactory
	fetcher  *crawler.Fetcher
	listings *crawler.ListingExtractor
	details  *crawler.DetailExtractor
	content  *crawler.ContentExtractor
	interval time.Duration
	limit    int
	location *time.Location
	timezone string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	statusMu    sync.RWMutex
	lastRunAt   *time.Time
	nextRunAt   *time.Time
	lastResults []SeedResult
}

func NewScheduler(srcs *sources.Cache, db database.SessionFactory,
	fetcher *crawler.Fetcher, listings *crawler.ListingExtractor,
	details *crawler.DetailExtractor, content *crawler.ContentExtractor,
	interval time.Duration, limit int, location *time.Location, timezone string) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		srcs:     srcs,
		db:       db,
		fetcher:  fetcher,
		listings: listings,
		details:  details,
		content:  content,
		interval: interval,
		limit:    limit,
		location: location,
		timezone: timezone,
	}
}

// Start launches the periodic crawl loop. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		slog.Debug("Scheduler already running, start ignored")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.run(ctx)

	slog.Info("Scheduler started",
		"seeds", s.srcs.Count(),
		"interval", s.interval.String(),
		"timezone", s.timezone)
}

// Stop cancels future ticks and waits for an in-flight tick to finish.
// The tick itself is not cancelled.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// One goroutine drives every tick, so ticks serialize naturally;
	// an overrunning tick delays the next one instead of overlapping.
	s.tick()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	started := time.Now().In(s.location)
	seeds := s.srcs.GetEnabled()
	results := make([]SeedResult, 0, len(seeds))

	for _, src := range seeds {
		result, err := s.runSeed(src)
		if err != nil {
			slog.Error("Seed crawl failed", "url", src.URL, "error", err)
			results = append(results, SeedResult{URL: src.URL, Err: err.Error()})
			continue
		}
		results = append(results, SeedResult{URL: src.URL, Result: &result})
	}

	next := started.Add(s.interval)

	s.statusMu.Lock()
	s.lastRunAt = &started
	s.nextRunAt = &next
	s.lastResults = results
	s.statusMu.Unlock()
}

func (s *Scheduler) runSeed(src sources.Source) (RunResult, error) {
	session, err := s.db.BeginSession()
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to open storage session: %w", err)
	}
	defer session.Close()

	limit := src.Limit
	if limit <= 0 {
		limit = s.limit
	}

	task := NewCrawlSeedTask(src.URL, limit, src.ExtractContent,
		s.fetcher, s.listings, s.details, s.content, session)
	task.Start()

	// Background context: shutdown never cancels a tick in progress.
	return task.Execute(context.Background())
}

// Status returns a consistent snapshot; the result slice is copied so
// callers never observe a mid-tick mutation.
func (s *Scheduler) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()

	status := Status{
		Seeds:       s.srcs.URLs(),
		IntervalMin: int(s.interval / time.Minute),
		Timezone:    s.timezone,
		Running:     s.IsRunning(),
	}
	if s.lastRunAt != nil {
		at := *s.lastRunAt
		status.LastRunAt = &at
	}
	if s.nextRunAt != nil {
		at := *s.nextRunAt
		status.NextRunAt = &at
	}
	status.LastResults = make([]SeedResult, len(s.lastResults))
	copy(status.LastResults, s.lastResults)

	return status
}
