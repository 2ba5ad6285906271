package usecase_score

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/logger"
)

var _ score_interface.IngestionUsecase = (*IngestionRunner)(nil)

type IngestionConfig struct {
	// DefaultMaxPieces caps runs started without a limit; <= 0 is unlimited.
	DefaultMaxPieces int
	// Delay is the pause between two processed pages.
	Delay time.Duration
	// ItemTimeout bounds the work on a single page, default 60s.
	ItemTimeout time.Duration
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IngestionRunner discovers piece pages, extracts them, annotates each record
// with an image, and stores the ones the dedup gate admits. Pages are handled
// strictly one after another and a failing page never stops the run. At most
// one run is active at a time.
type IngestionRunner struct {
	source score_interface.PieceSource
	images score_interface.ImageSearcher
	gate   *DedupGate
	config IngestionConfig
	log    *logger.Logger

	// base is the lifetime of background runs; cancelling it stops a run
	// between two pages.
	base  context.Context
	sleep SleepFunc
	now   func() time.Time

	mu      sync.Mutex
	running bool
	last    *score_models.ScrapeRunReport
	wg      sync.WaitGroup
}

// NewIngestionRunner wires a runner. images may be nil, in which case records
// are stored without an image.
func NewIngestionRunner(
	base context.Context,
	source score_interface.PieceSource,
	images score_interface.ImageSearcher,
	repo score_interface.MusicalPieceRepository,
	cfg IngestionConfig,
	log *logger.Logger,
) *IngestionRunner {
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = 60 * time.Second
	}
	return &IngestionRunner{
		source: source,
		images: images,
		gate:   NewDedupGate(repo),
		config: cfg,
		log:    log,
		base:   base,
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// WithSleep replaces the inter-page wait.
func (r *IngestionRunner) WithSleep(sleep SleepFunc) *IngestionRunner {
	r.sleep = sleep
	return r
}

func (r *IngestionRunner) Start(maxPieces int) (*score_models.ScrapeRunReport, error) {
	report, err := r.begin(maxPieces)
	if err != nil {
		return report, err
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute(r.base, report.RunID)
	}()
	return report, nil
}

// Run executes a run synchronously and returns its final report.
func (r *IngestionRunner) Run(ctx context.Context, maxPieces int) (*score_models.ScrapeRunReport, error) {
	report, err := r.begin(maxPieces)
	if err != nil {
		return report, err
	}
	r.execute(ctx, report.RunID)
	return r.Status(), nil
}

func (r *IngestionRunner) Status() *score_models.ScrapeRunReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Wait blocks until the background run, if any, has returned.
func (r *IngestionRunner) Wait() {
	r.wg.Wait()
}

func (r *IngestionRunner) begin(maxPieces int) (*score_models.ScrapeRunReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return r.snapshot(), domain.ErrScrapeRunning
	}
	if maxPieces <= 0 {
		maxPieces = r.config.DefaultMaxPieces
	}
	if maxPieces < 0 {
		maxPieces = 0
	}
	r.running = true
	r.last = &score_models.ScrapeRunReport{
		RunID:     uuid.NewString(),
		Running:   true,
		MaxPieces: maxPieces,
		StartedAt: r.now().UTC(),
	}
	return r.snapshot(), nil
}

// snapshot copies the last report; callers hold r.mu.
func (r *IngestionRunner) snapshot() *score_models.ScrapeRunReport {
	if r.last == nil {
		return nil
	}
	cp := *r.last
	if r.last.FinishedAt != nil {
		finished := *r.last.FinishedAt
		cp.FinishedAt = &finished
	}
	return &cp
}

func (r *IngestionRunner) update(fn func(*score_models.ScrapeRunReport)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.last)
}

func (r *IngestionRunner) finish(runErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	finished := r.now().UTC()
	r.last.FinishedAt = &finished
	r.last.Running = false
	if runErr != nil {
		r.last.Error = runErr.Error()
	}
	r.running = false
}

func (r *IngestionRunner) execute(ctx context.Context, runID string) {
	log := r.log.With("run_id", runID)
	var runErr error
	defer func() {
		r.finish(runErr)
		rep := r.Status()
		log.Info("scrape run finished",
			"discovered", rep.Discovered,
			"inserted", rep.Inserted,
			"duplicates", rep.Duplicates,
			"failed", rep.Failed,
			"error", rep.Error,
		)
	}()

	pages, err := r.source.DiscoverPieceURLs(ctx)
	if err != nil {
		runErr = err
		log.Error("piece discovery failed", "error", err)
		return
	}
	limit := r.Status().MaxPieces
	if limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}
	r.update(func(rep *score_models.ScrapeRunReport) { rep.Discovered = len(pages) })
	log.Info("scrape run started", "pages", len(pages), "max_pieces", limit)

	for i, pageURL := range pages {
		duplicate := r.processPage(ctx, log, i+1, len(pages), pageURL)
		if i == len(pages)-1 || duplicate {
			continue
		}
		if err := r.sleep(ctx, r.config.Delay); err != nil {
			runErr = err
			log.Warn("scrape run interrupted", "error", err)
			return
		}
	}
}

// processPage handles one page and reports whether it was a duplicate.
func (r *IngestionRunner) processPage(ctx context.Context, log *logger.Logger, index, total int, pageURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.config.ItemTimeout)
	defer cancel()
	log = log.With("page", pageURL, "index", index, "total", total)

	outcome := func(fn func(*score_models.ScrapeRunReport)) {
		r.update(func(rep *score_models.ScrapeRunReport) {
			rep.Processed++
			fn(rep)
		})
	}

	piece, err := r.source.ExtractPiece(ctx, pageURL)
	if err != nil {
		log.Warn("extracting piece failed", "error", err)
		outcome(func(rep *score_models.ScrapeRunReport) { rep.Failed++ })
		return false
	}

	if r.images != nil {
		if link, err := r.images.SearchImage(ctx, piece.ImageQuery()); err != nil {
			log.Warn("image lookup failed", "error", err)
		} else {
			piece.ImageURL = link
		}
	}

	id, err := r.gate.Admit(ctx, piece)
	var dup *domain.DuplicateError
	switch {
	case errors.As(err, &dup):
		log.Info("skipping duplicate piece", "existing_id", dup.ExistingID)
		outcome(func(rep *score_models.ScrapeRunReport) { rep.Duplicates++ })
		return true
	case err != nil:
		log.Warn("storing piece failed", "error", err)
		outcome(func(rep *score_models.ScrapeRunReport) { rep.Failed++ })
		return false
	}
	log.Info("piece stored", "id", id, "title", piece.Title)
	outcome(func(rep *score_models.ScrapeRunReport) { rep.Inserted++ })
	return false
}
