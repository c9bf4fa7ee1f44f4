package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/baxromumarov/fundedlist/internal/observability"
	"github.com/baxromumarov/fundedlist/internal/scraper"
	"github.com/baxromumarov/fundedlist/internal/vc"
)

// ErrNoData means no source produced a usable company. Nothing is published
// and the previous output stays in place.
var ErrNoData = errors.New("no data collected")

// Result is one complete dataset. Each run replaces the previous one.
type Result struct {
	Companies     []CompanyRecord
	VCs           []vc.Record
	Jobs          []JobRecord
	Updated       time.Time
	Skipped       int
	FailedSources []string
}

// Sink receives every successful run, e.g. the JSON writer or the database.
type Sink interface {
	Publish(ctx context.Context, res *Result) error
}

type IngestionConfig struct {
	// Sources are read in priority order; on duplicate names the earlier
	// source wins.
	Sources    []scraper.CompanySource
	Normalizer *Normalizer
	Jobs       *JobCollector
	VCs        []vc.Record
	Sinks      []Sink
}

type IngestionService struct {
	sources    []scraper.CompanySource
	normalizer *Normalizer
	jobs       *JobCollector
	vcs        []vc.Record
	sinks      []Sink
	now        func() time.Time

	runMu sync.Mutex

	mu   sync.Mutex
	last *Result
}

func NewIngestionService(cfg IngestionConfig) *IngestionService {
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(nil, cfg.VCs, nil)
	}
	jobs := cfg.Jobs
	if jobs == nil {
		jobs = NewJobCollector(nil, NewRand(0))
	}
	return &IngestionService{
		sources:    cfg.Sources,
		normalizer: normalizer,
		jobs:       jobs,
		vcs:        cfg.VCs,
		sinks:      cfg.Sinks,
		now:        time.Now,
	}
}

// Start runs the pipeline now and then every interval until ctx ends.
func (s *IngestionService) Start(ctx context.Context, interval time.Duration) {
	go s.runLoop(ctx, interval)
}

func (s *IngestionService) runLoop(ctx context.Context, interval time.Duration) {
	s.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *IngestionService) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("ingestion run failed", "error", err)
	}
}

// Last returns the most recent published result, or nil before the first.
func (s *IngestionService) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// RunOnce executes fetch, normalize, dedup and job collection, then hands the
// result to every sink in order. Runs are serialized.
func (s *IngestionService) RunOnce(ctx context.Context) (*Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := s.now()
	raws, failed, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, ErrNoData
	}

	records, skipped := s.normalizer.NormalizeAll(ctx, raws)
	if skipped > 0 {
		slog.Warn("ingestion skipped malformed records", "count", skipped)
	}
	companies := AssignIDs(DedupCompanies(records))
	if len(companies) == 0 {
		return nil, ErrNoData
	}

	res := &Result{
		Companies:     companies,
		VCs:           s.vcs,
		Jobs:          s.jobs.Collect(ctx, companies),
		Updated:       s.now().UTC(),
		Skipped:       skipped,
		FailedSources: failed,
	}

	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, res); err != nil {
			observability.IncError(observability.ErrorStore, observability.ComponentPublish)
			return nil, fmt.Errorf("publish failed: %w", err)
		}
	}
	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	observability.ObserveRunDuration(s.now().Sub(start).Seconds())
	slog.Info("ingestion run done",
		"companies", len(res.Companies),
		"jobs", len(res.Jobs),
		"skipped", skipped,
		"failed_sources", len(failed),
	)
	return res, nil
}

// fetchAll concatenates source output in priority order. A failing source
// contributes nothing; only cancellation aborts the run.
func (s *IngestionService) fetchAll(ctx context.Context) ([]scraper.RawCompany, []string, error) {
	var (
		raws   []scraper.RawCompany
		failed []string
	)
	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		name := src.Name()
		got, err := src.FetchCompanies(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			observability.IncSourceFailed(name)
			observability.IncError(observability.ClassifyScrapeError(err), observability.SourceComponent(name))
			slog.Warn("ingestion source failed", "source", name, "error", err)
			failed = append(failed, name)
			continue
		}

		observability.IncSourceFetched(name)
		observability.AddRecordsIngested(name, len(got))
		slog.Info("ingestion source done", "source", name, "records", len(got))
		raws = append(raws, got...)
	}
	return raws, failed, nil
}

// RankedSource keeps only the best Limit records of a source that returns an
// unordered directory, such as the YC company list.
type RankedSource struct {
	scraper.CompanySource
	Limit   int
	Weights Weights
}

func (r RankedSource) FetchCompanies(ctx context.Context) ([]scraper.RawCompany, error) {
	raws, err := r.CompanySource.FetchCompanies(ctx)
	if err != nil {
		return nil, err
	}
	ranked := Rank(raws, r.Limit, r.Weights)
	out := make([]scraper.RawCompany, 0, len(ranked))
	for _, sc := range ranked {
		out = append(out, sc.Company)
	}
	return out, nil
}

// JobCollector lists real openings where a board or careers page is known and
// generates sample openings for everyone else.
type JobCollector struct {
	finder      JobFinder
	departments *Classifier
	rng         *rand.Rand
	now         func() time.Time
}

// JobFinder returns the scrapers able to list a company's real openings.
type JobFinder interface {
	ScrapersFor(company CompanyRecord) []scraper.JobScraper
}

func NewJobCollector(finder JobFinder, rng *rand.Rand) *JobCollector {
	if rng == nil {
		rng = NewRand(0)
	}
	return &JobCollector{
		finder:      finder,
		departments: NewDepartmentClassifier(),
		rng:         rng,
		now:         time.Now,
	}
}

// Collect returns real jobs first, then generated ones; ids are sequential
// from 1 across both.
func (j *JobCollector) Collect(ctx context.Context, companies []CompanyRecord) []JobRecord {
	var (
		jobs    []JobRecord
		missing []CompanyRecord
	)
	for _, c := range companies {
		found := j.realJobs(ctx, c)
		if len(found) == 0 {
			missing = append(missing, c)
			continue
		}
		for _, raw := range found {
			jobs = append(jobs, JobRecord{
				ID:         len(jobs) + 1,
				CompanyID:  c.ID,
				Title:      raw.Title,
				Department: j.departments.Classify(raw.Title),
				Location:   raw.Location,
				Posted:     postedLabel(raw.PostedAt, j.now()),
				URL:        firstNonEmpty(raw.URL, careersURL(c.Website)),
			})
		}
	}
	return append(jobs, GenerateJobsFrom(missing, j.rng, len(jobs)+1)...)
}

func (j *JobCollector) realJobs(ctx context.Context, c CompanyRecord) []scraper.RawJob {
	if j.finder == nil || ctx.Err() != nil {
		return nil
	}
	for _, scr := range j.finder.ScrapersFor(c) {
		raw, err := scr.FetchJobs(ctx)
		if err != nil {
			observability.IncError(observability.ClassifyScrapeError(err), observability.ComponentBoard)
			slog.Debug("job scrape failed", "company", c.ID, "error", err)
			continue
		}
		if len(raw) > 0 {
			return raw
		}
	}
	return nil
}

func postedLabel(posted, now time.Time) string {
	if posted.IsZero() {
		return "Recently"
	}
	return DaysAgo(posted, now)
}
