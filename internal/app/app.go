// Package app assembles the pipeline from a config. Both binaries share it.
package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/baxromumarov/fundedlist/internal/ai"
	"github.com/baxromumarov/fundedlist/internal/config"
	"github.com/baxromumarov/fundedlist/internal/core"
	"github.com/baxromumarov/fundedlist/internal/dataset"
	"github.com/baxromumarov/fundedlist/internal/httpx"
	"github.com/baxromumarov/fundedlist/internal/scraper"
	"github.com/baxromumarov/fundedlist/internal/site"
	"github.com/baxromumarov/fundedlist/internal/store"
	"github.com/baxromumarov/fundedlist/internal/vc"
)

// Options select the sinks a run publishes to. The JSON writer is always on.
type Options struct {
	Site  bool
	Store bool
}

type App struct {
	Config    *config.Config
	Ingestion *core.IngestionService
	Jobs      *core.JobCollector
	Writer    *dataset.Writer
	Renderer  *site.Renderer
	// Store is nil when no database is configured or Options.Store is off.
	Store *store.Store
}

// SetupLogger installs a JSON slog handler at the configured level.
func SetupLogger(cfg *config.Config, w io.Writer) {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	client := httpx.NewPoliteClient(cfg.UserAgent)
	fetcher := httpx.NewCollyFetcher(cfg.UserAgent)

	renderer, err := site.NewRenderer(cfg.SiteOutput)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Jobs:     NewJobCollector(cfg, client, fetcher),
		Writer:   dataset.NewWriter(cfg.DataDir),
		Renderer: renderer,
	}

	var dbSink, siteSink core.Sink
	if opts.Store && cfg.DatabaseURL != "" {
		db, err := store.NewStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, ""); err != nil {
			db.Close()
			return nil, err
		}
		a.Store = db
		dbSink = db
	}
	if opts.Site {
		siteSink = renderer
	}

	a.Ingestion = core.NewIngestionService(core.IngestionConfig{
		Sources:    Sources(cfg, client, fetcher),
		Normalizer: NewNormalizer(cfg),
		Jobs:       a.Jobs,
		VCs:        vc.All(),
		Sinks:      publishOrder(a.Writer, dbSink, siteSink),
	})
	return a, nil
}

// publishOrder puts the database first so a failed insert leaves the JSON
// files and the last result as they were. Nil sinks are skipped.
func publishOrder(writer, db, page core.Sink) []core.Sink {
	sinks := make([]core.Sink, 0, 3)
	for _, s := range []core.Sink{db, writer, page} {
		if s != nil {
			sinks = append(sinks, s)
		}
	}
	return sinks
}

func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Sources lists the company sources in priority order: curated list, YC
// directory, news feeds, startups.gallery.
func Sources(cfg *config.Config, client *httpx.PoliteClient, fetcher *httpx.CollyFetcher) []scraper.CompanySource {
	sources := []scraper.CompanySource{scraper.NewCuratedSource(cfg.CuratedPath)}
	if cfg.YCURL != "" && cfg.YCLimit > 0 {
		sources = append(sources, core.RankedSource{
			CompanySource: scraper.NewYCSource(cfg.YCURL, client),
			Limit:         cfg.YCLimit,
			Weights:       core.DefaultWeights(),
		})
	}
	for _, feed := range cfg.Feeds {
		sources = append(sources, scraper.NewFeedSource(feed, client))
	}
	if cfg.GalleryURL != "" {
		sources = append(sources, scraper.NewGallerySource(cfg.GalleryURL, fetcher))
	}
	return sources
}

func NewNormalizer(cfg *config.Config) *core.Normalizer {
	classifier := core.NewCompanyClassifier()

	var refiner core.CategoryRefiner
	aiClient := ai.NewClient(cfg.AIProvider, cfg.GeminiAPIKey)
	if g, ok := aiClient.(*ai.GeminiClient); ok {
		aiClient = g.WithModel(cfg.GeminiModel)
	}
	if _, mock := aiClient.(*ai.MockClient); !mock {
		refiner = core.NewClassifierService(aiClient, classifier.Labels())
	}
	return core.NewNormalizer(classifier, vc.All(), refiner)
}

func NewJobCollector(cfg *config.Config, client *httpx.PoliteClient, fetcher *httpx.CollyFetcher) *core.JobCollector {
	var finder core.JobFinder
	if len(cfg.JobBoards) > 0 || cfg.ScrapeCareers {
		finder = core.NewBoardFinder(cfg.JobBoards, cfg.ScrapeCareers, client, fetcher)
	}
	return core.NewJobCollector(finder, core.NewRand(cfg.Seed))
}

// RefreshJobs regenerates jobs.json from the companies already on disk.
func (a *App) RefreshJobs(ctx context.Context) ([]core.JobRecord, error) {
	snap, err := dataset.Load(a.Config.DataDir)
	if err != nil {
		return nil, err
	}
	jobs := a.Jobs.Collect(ctx, snap.Companies.Companies)
	if err := a.Writer.WriteJobs(jobs, snap.Companies.Updated); err != nil {
		return nil, err
	}
	return jobs, nil
}

// WriteVCs writes the embedded investor list to vcs.json.
func (a *App) WriteVCs() ([]vc.Record, error) {
	records := vc.All()
	if err := a.Writer.WriteVCs(records, time.Now().UTC().Truncate(time.Second)); err != nil {
		return nil, err
	}
	return records, nil
}

// BuildSite renders the site from the JSON files in the data directory.
func (a *App) BuildSite() (*dataset.Snapshot, error) {
	snap, err := dataset.Load(a.Config.DataDir)
	if err != nil {
		return nil, err
	}
	if err := a.Renderer.Build(snap); err != nil {
		return nil, err
	}
	return snap, nil
}
