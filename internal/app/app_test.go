package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/fundedlist/internal/config"
	"github.com/baxromumarov/fundedlist/internal/core"
	"github.com/baxromumarov/fundedlist/internal/dataset"
	"github.com/baxromumarov/fundedlist/internal/httpx"
	"github.com/baxromumarov/fundedlist/internal/scraper"
)

const ycJSON = `[
  {"name": "Bakehouse", "one_liner": "AI copilot for bakeries", "batch": "W24", "isHiring": true, "team_size": 12, "website": "https://bakehouse.example", "status": "Active"},
  {"name": "Oldco", "one_liner": "Payments for merchants", "batch": "S15", "status": "Acquired"}
]`

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Venture</title>
<item><title>Ledgerly raises $12 million Series A</title><description>Ledgerly builds payment rails for banks.</description><link>https://news.example/ledgerly</link></item>
<item><title>Weekly roundup</title><description>Nothing to see.</description></item>
</channel></rss>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/yc.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(ycJSON))
		case "/feed":
			w.Header().Set("Content-Type", "application/rss+xml")
			w.Write([]byte(rss))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.SiteOutput = filepath.Join(dir, "public", "index.html")
	cfg.YCURL = srv.URL + "/yc.json"
	cfg.Feeds = []string{srv.URL + "/feed"}
	cfg.GalleryURL = ""
	cfg.Seed = 7
	return cfg
}

func TestSources_PriorityOrder(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Feeds = []string{"https://a.example/feed", "https://b.example/feed"}

	var names []string
	for _, src := range Sources(cfg, httpx.NewPoliteClient(""), httpx.NewCollyFetcher("")) {
		names = append(names, src.Name())
	}
	assert.Equal(t, []string{
		"curated",
		"ycombinator",
		"https://a.example/feed",
		"https://b.example/feed",
		"startups.gallery",
	}, names)
}

func TestSources_OptionalSourcesOff(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Feeds = nil
	cfg.GalleryURL = ""
	cfg.YCLimit = 0

	sources := Sources(cfg, httpx.NewPoliteClient(""), httpx.NewCollyFetcher(""))
	require.Len(t, sources, 1)
	assert.Equal(t, "curated", sources[0].Name())
}

func TestApp_RunOnceEndToEnd(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, Options{Site: true, Store: true})
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Store)

	res, err := a.Ingestion.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.FailedSources)

	var names []string
	for _, c := range res.Companies {
		names = append(names, c.Name)
	}
	assert.Equal(t, "xAI", names[0])
	assert.Contains(t, names, "Bakehouse")
	assert.Contains(t, names, "Ledgerly")
	assert.NotContains(t, names, "Oldco")
	assert.NotEmpty(t, res.Jobs)

	snap, err := dataset.Load(cfg.DataDir)
	require.NoError(t, err)
	assert.Len(t, snap.Companies.Companies, len(res.Companies))

	html, err := os.ReadFile(cfg.SiteOutput)
	require.NoError(t, err)
	assert.Contains(t, string(html), "const companies = [")
}

func TestApp_RefreshJobsAndBuildSite(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)

	_, err = a.RefreshJobs(context.Background())
	assert.ErrorIs(t, err, core.ErrNoData)
	_, err = a.BuildSite()
	assert.ErrorIs(t, err, core.ErrNoData)

	require.NoError(t, a.Writer.WriteCompanies([]core.CompanyRecord{
		{ID: "acme", Name: "Acme", IsHiring: true, Website: "https://acme.example"},
	}, time.Now()))

	jobs, err := a.RefreshJobs(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, jobs)
	assert.Equal(t, 1, jobs[0].ID)
	assert.Equal(t, "https://acme.example/careers", jobs[0].URL)

	vcs, err := a.WriteVCs()
	require.NoError(t, err)
	assert.NotEmpty(t, vcs)

	snap, err := a.BuildSite()
	require.NoError(t, err)
	assert.Len(t, snap.Jobs.Jobs, len(jobs))
	_, err = os.Stat(cfg.SiteOutput)
	assert.NoError(t, err)
}

type recordingSink struct {
	name  string
	calls *[]string
	err   error
}

func (s recordingSink) Publish(context.Context, *core.Result) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

type fixedSource []scraper.RawCompany

func (fixedSource) Name() string { return "fixed" }

func (f fixedSource) FetchCompanies(context.Context) ([]scraper.RawCompany, error) {
	return f, nil
}

func TestPublishOrder_DatabaseFirst(t *testing.T) {
	t.Parallel()

	var calls []string
	writer := recordingSink{name: "json", calls: &calls}
	db := recordingSink{name: "db", calls: &calls}
	page := recordingSink{name: "site", calls: &calls}

	for _, s := range publishOrder(writer, db, page) {
		require.NoError(t, s.Publish(context.Background(), nil))
	}
	assert.Equal(t, []string{"db", "json", "site"}, calls)

	assert.Len(t, publishOrder(writer, nil, nil), 1)
}

func TestPublishOrder_DatabaseFailureKeepsJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls []string
	db := recordingSink{name: "db", calls: &calls, err: errors.New("connection refused")}

	svc := core.NewIngestionService(core.IngestionConfig{
		Sources: []scraper.CompanySource{fixedSource{{Name: "Acme", Source: "fixed"}}},
		Sinks:   publishOrder(dataset.NewWriter(dir), db, nil),
	})

	_, err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish failed")
	assert.Equal(t, []string{"db"}, calls)
	assert.Nil(t, svc.Last())

	_, statErr := os.Stat(filepath.Join(dir, dataset.CompaniesFile))
	assert.True(t, os.IsNotExist(statErr))
}
