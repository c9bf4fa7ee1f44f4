package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/fundedlist/internal/scraper"
	"github.com/baxromumarov/fundedlist/internal/vc"
)

type fakeSource struct {
	name  string
	items []scraper.RawCompany
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchCompanies(_ context.Context) ([]scraper.RawCompany, error) {
	f.calls++
	return f.items, f.err
}

type recordingSink struct {
	results []*Result
	err     error
}

func (r *recordingSink) Publish(_ context.Context, res *Result) error {
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, res)
	return nil
}

type fakeJobs struct {
	jobs []scraper.RawJob
	err  error
}

func (f fakeJobs) FetchJobs(_ context.Context) ([]scraper.RawJob, error) {
	return f.jobs, f.err
}

type fakeFinder map[string][]scraper.JobScraper

func (f fakeFinder) ScrapersFor(c CompanyRecord) []scraper.JobScraper {
	return f[c.ID]
}

func newTestService(sources []scraper.CompanySource, sinks ...Sink) *IngestionService {
	return NewIngestionService(IngestionConfig{
		Sources: sources,
		Jobs:    NewJobCollector(nil, NewRand(1)),
		VCs:     vc.All(),
		Sinks:   sinks,
	})
}

func TestRunOnce_PriorityAndDedup(t *testing.T) {
	t.Parallel()

	curated := &fakeSource{name: "curated", items: []scraper.RawCompany{
		{Source: "curated", Name: "Acme", Description: "Curated machine learning"},
	}}
	feed := &fakeSource{name: "feed", items: []scraper.RawCompany{
		{Source: "feed", Name: "ACME", Description: "Feed copy"},
		{Source: "feed", Name: "Orbit", Description: "Clinical trials"},
		{Source: "feed", Name: ""},
	}}
	sink := &recordingSink{}

	res, err := newTestService([]scraper.CompanySource{curated, feed}, sink).RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Companies, 2)
	assert.Equal(t, "acme", res.Companies[0].ID)
	assert.Equal(t, "curated", res.Companies[0].Source)
	assert.Equal(t, CategoryAI, res.Companies[0].Category)
	assert.Equal(t, "orbit", res.Companies[1].ID)
	assert.Equal(t, CategoryHealth, res.Companies[1].Category)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, res.VCs, len(vc.All()))
	assert.NotEmpty(t, res.Jobs)
	assert.False(t, res.Updated.IsZero())

	require.Len(t, sink.results, 1)
	assert.Same(t, res, sink.results[0])
}

func TestRunOnce_FailedSourceContributesNothing(t *testing.T) {
	t.Parallel()

	broken := &fakeSource{name: "broken", err: errors.New("feed parse failed")}
	ok := &fakeSource{name: "ok", items: []scraper.RawCompany{{Name: "Solo"}}}
	svc := newTestService([]scraper.CompanySource{broken, ok})

	res, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, res.FailedSources)
	assert.Equal(t, []string{"Solo"}, names(res.Companies))
	assert.Same(t, res, svc.Last())
}

func TestRunOnce_NoData(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	broken := &fakeSource{name: "broken", err: errors.New("down")}
	empty := &fakeSource{name: "empty"}
	nameless := &fakeSource{name: "nameless", items: []scraper.RawCompany{{Description: "no name"}}}

	svc := newTestService([]scraper.CompanySource{broken, empty, nameless}, sink)
	_, err := svc.RunOnce(context.Background())
	require.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, sink.results)
	assert.Nil(t, svc.Last())
}

func TestRunOnce_SinkError(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "ok", items: []scraper.RawCompany{{Name: "Solo"}}}
	svc := newTestService([]scraper.CompanySource{src}, &recordingSink{err: errors.New("disk full")})

	_, err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Nil(t, svc.Last())
}

func TestRunOnce_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{name: "ok", items: []scraper.RawCompany{{Name: "Solo"}}}
	_, err := newTestService([]scraper.CompanySource{src}).RunOnce(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, src.calls)
}

func TestRankedSource(t *testing.T) {
	t.Parallel()

	inner := &fakeSource{name: "yc", items: []scraper.RawCompany{
		{Name: "small"},
		{Name: "dead", IsHiring: true, Status: "Dead"},
		{Name: "hiring", IsHiring: true},
		{Name: "top", TopCompany: true},
	}}
	src := RankedSource{CompanySource: inner, Limit: 2, Weights: DefaultWeights()}

	assert.Equal(t, "yc", src.Name())
	got, err := src.FetchCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hiring", got[0].Name)
	assert.Equal(t, "top", got[1].Name)

	inner.err = errors.New("down")
	_, err = src.FetchCompanies(context.Background())
	require.Error(t, err)
}

func TestJobCollector_RealThenGenerated(t *testing.T) {
	t.Parallel()

	posted := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	finder := fakeFinder{
		"acme": {
			fakeJobs{err: errors.New("board down")},
			fakeJobs{jobs: []scraper.RawJob{
				{Title: "Growth Marketing Lead", Location: "Remote", URL: "https://acme.dev/jobs/1", PostedAt: posted},
				{Title: "Backend Engineer", Location: "Berlin"},
			}},
		},
	}
	collector := NewJobCollector(finder, NewRand(3))
	collector.now = func() time.Time { return fixedNow }

	companies := []CompanyRecord{
		{ID: "acme", Name: "Acme", Website: "https://acme.dev"},
		{ID: "orbit", Name: "Orbit"},
	}
	jobs := collector.Collect(context.Background(), companies)
	require.True(t, len(jobs) >= 2+MinJobs)

	assert.Equal(t, JobRecord{
		ID: 1, CompanyID: "acme", Title: "Growth Marketing Lead", Department: DepartmentSales,
		Location: "Remote", Posted: "2d ago", URL: "https://acme.dev/jobs/1",
	}, jobs[0])
	assert.Equal(t, "Recently", jobs[1].Posted)
	assert.Equal(t, "https://acme.dev/careers", jobs[1].URL)
	assert.Equal(t, DepartmentEngineering, jobs[1].Department)

	for i, j := range jobs {
		assert.Equal(t, i+1, j.ID)
		if i >= 2 {
			assert.Equal(t, "orbit", j.CompanyID)
		}
	}
}
