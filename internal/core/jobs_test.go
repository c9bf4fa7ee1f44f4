package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/fundedlist/internal/scraper"
)

func TestBoardFinder_ScrapersFor(t *testing.T) {
	t.Parallel()

	finder := NewBoardFinder(map[string]string{
		"acme":     "https://boards.greenhouse.io/acme",
		"Skild AI": "https://jobs.lever.co/skild",
		"broken":   "https://example.com/not-a-board",
	}, true, nil, nil)

	got := finder.ScrapersFor(CompanyRecord{ID: "acme", Name: "Acme", Website: "https://acme.dev"})
	require.Len(t, got, 2)
	assert.IsType(t, &scraper.GreenhouseScraper{}, got[0])
	assert.IsType(t, &scraper.CareerScraper{}, got[1])

	got = finder.ScrapersFor(CompanyRecord{ID: "skild-ai", Name: "SKILD AI"})
	require.Len(t, got, 1)
	assert.IsType(t, &scraper.LeverScraper{}, got[0])

	assert.Empty(t, finder.ScrapersFor(CompanyRecord{ID: "broken", Name: "Broken"}))
}

func TestBoardFinder_CareersDisabled(t *testing.T) {
	t.Parallel()

	finder := NewBoardFinder(nil, false, nil, nil)
	assert.Empty(t, finder.ScrapersFor(CompanyRecord{ID: "acme", Website: "https://acme.dev"}))
}
