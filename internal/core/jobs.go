package core

import (
	"strings"

	"github.com/baxromumarov/fundedlist/internal/httpx"
	"github.com/baxromumarov/fundedlist/internal/scraper"
	"github.com/baxromumarov/fundedlist/internal/urlutil"
)

// BoardFinder maps companies to job scrapers. Boards are keyed by company id
// or by name and point at a Greenhouse or Lever board URL.
type BoardFinder struct {
	boards  map[string]string
	careers bool
	client  *httpx.PoliteClient
	fetcher *httpx.CollyFetcher
}

func NewBoardFinder(boards map[string]string, careers bool, client *httpx.PoliteClient, fetcher *httpx.CollyFetcher) *BoardFinder {
	folded := make(map[string]string, len(boards))
	for k, v := range boards {
		folded[FoldName(strings.TrimSpace(k))] = v
	}
	return &BoardFinder{
		boards:  folded,
		careers: careers,
		client:  client,
		fetcher: fetcher,
	}
}

func (f *BoardFinder) ScrapersFor(c CompanyRecord) []scraper.JobScraper {
	var out []scraper.JobScraper
	if board, ok := f.board(c); ok {
		if kind, token, ok := urlutil.BoardFromURL(board); ok {
			if scr, ok := scraper.BoardScraper(kind, token, c.ID, f.client); ok {
				out = append(out, scr)
			}
		}
	}
	if f.careers && c.Website != "" {
		out = append(out, scraper.NewCareerScraper(c.Website, c.ID, f.fetcher, f.client))
	}
	return out
}

func (f *BoardFinder) board(c CompanyRecord) (string, bool) {
	if b, ok := f.boards[FoldName(c.ID)]; ok {
		return b, true
	}
	b, ok := f.boards[FoldName(c.Name)]
	return b, ok
}
