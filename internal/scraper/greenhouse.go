package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/baxromumarov/fundedlist/internal/httpx"
)

const DefaultGreenhouseAPI = "https://boards-api.greenhouse.io/v1/boards"

type greenhouseBoard struct {
	Jobs []greenhouseJob `json:"jobs"`
}

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

// GreenhouseScraper lists the open roles of one company's Greenhouse board.
type GreenhouseScraper struct {
	client  *httpx.PoliteClient
	token   string
	company string
	apiBase string
}

func NewGreenhouseScraper(token, company string, client *httpx.PoliteClient) *GreenhouseScraper {
	if client == nil {
		client = httpx.NewPoliteClient("")
	}
	return &GreenhouseScraper{
		client:  client,
		token:   strings.TrimSpace(token),
		company: company,
		apiBase: DefaultGreenhouseAPI,
	}
}

func (g *GreenhouseScraper) WithAPIBase(base string) *GreenhouseScraper {
	if base != "" {
		g.apiBase = strings.TrimSuffix(base, "/")
	}
	return g
}

func (g *GreenhouseScraper) FetchJobs(ctx context.Context) ([]RawJob, error) {
	if g.token == "" {
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s/%s/jobs", g.apiBase, url.PathEscape(g.token))
	var board greenhouseBoard
	if err := g.client.GetJSON(ctx, apiURL, &board); err != nil {
		return nil, fmt.Errorf("greenhouse fetch failed: %w", err)
	}

	jobs := make([]RawJob, 0, len(board.Jobs))
	for _, j := range board.Jobs {
		title := strings.TrimSpace(j.Title)
		if title == "" {
			continue
		}
		posted, _ := time.Parse(time.RFC3339, j.UpdatedAt)
		jobs = append(jobs, RawJob{
			URL:         j.AbsoluteURL,
			Title:       title,
			Description: title,
			Company:     g.company,
			Location:    locationOrRemote(j.Location.Name),
			PostedAt:    posted,
		})
	}
	return jobs, nil
}
