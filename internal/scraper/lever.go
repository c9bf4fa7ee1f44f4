package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/baxromumarov/fundedlist/internal/httpx"
)

const DefaultLeverAPI = "https://api.lever.co/v0/postings"

type leverPosting struct {
	ID          string        `json:"id"`
	Text        string        `json:"text"`
	HostedURL   string        `json:"hostedUrl"`
	Categories  leverCategory `json:"categories"`
	CreatedAt   int64         `json:"createdAt"`
	Description string        `json:"descriptionPlain"`
}

// Team is decoded but departments come from the title.
type leverCategory struct {
	Team     string `json:"team"`
	Location string `json:"location"`
}

type LeverScraper struct {
	client  *httpx.PoliteClient
	token   string
	company string
	apiBase string
}

func NewLeverScraper(token, company string, client *httpx.PoliteClient) *LeverScraper {
	if client == nil {
		client = httpx.NewPoliteClient("")
	}
	return &LeverScraper{
		client:  client,
		token:   strings.TrimSpace(token),
		company: company,
		apiBase: DefaultLeverAPI,
	}
}

func (l *LeverScraper) WithAPIBase(base string) *LeverScraper {
	if base != "" {
		l.apiBase = strings.TrimSuffix(base, "/")
	}
	return l
}

func (l *LeverScraper) FetchJobs(ctx context.Context) ([]RawJob, error) {
	if l.token == "" {
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s/%s?mode=json", l.apiBase, url.PathEscape(l.token))
	var postings []leverPosting
	if err := l.client.GetJSON(ctx, apiURL, &postings); err != nil {
		return nil, fmt.Errorf("lever fetch failed: %w", err)
	}

	jobs := make([]RawJob, 0, len(postings))
	for _, p := range postings {
		title := strings.TrimSpace(p.Text)
		if title == "" {
			continue
		}
		var posted time.Time
		if p.CreatedAt > 0 {
			posted = time.UnixMilli(p.CreatedAt).UTC()
		}
		jobs = append(jobs, RawJob{
			URL:         p.HostedURL,
			Title:       title,
			Description: p.Description,
			Company:     l.company,
			Location:    locationOrRemote(p.Categories.Location),
			PostedAt:    posted,
		})
	}
	return jobs, nil
}
