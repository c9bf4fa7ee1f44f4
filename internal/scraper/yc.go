package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baxromumarov/fundedlist/internal/httpx"
)

const (
	DefaultYCURL = "https://yc-oss.github.io/api/companies/hiring.json"
	ycSource     = "ycombinator"
	ycInvestorID = "yc"
)

type ycCompany struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Website         string   `json:"website"`
	OneLiner        string   `json:"one_liner"`
	LongDescription string   `json:"long_description"`
	TeamSize        int      `json:"team_size"`
	Industry        string   `json:"industry"`
	Subindustry     string   `json:"subindustry"`
	Tags            []string `json:"tags"`
	Batch           string   `json:"batch"`
	Status          string   `json:"status"`
	Stage           string   `json:"stage"`
	IsHiring        bool     `json:"isHiring"`
	TopCompany      bool     `json:"top_company"`
	LaunchedAt      int64    `json:"launched_at"`
	URL             string   `json:"url"`
}

// YCSource reads the public Y Combinator company directory mirror.
// Records come back unranked; callers pick the top entries.
type YCSource struct {
	url    string
	client *httpx.PoliteClient
}

func NewYCSource(apiURL string, client *httpx.PoliteClient) *YCSource {
	if apiURL == "" {
		apiURL = DefaultYCURL
	}
	if client == nil {
		client = httpx.NewPoliteClient("")
	}
	return &YCSource{url: apiURL, client: client}
}

func (y *YCSource) Name() string {
	return ycSource
}

func (y *YCSource) FetchCompanies(ctx context.Context) ([]RawCompany, error) {
	var data []ycCompany
	if err := y.client.GetJSON(ctx, y.url, &data); err != nil {
		return nil, fmt.Errorf("yc fetch failed: %w", err)
	}

	out := make([]RawCompany, 0, len(data))
	for _, c := range data {
		out = append(out, c.raw())
	}
	return out, nil
}

func (c ycCompany) raw() RawCompany {
	desc := strings.TrimSpace(c.OneLiner)
	if desc == "" {
		desc = strings.TrimSpace(c.LongDescription)
	}

	round := c.Stage
	if c.Batch != "" {
		round = "YC " + c.Batch
	}

	var launched time.Time
	if c.LaunchedAt > 0 {
		launched = time.Unix(c.LaunchedAt, 0).UTC()
	}

	return RawCompany{
		Source:      ycSource,
		Name:        strings.TrimSpace(c.Name),
		Description: desc,
		Industry:    c.Industry,
		Subindustry: c.Subindustry,
		Tags:        c.Tags,
		TeamSize:    c.TeamSize,
		Stage:       c.Stage,
		Batch:       c.Batch,
		IsHiring:    c.IsHiring,
		TopCompany:  c.TopCompany,
		Status:      c.Status,
		Website:     c.Website,
		Link:        c.URL,
		Round:       round,
		Investors:   []string{ycInvestorID},
		PublishedAt: launched,
	}
}
