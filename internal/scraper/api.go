package scraper

import (
	"context"
	"time"
)

// RawCompany is what a source adapter yields before normalization.
// Zero values mean "not provided".
type RawCompany struct {
	Source      string
	Name        string
	Description string
	// ClassifyText is extra text used only for category matching, such as a
	// scraped table row too noisy to show as a tagline.
	ClassifyText string
	Industry     string
	Subindustry  string
	Tags         []string
	TeamSize     int
	Stage        string
	Batch        string
	IsHiring     bool
	TopCompany   bool
	Status       string
	Website      string
	Link         string
	Amount       string
	Round        string
	Investors    []string
	PublishedAt  time.Time
}

type RawJob struct {
	URL         string
	Title       string
	Description string
	Company     string
	Location    string
	PostedAt    time.Time
}

// CompanySource is one ingestion adapter.
type CompanySource interface {
	Name() string
	FetchCompanies(ctx context.Context) ([]RawCompany, error)
}

type JobScraper interface {
	FetchJobs(ctx context.Context) ([]RawJob, error)
}

type Normalizer interface {
	Normalize(htmlContent string) (string, error)
}
