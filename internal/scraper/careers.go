package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/fundedlist/internal/httpx"
	"github.com/baxromumarov/fundedlist/internal/observability"
	"github.com/baxromumarov/fundedlist/internal/urlutil"
)

const (
	defaultJobLocation = "Remote"
	minTitleRunes      = 6
	maxTitleRunes      = 99
	maxPerSelector     = 20
)

var careerPaths = []string{
	"/careers",
	"/jobs",
	"/join",
	"/work-with-us",
	"/about/careers",
	"/company/careers",
}

// Tried in order; the first selector that yields any job wins.
var jobSelectors = []string{
	".job-listing",
	".job-card",
	".position",
	".opening",
	`[class*="job"]`,
	`[class*="position"]`,
	`[class*="career"]`,
}

const (
	jobTitleSelector    = `h2, h3, h4, .title, [class*="title"]`
	jobLocationSelector = `.location, [class*="location"]`
)

// CareerScraper checks a company website for a careers page and reads the
// openings listed there. A page that only links out to a Greenhouse or Lever
// board is followed through that board's API.
type CareerScraper struct {
	website string
	company string
	fetcher *httpx.CollyFetcher
	client  *httpx.PoliteClient
}

func NewCareerScraper(website, company string, fetcher *httpx.CollyFetcher, client *httpx.PoliteClient) *CareerScraper {
	if fetcher == nil {
		fetcher = httpx.NewCollyFetcher("")
	}
	if client == nil {
		client = httpx.NewPoliteClient("")
	}
	return &CareerScraper{
		website: strings.TrimSuffix(strings.TrimSpace(website), "/"),
		company: company,
		fetcher: fetcher,
		client:  client,
	}
}

// BoardScraper returns the API scraper for a hosted board kind.
func BoardScraper(kind, token, company string, client *httpx.PoliteClient) (JobScraper, bool) {
	switch kind {
	case urlutil.BoardGreenhouse:
		return NewGreenhouseScraper(token, company, client), true
	case urlutil.BoardLever:
		return NewLeverScraper(token, company, client), true
	}
	return nil, false
}

func (s *CareerScraper) FetchJobs(ctx context.Context) ([]RawJob, error) {
	if s.website == "" {
		return nil, nil
	}
	base, err := url.Parse(s.website)
	if err != nil {
		return nil, fmt.Errorf("career page parse url failed: %w", err)
	}
	if base.Scheme == "" {
		base.Scheme = "https"
	}

	var lastErr error
	for _, page := range candidatePages(base) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, _, err := s.fetcher.FetchBytes(ctx, page)
		if err != nil {
			observability.IncError(observability.ClassifyFetchError(err), observability.ComponentCareers)
			lastErr = err
			continue
		}
		observability.IncPagesCrawled(observability.ComponentCareers)

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			lastErr = err
			continue
		}
		if jobs := ParseCareerPage(doc, page, s.company); len(jobs) > 0 {
			return jobs, nil
		}
		if kind, token, ok := BoardLink(doc); ok {
			board, _ := BoardScraper(kind, token, s.company, s.client)
			return board.FetchJobs(ctx)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("career page fetch failed: %w", lastErr)
	}
	return nil, nil
}

// BoardLink returns the first Greenhouse or Lever board linked from doc.
func BoardLink(doc *goquery.Document) (kind, token string, ok bool) {
	doc.Find("a[href], iframe[src], script[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		ref, _ := sel.Attr("href")
		if ref == "" {
			ref, _ = sel.Attr("src")
		}
		kind, token, ok = urlutil.BoardFromURL(ref)
		return !ok
	})
	return kind, token, ok
}

// ParseCareerPage extracts openings from a careers page. Schema.org
// JobPosting markup is preferred over CSS heuristics.
func ParseCareerPage(doc *goquery.Document, pageURL, company string) []RawJob {
	base, _ := url.Parse(pageURL)

	var jobs []RawJob
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		jobs = append(jobs, parseJSONLDJobs(sel.Text())...)
	})
	if len(jobs) > 0 {
		return finishJobs(jobs, pageURL, company)
	}

	for _, selector := range jobSelectors {
		matches := doc.Find(selector)
		if matches.Length() > maxPerSelector {
			matches = matches.Slice(0, maxPerSelector)
		}
		matches.Each(func(_ int, el *goquery.Selection) {
			title := strings.TrimSpace(el.Find(jobTitleSelector).First().Text())
			if !validTitle(title) {
				return
			}
			link := pageURL
			if href, ok := el.Find("a[href]").First().Attr("href"); ok && href != "" {
				link = urlutil.Resolve(base, href)
			}
			jobs = append(jobs, RawJob{
				URL:      link,
				Title:    title,
				Location: strings.TrimSpace(el.Find(jobLocationSelector).First().Text()),
			})
		})
		if len(jobs) > 0 {
			break
		}
	}
	return finishJobs(jobs, pageURL, company)
}

func finishJobs(jobs []RawJob, pageURL, company string) []RawJob {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]RawJob, 0, len(jobs))
	for _, j := range jobs {
		if !validTitle(j.Title) {
			continue
		}
		if j.URL == "" {
			j.URL = pageURL
		}
		key := strings.ToLower(j.Title + "|" + j.URL)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		j.Company = company
		j.Location = locationOrRemote(j.Location)
		if j.Description == "" {
			j.Description = j.Title
		}
		out = append(out, j)
	}
	return out
}

func validTitle(title string) bool {
	n := utf8.RuneCountInString(title)
	return n >= minTitleRunes && n <= maxTitleRunes
}

func locationOrRemote(loc string) string {
	if loc = strings.TrimSpace(loc); loc != "" {
		return loc
	}
	return defaultJobLocation
}

func candidatePages(base *url.URL) []string {
	out := make([]string, 0, len(careerPaths))
	for _, p := range careerPaths {
		next := *base
		next.Path = strings.TrimSuffix(base.Path, "/") + p
		next.RawQuery = ""
		next.Fragment = ""
		out = append(out, next.String())
	}
	return out
}

func parseJSONLDJobs(raw string) []RawJob {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	var jobs []RawJob
	findJobPostings(payload, &jobs)
	return jobs
}

func findJobPostings(payload any, out *[]RawJob) {
	switch t := payload.(type) {
	case map[string]any:
		if isJobPostingType(t["@type"]) {
			*out = append(*out, RawJob{
				URL:         stringField(t["url"]),
				Title:       stringField(t["title"]),
				Description: stringField(t["description"]),
				Location:    parseLocation(t["jobLocation"]),
				PostedAt:    parseDate(t["datePosted"]),
			})
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				findJobPostings(item, out)
			}
		}
	case []any:
		for _, item := range t {
			findJobPostings(item, out)
		}
	}
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if s, ok := t["@value"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func parseLocation(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if loc := parseLocation(item); loc != "" {
				return loc
			}
		}
	case map[string]any:
		if addr, ok := t["address"].(map[string]any); ok {
			var parts []string
			for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
				if p := stringField(addr[key]); p != "" {
					parts = append(parts, p)
				}
			}
			return strings.Join(parts, ", ")
		}
		return stringField(t["name"])
	}
	return ""
}

func parseDate(v any) time.Time {
	val := stringField(v)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t
		}
	}
	return time.Time{}
}
