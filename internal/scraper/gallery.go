package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/baxromumarov/fundedlist/internal/httpx"
	"github.com/baxromumarov/fundedlist/internal/observability"
	"github.com/baxromumarov/fundedlist/internal/urlutil"
)

const (
	DefaultGalleryURL = "https://startups.gallery/news"
	gallerySource     = "startups.gallery"
	galleryRows       = "tr, .funding-row, .startup-card"
)

// GallerySource scrapes the startups.gallery funding table.
type GallerySource struct {
	url     string
	fetcher *httpx.CollyFetcher
}

func NewGallerySource(pageURL string, fetcher *httpx.CollyFetcher) *GallerySource {
	if pageURL == "" {
		pageURL = DefaultGalleryURL
	}
	if fetcher == nil {
		fetcher = httpx.NewCollyFetcher("")
	}
	return &GallerySource{url: pageURL, fetcher: fetcher}
}

func (g *GallerySource) Name() string {
	return gallerySource
}

func (g *GallerySource) FetchCompanies(ctx context.Context) ([]RawCompany, error) {
	var out []RawCompany
	err := g.fetcher.Fetch(ctx, g.url, func(c *colly.Collector) {
		c.OnHTML(galleryRows, func(e *colly.HTMLElement) {
			if rc, ok := galleryRow(e.DOM, e.Request.URL); ok {
				out = append(out, rc)
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("gallery fetch failed: %w", err)
	}
	observability.IncPagesCrawled(gallerySource)
	return out, nil
}

// ParseGallery extracts funding rows from an already fetched document.
// Relative links are resolved against doc.Url when it is set.
func ParseGallery(doc *goquery.Document) []RawCompany {
	var out []RawCompany
	doc.Find(galleryRows).Each(func(_ int, s *goquery.Selection) {
		if rc, ok := galleryRow(s, doc.Url); ok {
			out = append(out, rc)
		}
	})
	return out
}

func galleryRow(row *goquery.Selection, page *url.URL) (RawCompany, bool) {
	text := strings.Join(strings.Fields(row.Text()), " ")
	if !looksLikeFunding(text) {
		return RawCompany{}, false
	}

	name := strings.TrimSpace(row.Find("a").First().Text())
	if name == "" {
		name = truncateRunes(text, 30)
	}
	link, _ := row.Find("a[href]").First().Attr("href")
	if link != "" && page != nil {
		link = urlutil.Resolve(page, link)
	}

	amount, ok := ParseAmount(text)
	if !ok {
		amount = UndisclosedAmount
	}
	return RawCompany{
		Source:       gallerySource,
		Name:         name,
		ClassifyText: text,
		Amount:       amount,
		Round:        ParseRound(text),
		Website:      externalSite(link, page),
		Link:         link,
	}, true
}

// externalSite returns link when it points away from the gallery itself,
// which makes it the company's own site rather than a profile page.
func externalSite(link string, page *url.URL) string {
	if link == "" || !urlutil.IsCrawlable(link) {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	if page != nil && urlutil.SameHost(u.Host, page.Host) {
		return ""
	}
	return link
}

func looksLikeFunding(text string) bool {
	if !strings.Contains(text, "$") {
		return false
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "million") ||
		strings.Contains(lower, "billion") ||
		strings.Contains(text, "M") ||
		strings.Contains(text, "B")
}
