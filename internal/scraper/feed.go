package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/baxromumarov/fundedlist/internal/httpx"
)

const (
	defaultFeedItems = 20
	maxTaglineRunes  = 150
)

// FeedSource reads one RSS/Atom feed of funding news.
type FeedSource struct {
	url        string
	client     *httpx.PoliteClient
	normalizer Normalizer
	maxItems   int
}

func NewFeedSource(feedURL string, client *httpx.PoliteClient) *FeedSource {
	if client == nil {
		client = httpx.NewPoliteClient("")
	}
	return &FeedSource{
		url:        feedURL,
		client:     client,
		normalizer: NewSimpleNormalizer(),
		maxItems:   defaultFeedItems,
	}
}

func (f *FeedSource) Name() string {
	return f.url
}

func (f *FeedSource) FetchCompanies(ctx context.Context) ([]RawCompany, error) {
	body, err := f.client.GetBytes(ctx, f.url)
	if err != nil {
		return nil, fmt.Errorf("feed fetch failed: %w", err)
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed parse failed: %w: %w", httpx.ErrMalformed, err)
	}
	return f.companiesFromFeed(feed), nil
}

func (f *FeedSource) companiesFromFeed(feed *gofeed.Feed) []RawCompany {
	items := feed.Items
	if len(items) > f.maxItems {
		items = items[:f.maxItems]
	}

	var out []RawCompany
	for _, item := range items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		summary := cleanText(f.normalizer, item.Description)
		if !IsFundingNews(title, summary) {
			continue
		}

		text := title + " " + summary
		amount, ok := ParseAmount(text)
		if !ok {
			amount = UndisclosedAmount
		}

		out = append(out, RawCompany{
			Source:       f.url,
			Name:         TrimHeadlineVerb(NameFromHeadline(title)),
			Description:  truncateRunes(summary, maxTaglineRunes),
			ClassifyText: summary,
			Amount:       amount,
			Round:        ParseRound(text),
			Link:         item.Link,
			PublishedAt:  itemTime(item),
		})
	}
	return out
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}
