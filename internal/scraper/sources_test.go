package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/fundedlist/internal/httpx"
)

func newServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", http.NotFound)
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient() *httpx.PoliteClient {
	return httpx.NewPoliteClient("test-agent").WithRate(time.Millisecond, 100)
}

func testFetcher() *httpx.CollyFetcher {
	return httpx.NewCollyFetcher("test-agent").WithRate(time.Millisecond, 100)
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Funding news</title>
  <item>
    <title>Acme AI raises $10M Series A</title>
    <link>https://news.example.com/acme</link>
    <description><![CDATA[<p>Acme builds <b>machine learning</b> agents for support teams.</p>]]></description>
    <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
  </item>
  <item>
    <title>Conference recap</title>
    <link>https://news.example.com/recap</link>
    <description>Notes from the keynote.</description>
  </item>
  <item>
    <title>Ledgerly secures $2.5 billion to expand payments</title>
    <link>https://news.example.com/ledgerly</link>
    <description>The growth investment values the bank at $20B.</description>
  </item>
</channel>
</rss>`

func TestFeedSource_FetchCompanies(t *testing.T) {
	t.Parallel()

	srv := newServer(t, map[string]string{"/feed": sampleFeed})
	src := NewFeedSource(srv.URL+"/feed", testClient())
	assert.Equal(t, srv.URL+"/feed", src.Name())

	got, err := src.FetchCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	acme := got[0]
	assert.Equal(t, "Acme AI", acme.Name)
	assert.Equal(t, "$10M", acme.Amount)
	assert.Equal(t, "Series A", acme.Round)
	assert.Equal(t, "Acme builds machine learning agents for support teams.", acme.Description)
	assert.Equal(t, "https://news.example.com/acme", acme.Link)
	assert.Equal(t, 2006, acme.PublishedAt.Year())

	ledgerly := got[1]
	assert.Equal(t, "Ledgerly", ledgerly.Name)
	assert.Equal(t, "$2.5B", ledgerly.Amount)
	assert.Equal(t, "Growth", ledgerly.Round)
	assert.True(t, ledgerly.PublishedAt.IsZero())
}

func TestFeedSource_FetchError(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)
	_, err := NewFeedSource(srv.URL+"/missing", testClient()).FetchCompanies(context.Background())
	require.Error(t, err)
}

func TestFeedSource_NotAFeed(t *testing.T) {
	t.Parallel()

	srv := newServer(t, map[string]string{"/feed": "plain text, no markup"})
	_, err := NewFeedSource(srv.URL+"/feed", testClient()).FetchCompanies(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrMalformed)
}

func TestFeedSource_CapsItems(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<rss version="2.0"><channel><title>x</title>`)
	for i := 0; i < 30; i++ {
		b.WriteString(`<item><title>Startup raises $1M seed</title></item>`)
	}
	b.WriteString(`</channel></rss>`)

	srv := newServer(t, map[string]string{"/feed": b.String()})
	got, err := NewFeedSource(srv.URL+"/feed", testClient()).FetchCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, defaultFeedItems)
}

const sampleGallery = `<html><body>
<table>
  <tr><th>Company</th><th>Amount</th></tr>
  <tr><td><a href="https://acme.dev">Acme</a></td><td>$12 million Seed</td><td>developer platform</td></tr>
  <tr><td><a href="/orbit">Orbit Health</a></td><td>$1.2B Series C</td></tr>
  <tr><td>No money here</td></tr>
</table>
</body></html>`

func TestParseGallery(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sampleGallery))
	require.NoError(t, err)

	got := ParseGallery(doc)
	require.Len(t, got, 2)

	assert.Equal(t, "Acme", got[0].Name)
	assert.Equal(t, "$12M", got[0].Amount)
	assert.Equal(t, "Seed", got[0].Round)
	assert.Equal(t, "https://acme.dev", got[0].Link)
	assert.Equal(t, "https://acme.dev", got[0].Website)
	assert.Contains(t, got[0].ClassifyText, "developer platform")
	assert.Equal(t, gallerySource, got[0].Source)

	assert.Equal(t, "Orbit Health", got[1].Name)
	assert.Equal(t, "$1.2B", got[1].Amount)
	assert.Equal(t, "Series C", got[1].Round)
}

func TestGallerySource_FetchCompanies(t *testing.T) {
	t.Parallel()

	srv := newServer(t, map[string]string{"/news": sampleGallery})
	got, err := NewGallerySource(srv.URL+"/news", testFetcher()).FetchCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme", got[0].Name)
	assert.Equal(t, "https://acme.dev", got[0].Website)
	assert.Equal(t, srv.URL+"/orbit", got[1].Link)
	assert.Empty(t, got[1].Website)
}

const sampleYC = `[
  {"name":"Acme","slug":"acme","website":"https://acme.dev","one_liner":"APIs for robots",
   "long_description":"Long text","team_size":42,"industry":"B2B","subindustry":"B2B -> Engineering",
   "tags":["Developer Tools","API"],"batch":"W24","status":"Active","stage":"Early",
   "isHiring":true,"top_company":false,"launched_at":1700000000,"url":"https://www.ycombinator.com/companies/acme"},
  {"name":"Quiet","one_liner":"","long_description":"Only a long description","team_size":null,
   "batch":"Summer 2019","status":"Inactive"}
]`

func TestYCSource_FetchCompanies(t *testing.T) {
	t.Parallel()

	srv := newServer(t, map[string]string{"/all.json": sampleYC})
	src := NewYCSource(srv.URL+"/all.json", testClient())
	assert.Equal(t, ycSource, src.Name())

	got, err := src.FetchCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	acme := got[0]
	assert.Equal(t, "Acme", acme.Name)
	assert.Equal(t, "APIs for robots", acme.Description)
	assert.Equal(t, 42, acme.TeamSize)
	assert.Equal(t, "YC W24", acme.Round)
	assert.Equal(t, []string{"yc"}, acme.Investors)
	assert.True(t, acme.IsHiring)
	assert.Equal(t, "https://www.ycombinator.com/companies/acme", acme.Link)
	assert.Equal(t, int64(1700000000), acme.PublishedAt.Unix())

	quiet := got[1]
	assert.Equal(t, "Only a long description", quiet.Description)
	assert.Equal(t, 0, quiet.TeamSize)
	assert.Equal(t, "Inactive", quiet.Status)
	assert.True(t, quiet.PublishedAt.IsZero())
}

func TestCuratedSource_Embedded(t *testing.T) {
	t.Parallel()

	got, err := NewCuratedSource("").FetchCompanies(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, got)

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
		assert.Equal(t, curatedSource, c.Source)
	}
	assert.Contains(t, names, "xAI")
	assert.Contains(t, names, "Skild AI")
	assert.Contains(t, names, "Rain")
}

func TestParseCurated_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseCurated([]byte("companies: [unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrMalformed)
}
