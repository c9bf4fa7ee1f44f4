package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baxromumarov/fundedlist/internal/observability"
	"github.com/baxromumarov/fundedlist/internal/scraper"
	"github.com/baxromumarov/fundedlist/internal/urlutil"
	"github.com/baxromumarov/fundedlist/internal/vc"
)

const (
	MaxTaglineLen = 150
	MaxTags       = 3

	defaultAmount = "Undisclosed"
	defaultRound  = "Funding"
)

// CategoryRefiner gets a second opinion when keywords find nothing.
type CategoryRefiner interface {
	Refine(ctx context.Context, name, text string) (string, error)
}

type Normalizer struct {
	classifier *Classifier
	vcs        []vc.Record
	refiner    CategoryRefiner
	now        func() time.Time
}

func NewNormalizer(classifier *Classifier, vcs []vc.Record, refiner CategoryRefiner) *Normalizer {
	if classifier == nil {
		classifier = NewCompanyClassifier()
	}
	return &Normalizer{
		classifier: classifier,
		vcs:        vcs,
		refiner:    refiner,
		now:        time.Now,
	}
}

// Normalize maps one raw record. ok is false when the record has no name.
// IDs are left empty; AssignIDs fills them once the final set is known.
func (n *Normalizer) Normalize(ctx context.Context, raw scraper.RawCompany) (CompanyRecord, bool) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return CompanyRecord{}, false
	}

	text := classificationText(raw)
	category := n.classifier.Classify(text)
	if category == n.classifier.Default() && n.refiner != nil && strings.TrimSpace(text) != "" {
		refined, err := n.refiner.Refine(ctx, name, text)
		switch {
		case err != nil:
			slog.Debug("category refine failed", "company", name, "error", err)
		case n.classifier.Valid(refined):
			category = refined
		}
	}

	rec := CompanyRecord{
		Name:      name,
		Tagline:   Truncate(strings.TrimSpace(raw.Description), MaxTaglineLen),
		Amount:    firstNonEmpty(raw.Amount, defaultAmount),
		Round:     firstNonEmpty(raw.Round, defaultRound),
		Category:  category,
		Tags:      buildTags(raw, category),
		Investors: n.investors(raw),
		IsHiring:  raw.IsHiring,
		TeamSize:  raw.TeamSize,
		Website:   raw.Website,
		Link:      raw.Link,
		Source:    raw.Source,
		DaysAgo:   DaysAgo(raw.PublishedAt, n.now()),
		Published: formatPublished(raw.PublishedAt),
	}
	return rec, true
}

// NormalizeAll keeps input order and drops records without a name.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []scraper.RawCompany) ([]CompanyRecord, int) {
	out := make([]CompanyRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, ok := n.Normalize(ctx, raw)
		if !ok {
			skipped++
			observability.IncRecordSkipped(raw.Source)
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}

func (n *Normalizer) investors(raw scraper.RawCompany) []string {
	ids := make([]string, 0, len(raw.Investors))
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range raw.Investors {
		add(id)
	}
	for _, id := range vc.MatchInvestors(n.vcs, raw.Name+" "+raw.Description) {
		add(id)
	}
	return ids
}

func classificationText(raw scraper.RawCompany) string {
	parts := []string{raw.Description, raw.ClassifyText, raw.Industry, raw.Subindustry}
	parts = append(parts, raw.Tags...)
	return strings.Join(nonEmpty(parts), " ")
}

func buildTags(raw scraper.RawCompany, category string) []string {
	candidates := append([]string{raw.Industry}, raw.Tags...)
	seen := make(map[string]struct{})
	var tags []string
	for _, t := range candidates {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := FoldName(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, t)
		if len(tags) == MaxTags {
			break
		}
	}
	if len(tags) == 0 {
		tags = []string{CategoryTitle(category)}
	}
	return tags
}

// CategoryTitle turns "dev-tools" into "Dev Tools".
func CategoryTitle(category string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(category, "-", " "))
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// DaysAgo renders the freshness label. Unknown dates read as "1d ago".
func DaysAgo(published, now time.Time) string {
	if published.IsZero() {
		return "1d ago"
	}
	days := int(now.Sub(published).Hours() / 24)
	if days <= 0 {
		return "today"
	}
	return fmt.Sprintf("%dd ago", days)
}

func formatPublished(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// AssignIDs gives every record a slug id that is unique within records.
// A repeated slug gets a numeric suffix: acme, acme-2, acme-3.
func AssignIDs(records []CompanyRecord) []CompanyRecord {
	out := make([]CompanyRecord, len(records))
	taken := make(map[string]struct{}, len(records))
	for i, rec := range records {
		base := urlutil.Slug(rec.Name)
		if base == "" {
			base = fmt.Sprintf("company-%d", i+1)
		}
		id := base
		for n := 2; ; n++ {
			if _, ok := taken[id]; !ok {
				break
			}
			id = fmt.Sprintf("%s-%d", base, n)
		}
		taken[id] = struct{}{}
		rec.ID = id
		out[i] = rec
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func nonEmpty(parts []string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
