package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	UndisclosedAmount = "Undisclosed"
	DefaultRound      = "Funding"
)

var amountPatterns = []struct {
	re     *regexp.Regexp
	suffix string
}{
	{re: regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)\s*(billion|B)\b`), suffix: "B"},
	{re: regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)\s*(million|M)\b`), suffix: "M"},
	{re: regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)\s*(thousand|K)\b`), suffix: "K"},
}

// roundTypes is checked in order; the first contained in the text wins, so
// "pre-seed" reads as Seed.
var roundTypes = []string{"Seed", "Pre-Seed", "Series A", "Series B", "Series C", "Series D", "Series E", "Series F", "Growth", "IPO"}

var fundingKeywords = []string{"raise", "funding", "series", "seed", "million", "billion", "investment", "round"}

var leadingName = regexp.MustCompile(`^[A-Za-z0-9\s.]+`)

// ParseAmount finds the first dollar figure with a unit, checking billions,
// then millions, then thousands: "raises $1.5 billion" -> "$1.5B".
func ParseAmount(text string) (string, bool) {
	for _, p := range amountPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		num, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return "$" + strconv.FormatFloat(num, 'f', -1, 64) + p.suffix, true
	}
	return "", false
}

func ParseRound(text string) string {
	lower := strings.ToLower(text)
	for _, r := range roundTypes {
		if strings.Contains(lower, strings.ToLower(r)) {
			return r
		}
	}
	return DefaultRound
}

// IsFundingNews reports whether a headline or summary talks about a raise.
func IsFundingNews(title, summary string) bool {
	text := strings.ToLower(title + " " + summary)
	for _, kw := range fundingKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// NameFromHeadline takes the leading run of letters, digits, spaces and dots,
// or the first 30 runes when there is none.
func NameFromHeadline(title string) string {
	if m := leadingName.FindString(title); strings.TrimSpace(m) != "" {
		return strings.TrimSpace(m)
	}
	return truncateRunes(strings.TrimSpace(title), 30)
}

var headlineVerbs = []string{" raises", " secures", " lands", " closes", " gets", " bags", " nabs", " announces", " collects"}

// TrimHeadlineVerb cuts a name at the first funding verb.
func TrimHeadlineVerb(name string) string {
	lower := strings.ToLower(name)
	cut := len(name)
	for _, v := range headlineVerbs {
		if idx := strings.Index(lower, v); idx > 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(name[:cut])
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
