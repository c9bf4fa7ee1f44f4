package core

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/baxromumarov/fundedlist/internal/scraper"
)

// Weights are the additive points Score hands out per signal.
type Weights struct {
	Hiring        int
	TopCompany    int
	TeamLarge     int // team size >= 100
	TeamMedium    int // >= 20
	TeamSmall     int // >= 5
	FundedStage   int // stage mentions series or growth
	RecentBatch   int
	RecentYear    int // two-digit batch year at or above which RecentBatch applies
	ModerateBatch int
	ModerateYear  int
}

func DefaultWeights() Weights {
	return Weights{
		Hiring:        20,
		TopCompany:    10,
		TeamLarge:     5,
		TeamMedium:    3,
		TeamSmall:     1,
		FundedStage:   5,
		RecentBatch:   3,
		RecentYear:    24,
		ModerateBatch: 1,
		ModerateYear:  22,
	}
}

// Scored pairs a candidate with its score. The candidate is a copy.
type Scored struct {
	Company scraper.RawCompany
	Score   int
}

var excludedStatuses = []string{"dead", "inactive", "acquired"}

var batchYearPattern = regexp.MustCompile(`(\d{2})\s*$`)

// Eligible reports whether a candidate may be ranked at all.
func Eligible(c scraper.RawCompany) bool {
	if strings.TrimSpace(c.Name) == "" {
		return false
	}
	status := strings.ToLower(strings.TrimSpace(c.Status))
	for _, s := range excludedStatuses {
		if status == s {
			return false
		}
	}
	return true
}

func Score(c scraper.RawCompany, w Weights) int {
	score := 0
	if c.IsHiring {
		score += w.Hiring
	}
	if c.TopCompany {
		score += w.TopCompany
	}

	switch {
	case c.TeamSize >= 100:
		score += w.TeamLarge
	case c.TeamSize >= 20:
		score += w.TeamMedium
	case c.TeamSize >= 5:
		score += w.TeamSmall
	}

	stage := strings.ToLower(c.Stage)
	if strings.Contains(stage, "series") || strings.Contains(stage, "growth") {
		score += w.FundedStage
	}

	if year, ok := BatchYear(c.Batch); ok {
		switch {
		case year >= w.RecentYear:
			score += w.RecentBatch
		case year >= w.ModerateYear:
			score += w.ModerateBatch
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

// BatchYear extracts the trailing two-digit year from codes like "W24" or
// "Summer 2023".
func BatchYear(batch string) (int, bool) {
	m := batchYearPattern.FindStringSubmatch(strings.TrimSpace(batch))
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Rank drops ineligible candidates, then returns at most limit of the rest
// ordered by descending score. Equal scores keep their input order.
func Rank(candidates []scraper.RawCompany, limit int, w Weights) []Scored {
	if limit <= 0 || len(candidates) == 0 {
		return []Scored{}
	}

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if !Eligible(c) {
			continue
		}
		scored = append(scored, Scored{Company: c, Score: Score(c, w)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
