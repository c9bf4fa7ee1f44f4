package core

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Bounds on generated openings per company, inclusive.
const (
	MinJobs       = 2
	MaxJobs       = 4
	MinHiringJobs = 3
	MaxHiringJobs = 6
	maxPostedDays = 7
)

type titleGroup struct {
	Department string
	Titles     []string
}

var sampleTitles = []titleGroup{
	{Department: DepartmentEngineering, Titles: []string{"Senior Software Engineer", "ML Engineer", "Backend Engineer", "Frontend Engineer", "DevOps Engineer", "Data Engineer"}},
	{Department: DepartmentProduct, Titles: []string{"Product Manager", "Senior Product Manager", "Product Lead"}},
	{Department: DepartmentDesign, Titles: []string{"Product Designer", "UX Designer", "Design Lead"}},
	{Department: DepartmentSales, Titles: []string{"Account Executive", "Sales Development Rep", "Head of Sales", "Growth Marketing Manager"}},
	{Department: DepartmentOperations, Titles: []string{"Operations Manager", "Finance Manager", "HR Manager", "Executive Assistant"}},
}

var sampleLocations = []string{"San Francisco, CA", "New York, NY", "Remote", "Austin, TX", "Seattle, WA", "Boston, MA"}

// NewRand returns a seeded source, or a time-seeded one when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// GenerateJobs fabricates openings for companies that have no real listings.
// The same rng state and companies always produce the same jobs.
func GenerateJobs(companies []CompanyRecord, rng *rand.Rand) []JobRecord {
	return GenerateJobsFrom(companies, rng, 1)
}

// GenerateJobsFrom is GenerateJobs with ids starting at firstID.
func GenerateJobsFrom(companies []CompanyRecord, rng *rand.Rand, firstID int) []JobRecord {
	var jobs []JobRecord
	id := firstID
	for _, company := range companies {
		lo, hi := MinJobs, MaxJobs
		if company.IsHiring {
			lo, hi = MinHiringJobs, MaxHiringJobs
		}
		count := lo + rng.Intn(hi-lo+1)

		for i := 0; i < count; i++ {
			group := sampleTitles[rng.Intn(len(sampleTitles))]
			title := group.Titles[rng.Intn(len(group.Titles))]
			location := sampleLocations[rng.Intn(len(sampleLocations))]
			posted := fmt.Sprintf("%dd ago", 1+rng.Intn(maxPostedDays))

			jobs = append(jobs, JobRecord{
				ID:         id,
				CompanyID:  company.ID,
				Title:      title,
				Department: group.Department,
				Location:   location,
				Posted:     posted,
				URL:        careersURL(company.Website),
			})
			id++
		}
	}
	return jobs
}

func careersURL(website string) string {
	website = strings.TrimRight(strings.TrimSpace(website), "/")
	if website == "" {
		return "#"
	}
	return website + "/careers"
}
