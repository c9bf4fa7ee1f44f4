// Package vc holds the static venture firm reference list.
package vc

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Record is one firm. Field names follow the page's JSON.
type Record struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	ShortName      string   `yaml:"shortName" json:"shortName"`
	Logo           string   `yaml:"logo" json:"logo"`
	Website        string   `yaml:"website" json:"website"`
	PortfolioURL   string   `yaml:"portfolioUrl" json:"portfolio_url"`
	AUM            string   `yaml:"aum" json:"aum"`
	Founded        int      `yaml:"founded" json:"founded"`
	PortfolioCount int      `yaml:"portfolioCount" json:"portfolioCount"`
	Focus          []string `yaml:"focus" json:"focus"`
	Notable        []string `yaml:"notable" json:"notable"`
}

type file struct {
	Version int      `yaml:"version"`
	VCs     []Record `yaml:"vcs"`
}

//go:embed vcs.yaml
var vcsYAML []byte

// Version of the embedded list; bump when vcs.yaml changes.
var Version int

var records = mustParse(vcsYAML)

func mustParse(data []byte) []Record {
	out, version, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("vc: embedded list: %v", err))
	}
	Version = version
	return out
}

// Parse decodes a VC list and checks ids are present and unique.
func Parse(data []byte) ([]Record, int, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, 0, fmt.Errorf("decode vc list: %w", err)
	}
	seen := make(map[string]struct{}, len(f.VCs))
	for i, r := range f.VCs {
		if r.ID == "" || r.Name == "" {
			return nil, 0, fmt.Errorf("vc entry %d: id and name are required", i)
		}
		if _, ok := seen[r.ID]; ok {
			return nil, 0, fmt.Errorf("vc entry %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return f.VCs, f.Version, nil
}

// All returns a copy of the embedded list.
func All() []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Focus = append([]string(nil), r.Focus...)
		r.Notable = append([]string(nil), r.Notable...)
		out[i] = r
	}
	return out
}

// MatchInvestors returns the ids of firms named in text, in list order.
// Full names match case-insensitively, short names only with exact case so
// that "FF" or "NEA" do not fire inside ordinary words.
func MatchInvestors(vcs []Record, text string) []string {
	if text == "" {
		return nil
	}
	var ids []string
	for _, r := range vcs {
		if wordMatch(r.Name, text, true) || wordMatch(r.ShortName, text, false) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func wordMatch(term, text string, foldCase bool) bool {
	if term == "" {
		return false
	}
	expr := `\b` + regexp.QuoteMeta(term) + `\b`
	if foldCase {
		expr = `(?i)` + expr
	}
	return regexp.MustCompile(expr).MatchString(text)
}
