package scraper

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/baxromumarov/fundedlist/internal/httpx"
)

const curatedSource = "curated"

//go:embed curated.yaml
var curatedYAML []byte

type curatedEntry struct {
	Name      string   `yaml:"name"`
	Website   string   `yaml:"website"`
	Tagline   string   `yaml:"tagline"`
	Amount    string   `yaml:"amount"`
	Round     string   `yaml:"round"`
	Industry  string   `yaml:"industry"`
	Tags      []string `yaml:"tags"`
	Hiring    bool     `yaml:"hiring"`
	TeamSize  int      `yaml:"teamSize"`
	Investors []string `yaml:"investors"`
}

type curatedFile struct {
	Companies []curatedEntry `yaml:"companies"`
}

// CuratedSource serves the hand-maintained list, from a file when a path is
// given and from the embedded copy otherwise.
type CuratedSource struct {
	path string
}

func NewCuratedSource(path string) *CuratedSource {
	return &CuratedSource{path: path}
}

func (c *CuratedSource) Name() string {
	return curatedSource
}

func (c *CuratedSource) FetchCompanies(_ context.Context) ([]RawCompany, error) {
	data := curatedYAML
	if c.path != "" {
		b, err := os.ReadFile(c.path)
		if err != nil {
			return nil, fmt.Errorf("read curated list: %w", err)
		}
		data = b
	}
	return ParseCurated(data)
}

func ParseCurated(data []byte) ([]RawCompany, error) {
	var f curatedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("curated decode failed: %w: %w", httpx.ErrMalformed, err)
	}
	out := make([]RawCompany, 0, len(f.Companies))
	for _, e := range f.Companies {
		out = append(out, RawCompany{
			Source:      curatedSource,
			Name:        e.Name,
			Description: e.Tagline,
			Industry:    e.Industry,
			Tags:        e.Tags,
			TeamSize:    e.TeamSize,
			Stage:       e.Round,
			IsHiring:    e.Hiring,
			Website:     e.Website,
			Amount:      e.Amount,
			Round:       e.Round,
			Investors:   e.Investors,
		})
	}
	return out, nil
}
