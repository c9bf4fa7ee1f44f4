package core

// CompanyRecord is the canonical company entry handed to the renderer.
type CompanyRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Tagline   string   `json:"tagline"`
	Amount    string   `json:"amount"`
	Round     string   `json:"round"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Investors []string `json:"investors"`
	IsHiring  bool     `json:"isHiring"`
	TeamSize  int      `json:"teamSize,omitempty"`
	Website   string   `json:"website,omitempty"`
	Link      string   `json:"link,omitempty"`
	Source    string   `json:"source"`
	DaysAgo   string   `json:"daysAgo"`
	Published string   `json:"published,omitempty"`
}

// JobRecord is one opening, real or generated.
type JobRecord struct {
	ID         int    `json:"id"`
	CompanyID  string `json:"companyId"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Location   string `json:"location"`
	Posted     string `json:"posted"`
	URL        string `json:"url"`
}
