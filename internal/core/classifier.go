package core

import "strings"

const (
	CategoryAI       = "ai"
	CategoryFintech  = "fintech"
	CategoryHealth   = "health"
	CategoryClimate  = "climate"
	CategoryDevTools = "dev-tools"
	CategoryOther    = "other"
)

const (
	DepartmentEngineering = "engineering"
	DepartmentProduct     = "product"
	DepartmentDesign      = "design"
	DepartmentSales       = "sales"
	DepartmentOperations  = "operations"
)

// Category pairs a label with the keywords that select it.
type Category struct {
	Label    string
	Keywords []string
}

// CompanyCategories is ordered: when text matches several entries the first one wins.
var CompanyCategories = []Category{
	{Label: CategoryAI, Keywords: []string{"ai", "artificial intelligence", "machine learning", "ml", "llm", "gpt", "neural", "deep learning"}},
	{Label: CategoryFintech, Keywords: []string{"fintech", "payment", "banking", "financial", "crypto", "blockchain", "defi", "lending"}},
	{Label: CategoryHealth, Keywords: []string{"health", "medical", "biotech", "pharma", "clinical", "patient", "healthcare", "drug"}},
	{Label: CategoryClimate, Keywords: []string{"climate", "energy", "solar", "wind", "carbon", "sustainable", "green", "ev", "battery"}},
	{Label: CategoryDevTools, Keywords: []string{"developer", "devops", "api", "infrastructure", "cloud", "security", "software", "saas"}},
}

// JobDepartments maps marketing keywords to sales as well; the page has no
// marketing filter.
var JobDepartments = []Category{
	{Label: DepartmentEngineering, Keywords: []string{"engineer", "developer", "swe", "devops", "sre", "architect", "data scientist"}},
	{Label: DepartmentProduct, Keywords: []string{"product manager", "pm", "product lead", "product owner"}},
	{Label: DepartmentDesign, Keywords: []string{"design", "ux", "ui", "creative"}},
	{Label: DepartmentSales, Keywords: []string{"sales", "account", "business development", "bd", "gtm", "revenue"}},
	{Label: DepartmentSales, Keywords: []string{"marketing", "growth", "content", "brand", "communications"}},
	{Label: DepartmentOperations, Keywords: []string{"operations", "ops", "finance", "hr", "people", "legal", "admin"}},
}

// Classifier assigns one label from a fixed table to free text.
type Classifier struct {
	table        []Category
	defaultLabel string
}

// NewClassifier copies table, so later changes by the caller have no effect.
func NewClassifier(table []Category, defaultLabel string) *Classifier {
	copied := make([]Category, len(table))
	for i, c := range table {
		copied[i] = Category{
			Label:    c.Label,
			Keywords: append([]string(nil), c.Keywords...),
		}
	}
	return &Classifier{table: copied, defaultLabel: defaultLabel}
}

func NewCompanyClassifier() *Classifier {
	return NewClassifier(CompanyCategories, CategoryOther)
}

func NewDepartmentClassifier() *Classifier {
	return NewClassifier(JobDepartments, DepartmentEngineering)
}

func (c *Classifier) Classify(text string) string {
	if strings.TrimSpace(text) == "" {
		return c.defaultLabel
	}
	for _, entry := range c.table {
		if MatchesKeywords(text, entry.Keywords) {
			return entry.Label
		}
	}
	return c.defaultLabel
}

// Labels returns the distinct labels in table order followed by the default.
func (c *Classifier) Labels() []string {
	seen := make(map[string]struct{}, len(c.table)+1)
	var out []string
	for _, entry := range c.table {
		if _, ok := seen[entry.Label]; ok {
			continue
		}
		seen[entry.Label] = struct{}{}
		out = append(out, entry.Label)
	}
	if _, ok := seen[c.defaultLabel]; !ok {
		out = append(out, c.defaultLabel)
	}
	return out
}

// Valid reports whether label is one this classifier can return.
func (c *Classifier) Valid(label string) bool {
	for _, l := range c.Labels() {
		if l == label {
			return true
		}
	}
	return false
}

func (c *Classifier) Default() string {
	return c.defaultLabel
}
