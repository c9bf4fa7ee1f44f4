// Package store keeps a history of every published run in Postgres.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"

	"github.com/baxromumarov/fundedlist/internal/core"
)

//go:embed schema.sql
var embeddedSchema string

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunMigrations executes the schema at schemaPath, or the embedded schema
// when schemaPath is empty. The schema is idempotent.
func (s *Store) RunMigrations(ctx context.Context, schemaPath string) error {
	content := embeddedSchema
	if schemaPath != "" {
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		content = string(data)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, content); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Funding is one stored company row.
type Funding struct {
	ID          int64     `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Website     string    `json:"website"`
	Amount      string    `json:"funding_amount"`
	Round       string    `json:"round_type"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Investors   []string  `json:"investors"`
	Published   string    `json:"published_date"`
	Source      string    `json:"source"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// Job is one stored opening.
type Job struct {
	CompanyID   string
	CompanyName string
	Title       string
	Department  string
	Location    string
	URL         string
	Posted      string
}

// Publish appends one run to the history in a single transaction.
func (s *Store) Publish(ctx context.Context, res *core.Result) error {
	if res == nil || len(res.Companies) == 0 {
		return core.ErrNoData
	}
	scrapedAt := res.Updated
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, f := range fundingRows(res) {
		_, err := tx.ExecContext(ctx, `
INSERT INTO funding (company_id, name, website, funding_amount, round_type, description, category, investors, published_date, source, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`, f.CompanyID, f.Name, f.Website, f.Amount, f.Round, f.Description, f.Category, pq.Array(f.Investors), f.Published, f.Source, scrapedAt)
		if err != nil {
			return fmt.Errorf("insert funding %q: %w", f.CompanyID, err)
		}
	}

	for _, j := range jobRows(res) {
		_, err := tx.ExecContext(ctx, `
INSERT INTO jobs (company_id, company_name, title, department, location, url, posted_date, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, j.CompanyID, j.CompanyName, j.Title, j.Department, j.Location, j.URL, j.Posted, scrapedAt)
		if err != nil {
			return fmt.Errorf("insert job %q: %w", j.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func fundingRows(res *core.Result) []Funding {
	out := make([]Funding, 0, len(res.Companies))
	for _, c := range res.Companies {
		investors := c.Investors
		if investors == nil {
			investors = []string{}
		}
		out = append(out, Funding{
			CompanyID:   c.ID,
			Name:        c.Name,
			Website:     c.Website,
			Amount:      c.Amount,
			Round:       c.Round,
			Description: c.Tagline,
			Category:    c.Category,
			Investors:   investors,
			Published:   c.Published,
			Source:      c.Source,
		})
	}
	return out
}

// jobRows resolves company names; a job whose company is not in the run keeps
// its id as the name.
func jobRows(res *core.Result) []Job {
	names := make(map[string]string, len(res.Companies))
	for _, c := range res.Companies {
		names[c.ID] = c.Name
	}
	out := make([]Job, 0, len(res.Jobs))
	for _, j := range res.Jobs {
		name, ok := names[j.CompanyID]
		if !ok {
			name = j.CompanyID
		}
		out = append(out, Job{
			CompanyID:   j.CompanyID,
			CompanyName: name,
			Title:       j.Title,
			Department:  j.Department,
			Location:    j.Location,
			URL:         j.URL,
			Posted:      j.Posted,
		})
	}
	return out
}

// RecentFunding lists stored companies, newest run first.
func (s *Store) RecentFunding(ctx context.Context, limit, offset int) ([]Funding, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT
    id,
    company_id,
    name,
    COALESCE(website, ''),
    COALESCE(funding_amount, ''),
    COALESCE(round_type, ''),
    COALESCE(description, ''),
    COALESCE(category, ''),
    investors,
    COALESCE(published_date, ''),
    COALESCE(source, ''),
    scraped_at
FROM funding
ORDER BY scraped_at DESC, id ASC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Funding
	for rows.Next() {
		var f Funding
		if err := rows.Scan(
			&f.ID,
			&f.CompanyID,
			&f.Name,
			&f.Website,
			&f.Amount,
			&f.Round,
			&f.Description,
			&f.Category,
			pq.Array(&f.Investors),
			&f.Published,
			&f.Source,
			&f.ScrapedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes history rows scraped before now-age.
func (s *Store) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)

	var total int64
	for _, table := range []string{"funding", "jobs"} {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE scraped_at < $1`, cutoff)
		if err != nil {
			return total, fmt.Errorf("delete old %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
