// Package dataset reads and writes the three JSON collections the site is
// built from.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/baxromumarov/fundedlist/internal/core"
	"github.com/baxromumarov/fundedlist/internal/vc"
)

const (
	CompaniesFile = "companies.json"
	VCsFile       = "vcs.json"
	JobsFile      = "jobs.json"
)

type Companies struct {
	Companies []core.CompanyRecord `json:"companies"`
	Updated   time.Time            `json:"updated"`
}

type VCs struct {
	VCs     []vc.Record `json:"vcs"`
	Updated time.Time   `json:"updated"`
}

type Jobs struct {
	Jobs    []core.JobRecord `json:"jobs"`
	Updated time.Time        `json:"updated"`
}

// Snapshot is everything loaded back from a data directory.
type Snapshot struct {
	Companies Companies
	VCs       VCs
	Jobs      Jobs
}

// Writer stores each run under dir. It implements core.Sink.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Dir() string {
	return w.dir
}

// Publish writes all three files. Each file is replaced atomically, so a
// reader sees either the old or the new version.
func (w *Writer) Publish(_ context.Context, res *core.Result) error {
	if res == nil || len(res.Companies) == 0 {
		return core.ErrNoData
	}
	updated := res.Updated.UTC().Truncate(time.Second)

	if err := w.WriteCompanies(res.Companies, updated); err != nil {
		return err
	}
	if err := w.WriteVCs(res.VCs, updated); err != nil {
		return err
	}
	return w.WriteJobs(res.Jobs, updated)
}

func (w *Writer) WriteCompanies(companies []core.CompanyRecord, updated time.Time) error {
	if companies == nil {
		companies = []core.CompanyRecord{}
	}
	return WriteJSON(filepath.Join(w.dir, CompaniesFile), Companies{Companies: companies, Updated: updated})
}

func (w *Writer) WriteVCs(vcs []vc.Record, updated time.Time) error {
	if vcs == nil {
		vcs = []vc.Record{}
	}
	return WriteJSON(filepath.Join(w.dir, VCsFile), VCs{VCs: vcs, Updated: updated})
}

func (w *Writer) WriteJobs(jobs []core.JobRecord, updated time.Time) error {
	if jobs == nil {
		jobs = []core.JobRecord{}
	}
	return WriteJSON(filepath.Join(w.dir, JobsFile), Jobs{Jobs: jobs, Updated: updated})
}

// WriteJSON encodes v with two-space indentation into a temp file next to
// path and renames it into place.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return WriteFileAtomic(path, append(data, '\n'))
}

func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// Load reads a data directory written by Writer. A missing companies file
// is ErrNoData; missing vcs or jobs files load as empty collections.
func Load(dir string) (*Snapshot, error) {
	var snap Snapshot
	if err := readJSON(filepath.Join(dir, CompaniesFile), &snap.Companies); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrNoData
		}
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, VCsFile), &snap.VCs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, JobsFile), &snap.Jobs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	snap.fillEmpty()
	return &snap, nil
}

// FromResult wraps an in-memory run in the same shape Load returns.
func FromResult(res *core.Result) *Snapshot {
	updated := res.Updated.UTC().Truncate(time.Second)
	snap := &Snapshot{
		Companies: Companies{Companies: res.Companies, Updated: updated},
		VCs:       VCs{VCs: res.VCs, Updated: updated},
		Jobs:      Jobs{Jobs: res.Jobs, Updated: updated},
	}
	snap.fillEmpty()
	return snap
}

func (s *Snapshot) fillEmpty() {
	if s.Companies.Companies == nil {
		s.Companies.Companies = []core.CompanyRecord{}
	}
	if s.VCs.VCs == nil {
		s.VCs.VCs = []vc.Record{}
	}
	if s.Jobs.Jobs == nil {
		s.Jobs.Jobs = []core.JobRecord{}
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
