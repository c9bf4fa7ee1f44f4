// Package site renders the single static page from the three collections.
package site

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baxromumarov/fundedlist/internal/core"
	"github.com/baxromumarov/fundedlist/internal/dataset"
	"github.com/baxromumarov/fundedlist/internal/vc"
)

const FooterDateLayout = "Jan 02, 2006"

//go:embed templates/index.html.tmpl
var indexTemplate string

type page struct {
	Companies    []core.CompanyRecord
	VCs          []vc.Record
	Jobs         []core.JobRecord
	Categories   []string
	Departments  []string
	UpdatedLabel string
}

// Renderer writes index.html. It implements core.Sink.
type Renderer struct {
	tmpl *template.Template
	out  string
	now  func() time.Time
}

func NewRenderer(outPath string) (*Renderer, error) {
	tmpl, err := template.New("index").Funcs(template.FuncMap{
		"title": func(s string) string {
			return cases.Title(language.English).String(strings.ReplaceAll(s, "-", " "))
		},
	}).Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse site template: %w", err)
	}
	return &Renderer{tmpl: tmpl, out: outPath, now: time.Now}, nil
}

func (r *Renderer) OutPath() string {
	return r.out
}

// Render executes the template. The footer shows the dataset timestamp, or
// the current time when the dataset has none.
func (r *Renderer) Render(w io.Writer, snap *dataset.Snapshot) error {
	updated := snap.Companies.Updated
	if updated.IsZero() {
		updated = r.now()
	}
	p := page{
		Companies:    snap.Companies.Companies,
		VCs:          snap.VCs.VCs,
		Jobs:         snap.Jobs.Jobs,
		Categories:   core.NewCompanyClassifier().Labels(),
		Departments:  core.NewDepartmentClassifier().Labels(),
		UpdatedLabel: updated.Format(FooterDateLayout),
	}
	if err := r.tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render site: %w", err)
	}
	return nil
}

// Build renders into memory first so a template error never truncates the
// published page.
func (r *Renderer) Build(snap *dataset.Snapshot) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, snap); err != nil {
		return err
	}
	return dataset.WriteFileAtomic(r.out, buf.Bytes())
}

func (r *Renderer) Publish(_ context.Context, res *core.Result) error {
	return r.Build(dataset.FromResult(res))
}
