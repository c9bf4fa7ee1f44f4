package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/baxromumarov/fundedlist/internal/core"
	"github.com/baxromumarov/fundedlist/internal/dataset"
	"github.com/baxromumarov/fundedlist/internal/observability"
	"github.com/baxromumarov/fundedlist/internal/store"
)

// History is the stored run history, normally *store.Store.
type History interface {
	RecentFunding(ctx context.Context, limit, offset int) ([]store.Funding, error)
}

// Refresher runs the pipeline on demand, normally *core.IngestionService.
type Refresher interface {
	RunOnce(ctx context.Context) (*core.Result, error)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

// loadSnapshot writes the error response itself and returns nil on failure.
func (s *Server) loadSnapshot(w http.ResponseWriter) *dataset.Snapshot {
	snap, err := s.snapshot()
	if errors.Is(err, core.ErrNoData) {
		respondError(w, http.StatusServiceUnavailable, "No data published yet")
		return nil
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load data: "+err.Error())
		return nil
	}
	return snap
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	snap := s.loadSnapshot(w)
	if snap == nil {
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, snap); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render site: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	snap := s.loadSnapshot(w)
	if snap == nil {
		return
	}

	companies := snap.Companies.Companies
	if category := r.URL.Query().Get("category"); category != "" {
		filtered := make([]core.CompanyRecord, 0, len(companies))
		for _, c := range companies {
			if c.Category == category {
				filtered = append(filtered, c)
			}
		}
		companies = filtered
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"total":     len(companies),
		"updated":   snap.Companies.Updated,
	})
}

func (s *Server) handleListVCs(w http.ResponseWriter, r *http.Request) {
	snap := s.loadSnapshot(w)
	if snap == nil {
		return
	}
	respondJSON(w, http.StatusOK, snap.VCs)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	snap := s.loadSnapshot(w)
	if snap == nil {
		return
	}
	limit, offset := parsePagination(r, 50)

	jobs := snap.Jobs.Jobs
	if department := r.URL.Query().Get("department"); department != "" {
		filtered := make([]core.JobRecord, 0, len(jobs))
		for _, j := range jobs {
			if j.Department == department {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}

	total := len(jobs)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  page(jobs, limit, offset),
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20)

	rows, err := s.history.RecentFunding(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch history: "+err.Error())
		return
	}
	if rows == nil {
		rows = []store.Funding{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  rows,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res, err := s.refresher.RunOnce(r.Context())
	if errors.Is(err, core.ErrNoData) {
		respondError(w, http.StatusServiceUnavailable, "No source produced data")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Refresh failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies":      len(res.Companies),
		"jobs":           len(res.Jobs),
		"skipped":        res.Skipped,
		"failed_sources": res.FailedSources,
		"updated":        res.Updated,
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
