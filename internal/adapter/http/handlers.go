package http

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"github.com/couchcryptid/quake-data-etl-service/internal/pipeline"
)

const (
	defaultPreview = 100
	maxPreview     = 10000
)

// analysisResponse is an Analysis with its record list cut to a preview.
type analysisResponse struct {
	*pipeline.Analysis
	Preview int `json:"preview"`
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Columns(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := parseSelection(q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	preview, err := parseInt(q, "preview", defaultPreview)
	if err != nil || preview < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preview must be a non-negative integer"})
		return
	}

	out, err := s.svc.Analyze(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}

	trimmed := *out
	trimmed.Records = out.Records[:min(preview, maxPreview, len(out.Records))]
	writeJSON(w, http.StatusOK, analysisResponse{Analysis: &trimmed, Preview: len(trimmed.Records)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	n, err := s.svc.Export(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"exported": n})
}

// writeError maps pipeline errors to a status code and a user-facing message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := domain.UserMessage(err)
	switch {
	case errors.Is(err, pipeline.ErrNotLoaded):
		status, msg = http.StatusServiceUnavailable, "The earthquake data has not been loaded yet."
	case errors.Is(err, pipeline.ErrExportDisabled):
		status, msg = http.StatusServiceUnavailable, "Export is not enabled on this server."
	case errors.Is(err, domain.ErrUnknownColumn), errors.Is(err, domain.ErrRoleRequired):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrHeaderNotFound), errors.Is(err, domain.ErrNoColumns):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseSelection reads role overrides and filter input from query parameters:
// one parameter per role name, region_value or region_query, mag_min,
// mag_max, year_min, year_max, and skip_mag/skip_year to turn a range off.
func parseSelection(q url.Values) (pipeline.Selection, error) {
	sel := pipeline.Selection{Columns: domain.RoleMapping{}}
	for _, role := range domain.Roles {
		if v := q.Get(string(role)); v != "" {
			sel.Columns[role] = v
		}
	}

	sel.Filter.Region = q.Get("region_value")
	if sel.Filter.Region == "" {
		sel.Filter.Region = q.Get("region_query")
	}

	var err error
	if sel.Filter.MagMin, err = parseFloatPtr(q, "mag_min"); err != nil {
		return sel, err
	}
	if sel.Filter.MagMax, err = parseFloatPtr(q, "mag_max"); err != nil {
		return sel, err
	}
	if sel.Filter.YearMin, err = parseIntPtr(q, "year_min"); err != nil {
		return sel, err
	}
	if sel.Filter.YearMax, err = parseIntPtr(q, "year_max"); err != nil {
		return sel, err
	}
	if sel.Filter.SkipMag, err = parseBool(q, "skip_mag"); err != nil {
		return sel, err
	}
	if sel.Filter.SkipYear, err = parseBool(q, "skip_year"); err != nil {
		return sel, err
	}
	return sel, nil
}

func parseFloatPtr(q url.Values, key string) (*float64, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}

func parseIntPtr(q url.Values, key string) (*int, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

func parseBool(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return v, nil
}

func parseInt(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
