package tazaccess

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/theoremus-urban-solutions/taz-accessibility/diag"
	"github.com/theoremus-urban-solutions/taz-accessibility/skim"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("write response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: parameter errors
// are 400, empty scenarios 422, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case diag.IsValidation(err):
		status = http.StatusBadRequest
	case diag.IsEmptyResult(err):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"zones":          s.baseline.Zones.Len(),
		"cached_results": s.engine.CachedResults(),
	})
}

func (s *Server) handleAttributes(w http.ResponseWriter, r *http.Request) {
	type attr struct {
		Name       string `json:"name"`
		Label      string `json:"label"`
		Unit       string `json:"unit"`
		Category   string `json:"category"`
		Aggregable bool   `json:"aggregable"`
	}
	out := make([]attr, 0)
	for _, meta := range s.baseline.Catalog.All() {
		out = append(out, attr{
			Name:       meta.Name,
			Label:      meta.Label,
			Unit:       meta.Unit,
			Category:   meta.Category,
			Aggregable: meta.Aggregable,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// analysisParams parses the parameters shared by the accessibility and
// compare endpoints, falling back to configured defaults.
func (s *Server) analysisParams(r *http.Request) (attribute string, threshold float64, err error) {
	attribute = r.URL.Query().Get("attribute")
	if attribute == "" {
		attribute = s.cfg.Analysis.DefaultAttribute
	}
	threshold = s.cfg.Analysis.DefaultThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", 0, diag.NewValidationError("threshold", "not a number: %q", raw)
		}
	}
	return attribute, threshold, nil
}

func (s *Server) handleAccessibility(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scenarioByName(r.URL.Query().Get("scenario"))
	if err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	attribute, threshold, err := s.analysisParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.engine.Compute(sc, attribute, threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTimeBands(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scenarioByName(r.URL.Query().Get("scenario"))
	if err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	attribute := r.URL.Query().Get("attribute")
	if attribute == "" {
		attribute = s.cfg.Analysis.DefaultAttribute
	}
	rawOrigin := r.URL.Query().Get("origin")
	origin, err := strconv.ParseInt(rawOrigin, 10, 32)
	if err != nil {
		writeError(w, diag.NewValidationError("origin", "not a zone identifier: %q", rawOrigin))
		return
	}
	bandWidth := s.cfg.Analysis.DefaultBandWidth
	if raw := r.URL.Query().Get("band_width"); raw != "" {
		bandWidth, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, diag.NewValidationError("band_width", "not a number: %q", raw))
			return
		}
	}
	res, err := s.engine.ComputeBands(sc, zoning.ZoneID(origin), bandWidth, attribute)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	uploaded, err := s.scenarioByName("uploaded")
	if err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	attribute, threshold, err := s.analysisParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	baseRes, err := s.engine.Compute(s.base, attribute, threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	otherRes, err := s.engine.Compute(uploaded, attribute, threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	cmp, err := Compare(baseRes, otherRes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	type scenarioDiag struct {
		Name      string         `json:"name"`
		ZonePairs int            `json:"zone_pairs"`
		Warnings  map[string]int `json:"warnings"`
		Excluded  int            `json:"excluded_rows"`
	}
	out := map[string]any{}
	out["base"] = scenarioDiag{
		Name:      s.base.Name,
		ZonePairs: s.base.Store.PairCount(),
		Warnings:  s.base.Warnings.Summary(),
		Excluded:  s.base.Warnings.Total(),
	}
	token := s.mu.RLock()
	uploaded := s.uploaded
	s.mu.RUnlock(token)
	if uploaded != nil {
		out["uploaded"] = scenarioDiag{
			Name:      uploaded.Name,
			ZonePairs: uploaded.Store.PairCount(),
			Warnings:  uploaded.Warnings.Summary(),
			Excluded:  uploaded.Warnings.Total(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleScenarioUpload ingests an uploaded travel-time table, builds the
// uploaded scenario against the shared baseline and invalidates every
// cached result.
func (s *Server) handleScenarioUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.Analysis.MaxUploadMB) << 20
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	defer body.Close()

	warns := diag.NewAggregator()
	entries, err := skim.ReadEntriesCSV(body, s.cfg.Analysis.BatchSize, warns)
	if err != nil {
		writeError(w, diag.NewValidationError("upload", "unreadable travel-time table: %v", err))
		return
	}
	rule, err := skim.ParseAggregateRule(s.cfg.Analysis.AggregateRule)
	if err != nil {
		writeError(w, err)
		return
	}
	sc, err := NewScenario("uploaded", entries, s.baseline.Zones, s.baseline.Index, s.baseline.Catalog, rule, warns)
	if err != nil {
		writeError(w, err)
		return
	}
	s.SetUploaded(sc)
	writeJSON(w, http.StatusCreated, map[string]any{
		"scenario":      sc.Name,
		"zone_pairs":    sc.Store.PairCount(),
		"excluded_rows": sc.Warnings.Total(),
		"warnings":      sc.Warnings.Summary(),
	})
}
