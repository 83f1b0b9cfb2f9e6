package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/cropsignal/cropsignal/pkg/alert"
	"github.com/cropsignal/cropsignal/pkg/buildinfo"
	"github.com/cropsignal/cropsignal/pkg/chart"
	"github.com/cropsignal/cropsignal/pkg/errors"
	"github.com/cropsignal/cropsignal/pkg/history"
	"github.com/cropsignal/cropsignal/pkg/monitor"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleSweep triggers a sweep. Query parameters: force=1 runs outside
// the season and bypasses cooldowns, refresh=1 bypasses the fetch cache,
// date=YYYY-MM-DD sweeps a past date.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	opts := monitor.Options{
		Force:   boolParam(r, "force"),
		Refresh: boolParam(r, "refresh"),
	}
	if d := r.URL.Query().Get("date"); d != "" {
		date, err := time.Parse(history.DateFormat, d)
		if err != nil {
			writeError(w, r, errors.New(errors.ErrCodeInvalidDate, "invalid date %q, want YYYY-MM-DD", d))
			return
		}
		opts.Date = date
	}

	res, err := s.runner.Sweep(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	type zoneView struct {
		Name     string   `json:"name"`
		Lat      float64  `json:"lat"`
		Lon      float64  `json:"lon"`
		Weight   float64  `json:"weight"`
		Tier     string   `json:"tier"`
		LastDate string   `json:"last_date,omitempty"`
		LastNDVI *float64 `json:"last_ndvi,omitempty"`
	}
	views := make([]zoneView, 0, len(s.cfg.Zones))
	for _, z := range s.cfg.Zones {
		v := zoneView{
			Name: z.Name, Lat: z.Lat, Lon: z.Lon, Weight: z.Weight, Tier: string(z.Tier()),
		}
		// Records come back date-ascending, so the last one is current.
		if recs, err := s.store.Zone(r.Context(), z.Name); err == nil && len(recs) > 0 {
			last := recs[len(recs)-1]
			v.LastDate = last.Date.Format(history.DateFormat)
			v.LastNDVI = &last.NDVI
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"zones": views})
}

func (s *Server) handleHistoryCSV(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(recs) == 0 {
		writeError(w, r, errors.New(errors.ErrCodeHistoryNotFound, "no observations recorded yet"))
		return
	}
	out, err := history.ExportCSV(recs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ndvi_history.csv"`)
	w.Write(out)
}

func (s *Server) handleZoneChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "zone")
	zone, ok := s.cfg.Zone(name)
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeZoneNotFound, "unknown zone %q", name))
		return
	}

	recs, err := s.store.Zone(r.Context(), zone.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stage := monitor.StageFor(time.Now().UTC())
	series := chart.SeriesFromRecords(zone.Name, recs, stage.MinNDVI)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(chart.RenderLineSVG(series, chart.WithGrid()))
}

// handleTestAlert pushes a synthetic alert through the configured
// channels so operators can verify delivery end to end.
func (s *Server) handleTestAlert(w http.ResponseWriter, r *http.Request) {
	if s.notifier == nil {
		writeJSONError(w, r, http.StatusServiceUnavailable, "no alert channels configured")
		return
	}
	now := time.Now().UTC()
	stage := monitor.StageFor(now)
	a := alert.Alert{
		Zone:     "Test zone",
		Tier:     "small producer",
		Severity: alert.SeverityWatch,
		Date:     now,
		NDVI:     0.42,
		Expected: stage.MinNDVI,
		Anomaly:  -18.0,
		ZScore:   -1.6,
		Delta7d:  -0.12,
		Stage:    stage.Name,
		Message:  "Delivery test, no action needed.",
	}
	if err := s.notifier.Notify(r.Context(), a); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// handleDebug reports the effective configuration without secrets.
func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    buildinfo.Version,
		"commit":     buildinfo.Commit,
		"zones":      len(s.cfg.Zones),
		"thresholds": s.cfg.Thresholds,
		"in_season":  monitor.InSeason(now),
		"stage":      monitor.StageFor(now).Name,
		"cache_ttl":  s.cfg.CacheTTLOrDefault().String(),
	})
}

func boolParam(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidZone,
		errors.ErrCodeInvalidDate, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeZoneNotFound, errors.ErrCodeHistoryNotFound,
		errors.ErrCodeSceneNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		status = http.StatusForbidden
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "error", err)
	}
	writeJSONError(w, r, status, errors.UserMessage(err))
}
