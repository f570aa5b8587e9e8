package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"northstar-hq/relay/pkg/normalize"
	"northstar-hq/relay/pkg/race"
	"northstar-hq/relay/pkg/records"
)

// livenessHandler answers liveness probes.
type livenessHandler struct{}

func (h *livenessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler answers readiness probes by checking every provider.
// The service is ready when at least one provider is healthy.
type readinessHandler struct {
	health *race.HealthAggregator
}

func (h *readinessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	statuses := h.health.HealthCheckAll(r.Context())
	healthy := 0
	for _, s := range statuses {
		if s.Healthy() {
			healthy++
		}
	}

	status := "ready"
	code := http.StatusOK
	if healthy == 0 {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"providers": statuses,
		"timestamp": time.Now().Unix(),
	})
}

// raceRequest is the body of POST /v1/race.
type raceRequest struct {
	Prompt  string         `json:"prompt"`
	Options map[string]any `json:"options,omitempty"`
}

// raceResponse is the body returned by POST /v1/race.
type raceResponse struct {
	RaceID       string             `json:"raceId"`
	Status       race.Status        `json:"status"`
	Winner       string             `json:"winner,omitempty"`
	RaceTimeMs   float64            `json:"raceTimeMs"`
	Participants []race.Participant `json:"participants"`
	Error        string             `json:"error,omitempty"`
	Report       *normalize.Report  `json:"report,omitempty"`
}

// raceHandler runs a race for the posted prompt and returns the
// normalized report alongside the race outcome.
type raceHandler struct {
	orchestrator *race.Orchestrator
	normalizer   *normalize.Normalizer
	store        records.Store
}

func (h *raceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req raceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	result := h.orchestrator.Race(r.Context(), req.Prompt, req.Options)

	resp := raceResponse{
		RaceID:       result.RaceID,
		Status:       result.Status,
		RaceTimeMs:   result.RaceTimeMs,
		Participants: result.Participants,
		Error:        result.Error,
	}
	if result.Winner != nil {
		resp.Winner = string(result.Winner.Provider)
		report := h.normalizer.Normalize(result.Winner.Content, result.Winner.Provider)
		resp.Report = &report
	}

	if h.store != nil {
		rec := records.RaceRecord{
			ID:           result.RaceID,
			Prompt:       req.Prompt,
			Status:       string(result.Status),
			Winner:       resp.Winner,
			RaceTimeMs:   result.RaceTimeMs,
			Participants: len(result.Participants),
			Report:       resp.Report,
			CreatedAt:    time.Now().UTC(),
		}
		if err := h.store.Save(r.Context(), &rec); err != nil {
			// The race already ran; failing the request now would lose
			// the result the caller paid for.
			slog.Error("saving race record", "race_id", result.RaceID, "error", err)
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// latestReportHandler serves the most recent race record.
type latestReportHandler struct {
	store records.Store
}

func (h *latestReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		writeError(w, http.StatusNotFound, "storage is not configured")
		return
	}

	rec, err := h.store.Latest(r.Context())
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no reports recorded yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "reading latest report: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// listReportsHandler serves recent race records, newest first.
// ?limit=N caps the page size, default 20.
type listReportsHandler struct {
	store records.Store
}

func (h *listReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		writeError(w, http.StatusNotFound, "storage is not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := h.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing reports: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reports": recs,
		"count":   len(recs),
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"error": message})
}
