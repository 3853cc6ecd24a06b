package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"leadscout-engine/internal/config"
	"leadscout-engine/internal/events"
)

// ScrapeRequest is what the UI posts to start a run.
type ScrapeRequest struct {
	Keyword    string   `json:"keyword"`
	Platforms  []string `json:"platforms"`
	MaxResults int      `json:"max_results"`
}

type ScrapeStatus struct {
	LastRunAt   string `json:"last_run_at"`
	LastOkAt    string `json:"last_ok_at"`
	LastError   string `json:"last_error"`
	LastRecords int    `json:"last_records"`
	Running     bool   `json:"running"`
}

type ScrapeHandler struct {
	CfgVal       *atomic.Value // config.Config
	ScrapeStatus *atomic.Value // httpapi.ScrapeStatus
	Hub          *events.Hub
	RunScrape    func(ctx context.Context, cfg config.Config, req ScrapeRequest, progress func(float64)) (int, error)
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ScrapeStatus.Load().(ScrapeStatus)
	writeJSON(w, st)
}

func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)

	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "keyword is required")
		return
	}
	if len(req.Platforms) == 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "at least one platform is required")
		return
	}
	// Resolve now so an unknown platform fails the request, not the run.
	if _, err := config.DomainsFor(cfg, req.Platforms); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.MaxResults < 1 {
		req.MaxResults = cfg.Scrape.DefaultMaxResults
	}

	st := h.ScrapeStatus.Load().(ScrapeStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.ScrapeStatus.Store(ScrapeStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastOkAt:  st.LastOkAt,
	})

	reqID := RequestIDFrom(r.Context())

	go func() {
		h.Hub.Emit(reqID, events.TypeScrapeStarted, map[string]any{
			"keyword": req.Keyword, "max_results": req.MaxResults,
		})

		stored, err := h.RunScrape(context.Background(), cfg, req, func(fraction float64) {
			h.Hub.Emit(reqID, events.TypeScrapeProgress, map[string]any{"fraction": fraction})
		})

		now := time.Now().Format(time.RFC3339)
		next := h.ScrapeStatus.Load().(ScrapeStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastRecords = stored
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.ScrapeStatus.Store(next)

		data := map[string]any{"records": stored}
		if err != nil {
			data["error"] = err.Error()
		}
		h.Hub.Emit(reqID, events.TypeScrapeFinished, data)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
