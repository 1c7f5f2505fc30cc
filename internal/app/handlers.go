package app

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courtside-labs/courtcam/internal/session"
)

func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealthz)
	r.Get("/api/status", a.handleStatus)
	r.Get("/api/snapshot", a.handleSnapshot)
	r.Get("/api/recordings", a.handleRecordings)
	r.Get("/api/version", a.handleVersion)

	r.Post("/api/start", a.handleStart)
	r.Post("/api/stop", a.handleStop)
	r.Post("/api/refresh", a.handleRefresh)
	r.Post("/api/dismiss", a.handleDismiss)

	r.Handle("/ws", a.hub.Handler())
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := a.currentSnapshot()

	mode := "live"
	if a.cfg.Demo.Enabled {
		mode = "demo"
	}

	writeJSON(w, map[string]any{
		"name":           "courtcam",
		"device_id":      snap.DeviceID,
		"status":         snap.Status,
		"start_pending":  snap.StartPending,
		"recordings":     len(snap.Recordings),
		"mode":           mode,
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
	})
}

func (a *App) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.currentSnapshot())
}

// handleRecordings returns the cached listing with ready-made playback URLs.
// The console never proxies media; the URL points straight at the device's
// HTTP server.
func (a *App) handleRecordings(w http.ResponseWriter, _ *http.Request) {
	snap := a.currentSnapshot()

	type entry struct {
		Name      string `json:"name"`
		SizeBytes int64  `json:"size_bytes"`
		URL       string `json:"url"`
	}
	entries := make([]entry, len(snap.Recordings))
	for i, rec := range snap.Recordings {
		entries[i] = entry{
			Name:      rec.Name,
			SizeBytes: rec.SizeBytes,
			URL:       a.playbackURL(rec.Name),
		}
	}

	writeJSON(w, map[string]any{"recordings": entries})
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Minutes int    `json:"minutes"`
		Profile string `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	d, err := a.ctrl.Start(r.Context(), body.Minutes, body.Profile)
	a.writeDecision(w, d, err)
}

func (a *App) handleStop(w http.ResponseWriter, r *http.Request) {
	d, err := a.ctrl.Stop(r.Context())
	a.writeDecision(w, d, err)
}

func (a *App) handleRefresh(w http.ResponseWriter, r *http.Request) {
	d, err := a.ctrl.Refresh(r.Context())
	a.writeDecision(w, d, err)
}

func (a *App) handleDismiss(w http.ResponseWriter, r *http.Request) {
	d, err := a.ctrl.Dismiss(r.Context())
	a.writeDecision(w, d, err)
}

// writeDecision renders a gateway decision. Rejections are ordinary 200
// responses with ok=false — they are expected outcomes, not faults; only a
// dead session yields an error status.
func (a *App) writeDecision(w http.ResponseWriter, d session.Decision, err error) {
	if err != nil {
		http.Error(w, "session unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, d)
}

func (a *App) playbackURL(name string) string {
	return strings.TrimRight(a.cfg.Playback.BaseURL, "/") + "/" + name
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
