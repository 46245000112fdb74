// internal/api/router.go
package api

import "net/http"

// RegisterRoutes wires every study endpoint onto mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Session
	mux.HandleFunc("GET /session", h.getSession)
	mux.HandleFunc("POST /session/judgments", h.judge)
	mux.HandleFunc("POST /session/end", h.endNow)
	mux.HandleFunc("POST /session/resume", h.resume)
	mux.HandleFunc("POST /session/extra", h.startExtra)
	mux.HandleFunc("POST /session/finalize", h.finalize)
	mux.HandleFunc("GET /session/summary", h.getSummary)
	mux.HandleFunc("GET /session/verdicts", h.getVerdicts)

	// Progress
	mux.HandleFunc("POST /progress/reset", h.resetProgress)

	// Stats
	mux.HandleFunc("GET /stats", h.getStats)
	mux.HandleFunc("GET /stats/dates", h.listDates)
	mux.HandleFunc("GET /stats/dates/{date}", h.getDate)
}
