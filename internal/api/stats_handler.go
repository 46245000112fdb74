package api

import (
	"net/http"

	"github.com/hanja-cards/backend/internal/calendar"
	"github.com/hanja-cards/backend/internal/domain/catalog"
	"github.com/hanja-cards/backend/internal/domain/stats"
)

// ── Request / Response types ────────────────────────────────────────────────

type StatsResponse struct {
	stats.Stats
	StudyDays []string `json:"study_days"`
}

type DateSummary struct {
	Date string `json:"date"`
	stats.Counts
}

type DateItemsResponse struct {
	Date    string         `json:"date"`
	Total   int            `json:"total"`
	Known   []catalog.Item `json:"known"`
	Unknown []catalog.Item `json:"unknown"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /stats
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(w, http.StatusOK, StatsResponse{
		Stats:     h.study.Stats(ctx),
		StudyDays: h.study.StudyDays(ctx),
	})
}

// GET /stats/dates
func (h *Handler) listDates(w http.ResponseWriter, r *http.Request) {
	st := h.study.Stats(r.Context())

	dates := stats.Dates(st)
	resp := make([]DateSummary, 0, len(dates))
	for _, d := range dates {
		resp = append(resp, DateSummary{Date: d, Counts: st.ByDate[d]})
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /stats/dates/{date}
func (h *Handler) getDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, ok := calendar.Parse(date); !ok {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	items := h.study.ItemsForDate(r.Context(), date)
	cat := h.study.Catalog()
	respondJSON(w, http.StatusOK, DateItemsResponse{
		Date:    date,
		Total:   items.Total,
		Known:   cat.Lookup(items.Known),
		Unknown: cat.Lookup(items.Unknown),
	})
}
