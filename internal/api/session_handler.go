package api

import (
	"net/http"

	"github.com/hanja-cards/backend/internal/domain/catalog"
	dailysession "github.com/hanja-cards/backend/internal/domain/daily_session"
	"github.com/hanja-cards/backend/internal/domain/stats"
	"github.com/hanja-cards/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type JudgeRequest struct {
	ID    string `json:"id" validate:"required"`
	Known *bool  `json:"known" validate:"required"`
}

type StartExtraRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=random wrong"`
	Count int    `json:"count" validate:"gte=0"`
}

type RoundResponse struct {
	Total         int  `json:"total"`
	Cursor        int  `json:"cursor"`
	BaseCount     int  `json:"base_count"`
	BaseCompleted bool `json:"base_completed"`
	Paused        bool `json:"paused"`
}

type ExtraResponse struct {
	Kind   dailysession.ExtraKind `json:"kind"`
	Total  int                    `json:"total"`
	Cursor int                    `json:"cursor"`
}

type SessionResponse struct {
	Applied    bool               `json:"applied"`
	Date       string             `json:"date"`
	State      dailysession.State `json:"state"`
	Current    *catalog.Item      `json:"current"`
	Main       RoundResponse      `json:"main"`
	Extra      *ExtraResponse     `json:"extra,omitempty"`
	FinalEnded bool               `json:"final_ended"`
}

type VerdictsResponse struct {
	Known   []catalog.Item `json:"known"`
	Unknown []catalog.Item `json:"unknown"`
}

func toSessionResponse(snap service.Snapshot) SessionResponse {
	s := snap.Session
	resp := SessionResponse{
		Applied: snap.Applied,
		Date:    s.Date,
		State:   snap.State,
		Current: snap.Current,
		Main: RoundResponse{
			Total:         len(s.Main.IDs),
			Cursor:        s.Main.Cursor,
			BaseCount:     s.Main.BaseCount,
			BaseCompleted: s.Main.BaseCompleted,
			Paused:        s.Main.Paused,
		},
		FinalEnded: s.FinalEnded,
	}
	if s.Extra != nil {
		resp.Extra = &ExtraResponse{
			Kind:   s.Extra.Type,
			Total:  len(s.Extra.IDs),
			Cursor: s.Extra.Cursor,
		}
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /session
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSessionResponse(h.study.BuildOrLoadSession(r.Context())))
}

// POST /session/judgments
func (h *Handler) judge(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	snap := h.study.Judge(r.Context(), req.ID, *req.Known)
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// POST /session/end
func (h *Handler) endNow(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSessionResponse(h.study.EndNow(r.Context())))
}

// POST /session/resume
func (h *Handler) resume(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSessionResponse(h.study.Resume(r.Context())))
}

// POST /session/extra
func (h *Handler) startExtra(w http.ResponseWriter, r *http.Request) {
	var req StartExtraRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	snap := h.study.StartExtra(r.Context(), dailysession.ExtraKind(req.Kind), req.Count)
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// POST /session/finalize
func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSessionResponse(h.study.Finalize(r.Context())))
}

// GET /session/summary
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.study.Summary(r.Context()))
}

// GET /session/verdicts
func (h *Handler) getVerdicts(w http.ResponseWriter, r *http.Request) {
	v := h.study.TodayVerdicts(r.Context())
	respondJSON(w, http.StatusOK, h.verdictItems(v))
}

func (h *Handler) verdictItems(v stats.Verdicts) VerdictsResponse {
	cat := h.study.Catalog()
	return VerdictsResponse{
		Known:   cat.Lookup(v.Known),
		Unknown: cat.Lookup(v.Unknown),
	}
}
