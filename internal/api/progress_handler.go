package api

import (
	"net/http"

	"github.com/hanja-cards/backend/internal/domain/progress"
)

// ── Request / Response types ────────────────────────────────────────────────

type ResetRequest struct {
	Scope   string `json:"scope" validate:"required,oneof=today week all"`
	Confirm bool   `json:"confirm"`
}

type ResetResponse struct {
	Removed int             `json:"removed"`
	Session SessionResponse `json:"session"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /progress/reset
func (h *Handler) resetProgress(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !req.Confirm {
		respondError(w, http.StatusBadRequest, "reset requires confirm: true")
		return
	}

	snap, removed := h.study.ResetScope(r.Context(), progress.Scope(req.Scope))
	h.logger.Info("progress reset via api", "scope", req.Scope, "removed", removed)
	respondJSON(w, http.StatusOK, ResetResponse{
		Removed: removed,
		Session: toSessionResponse(snap),
	})
}
