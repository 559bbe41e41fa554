package server

import (
	"log/slog"
	"net/http"
	"strings"
)

type ReportRequest struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

type ReportResponse struct {
	Status string `json:"status"`
}

// handleReport records a player's complaint about a room's content for
// later human review.
func handleReport(logger *slog.Logger, reports ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFrom(r)

		var req ReportRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Reason = strings.TrimSpace(req.Reason)
		if req.Reason == "" || len(req.Reason) > 500 {
			writeError(w, http.StatusBadRequest, "reason must be 1-500 characters")
			return
		}
		if req.RoomID == "" {
			writeError(w, http.StatusBadRequest, "roomId is required")
			return
		}

		if err := reports.CreateReport(r.Context(), player.ID, req.RoomID, req.Reason); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Warn("content report submitted",
			"reporter", player.ID,
			"room_id", req.RoomID,
			"reason", req.Reason,
		)

		writeJSON(w, http.StatusOK, ReportResponse{Status: "reported"})
	}
}
