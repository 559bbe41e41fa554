package server

import (
	"net/http"
	"time"

	"github.com/bardclash/versebattle/internal/battle"
)

type QueueResponse struct {
	RoomID   string `json:"roomId,omitempty"`
	Opponent string `json:"opponent,omitempty"`
	Position int    `json:"position"`
	Status   string `json:"status"`
}

// handleQueue blocks until the caller is paired, the wait elapses, or
// the request is cancelled. Withdrawal is cooperative: a pairing that
// races the timeout still wins because the result channel is buffered.
func handleQueue(queue *battle.Queue, wait time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFrom(r)

		matched := queue.Enqueue(player.ID, player.Name)

		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case res := <-matched:
			writeJSON(w, http.StatusOK, QueueResponse{
				RoomID:   res.RoomID,
				Opponent: res.OpponentName,
				Status:   "matched",
			})

		case <-r.Context().Done():
			queue.Withdraw(player.ID)
			if res, ok := drain(matched); ok {
				writeJSON(w, http.StatusOK, QueueResponse{RoomID: res.RoomID, Opponent: res.OpponentName, Status: "matched"})
				return
			}
			writeJSON(w, http.StatusOK, QueueResponse{Status: "cancelled"})

		case <-timer.C:
			queue.Withdraw(player.ID)
			if res, ok := drain(matched); ok {
				writeJSON(w, http.StatusOK, QueueResponse{RoomID: res.RoomID, Opponent: res.OpponentName, Status: "matched"})
				return
			}
			writeJSON(w, http.StatusOK, QueueResponse{Position: queue.Size(), Status: "timeout"})
		}
	}
}

func drain(ch <-chan battle.MatchResult) (battle.MatchResult, bool) {
	select {
	case res := <-ch:
		return res, true
	default:
		return battle.MatchResult{}, false
	}
}
