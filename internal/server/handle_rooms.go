package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bardclash/versebattle/internal/battle"
	"github.com/bardclash/versebattle/internal/judge"
)

const defaultRounds = 3

type CreateRoomRequest struct {
	Rounds     int    `json:"rounds,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
	Token  string `json:"token"`
}

type JoinRoomResponse struct {
	RoomID string `json:"roomId"`
	Status string `json:"status"`
}

func handleListRooms(rooms *battle.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rooms.List())
	}
}

// handleCreateRoom opens a challenge-a-friend room: the creator is
// seated immediately and shares the token with the opponent.
func handleCreateRoom(rooms *battle.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFrom(r)

		var req CreateRoomRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Rounds == 0 {
			req.Rounds = defaultRounds
		}
		if req.Rounds < 1 || req.Rounds > 7 {
			writeError(w, http.StatusBadRequest, "rounds must be between 1 and 7")
			return
		}

		id := rooms.Create(req.Rounds, judge.ParseDifficulty(req.Difficulty))
		room, _ := rooms.Get(id)
		room.Lock()
		room.Join(player.ID, player.Name)
		room.Unlock()

		// The room id doubles as the shareable token.
		writeJSON(w, http.StatusOK, CreateRoomResponse{RoomID: id, Token: id})
	}
}

func handleJoinRoom(rooms *battle.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFrom(r)
		token := chi.URLParam(r, "token")

		room, ok := rooms.Get(token)
		if !ok {
			writeError(w, http.StatusNotFound, "room not found or expired")
			return
		}

		room.Lock()
		started, err := room.Join(player.ID, player.Name)
		if started {
			// The creator may already be connected over the websocket.
			room.Broadcast(battle.NewRoundStart(room.CurrentRound, room.TotalRounds, room.Theme))
		}
		room.Unlock()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, JoinRoomResponse{RoomID: room.ID, Status: "joined"})
	}
}

type CreateMatchRequest struct {
	PlayerAID  string `json:"playerAId"`
	PlayerBID  string `json:"playerBId"`
	Rounds     int    `json:"rounds,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type CreateMatchResponse struct {
	RoomID string `json:"roomId"`
}

// handleCreateMatch lets the tournament scheduler create a session with
// two fixed identities, bypassing matchmaking. Guarded by a shared
// service key rather than player auth.
func handleCreateMatch(rooms *battle.Registry, serviceKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Service-Key") != serviceKey {
			writeError(w, http.StatusUnauthorized, "invalid service key")
			return
		}

		var req CreateMatchRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerAID == "" || req.PlayerBID == "" || req.PlayerAID == req.PlayerBID {
			writeError(w, http.StatusBadRequest, "two distinct player ids are required")
			return
		}
		if req.Rounds == 0 {
			req.Rounds = defaultRounds
		}

		id := rooms.CreateReserved(req.Rounds, judge.ParseDifficulty(req.Difficulty), req.PlayerAID, req.PlayerBID)
		writeJSON(w, http.StatusOK, CreateMatchResponse{RoomID: id})
	}
}
