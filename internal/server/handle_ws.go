package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"nhooyr.io/websocket"

	"github.com/bardclash/versebattle/internal/battle"
	"github.com/bardclash/versebattle/internal/moderation"
)

// clientMessage is the closed set of inbound frames, tagged by type:
// join_room, submit_verse, use_item, forfeit.
type clientMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id,omitempty"`
	Text   string `json:"text,omitempty"`
	ItemID string `json:"item_id,omitempty"`
}

const maxVerseLen = 2000

// handleWS is the session transport: one connection per participant per
// match. Inbound frames mutate the room under its lock; outbound events
// arrive on the room's fan-out channel and are forwarded by a goroutine
// bound to this connection's lifetime.
func handleWS(logger *slog.Logger, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := deps.Auth.Verify(r.URL.Query().Get("token"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		sess := &wsSession{
			logger: logger,
			deps:   deps,
			player: player,
			conn:   conn,
		}
		sess.run(r.Context())
	}
}

type wsSession struct {
	logger *slog.Logger
	deps   Deps
	player Player
	conn   *websocket.Conn

	// writeMu serializes direct replies with forwarded broadcasts.
	writeMu sync.Mutex

	room   *battle.Room
	events chan []byte
}

func (s *wsSession) run(ctx context.Context) {
	defer s.teardown()

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			s.logger.Debug("websocket read ended", "player", s.player.ID, "error", err)
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.send(ctx, battle.NewError("invalid message format"))
			continue
		}

		switch msg.Type {
		case "join_room":
			s.handleJoin(ctx, msg.RoomID)
		case "submit_verse":
			s.handleSubmit(ctx, msg.Text)
		case "forfeit":
			s.handleForfeit()
		case "use_item":
			// Item effects are client-local; acknowledged by silence.
		default:
			s.send(ctx, battle.NewError("unknown message type"))
		}
	}
}

func (s *wsSession) handleJoin(ctx context.Context, roomID string) {
	if s.room != nil {
		s.send(ctx, battle.NewError("already in a room"))
		return
	}

	room, ok := s.deps.Rooms.Get(roomID)
	if !ok {
		s.send(ctx, battle.NewError("room not found"))
		return
	}

	room.Lock()
	started, err := room.Join(s.player.ID, s.player.Name)
	if err != nil {
		room.Unlock()
		s.send(ctx, battle.NewError(err.Error()))
		return
	}

	// The join confirmation goes out before subscribing so the joiner
	// never sees a broadcast ahead of it.
	var opponent string
	if opp, ok := room.Opponent(s.player.ID); ok {
		opponent = opp.Name
	}
	s.send(ctx, battle.NewRoomJoined(room.ID, opponent, room.CurrentRound, room.TotalRounds, room.Difficulty))

	s.room = room
	s.events = room.Subscribe()
	go s.forward(ctx, s.events)

	if started {
		room.Broadcast(battle.NewRoundStart(room.CurrentRound, room.TotalRounds, room.Theme))
	} else if room.State == battle.StateInProgress {
		// Rejoining a live match, or completing the websocket side of an
		// HTTP join that already started it. Replay the current round.
		s.send(ctx, battle.NewRoundStart(room.CurrentRound, room.TotalRounds, room.Theme))
	}
	room.Unlock()
}

func (s *wsSession) handleSubmit(ctx context.Context, text string) {
	if s.room == nil {
		s.send(ctx, battle.NewError("join a room first"))
		return
	}
	if text == "" || len(text) > maxVerseLen {
		s.send(ctx, battle.NewError("Verse must be between 1 and 2000 characters"))
		return
	}

	if gate := moderation.Check(text); !gate.Allowed {
		s.send(ctx, battle.NewError(gate.Reason))
		return
	}
	assessment := moderation.Assess(text)

	room := s.room
	room.Lock()
	defer room.Unlock()

	if err := room.Submit(s.player.ID, text); err != nil {
		s.send(ctx, battle.NewError(err.Error()))
		return
	}

	room.Broadcast(battle.NewOpponentSubmitted())
	if assessment.Suspicious {
		room.Broadcast(battle.NewAuthenticityWarning(
			"A verse in this battle may not be human-written. The judge has been advised."))
	}

	if !room.RoundReady() {
		return
	}

	first, second := room.TakeSubmissions()
	outcome := s.deps.Judge.Resolve(ctx, first.Text, second.Text, room.Difficulty, battle.TimingNotes(first, second))
	room.FinishRound(first, second, outcome)
}

func (s *wsSession) handleForfeit() {
	if s.room == nil {
		return
	}
	room := s.room

	room.Lock()
	room.Forfeit(s.player.ID)
	room.Unsubscribe(s.events)
	room.Unlock()

	s.deps.Rooms.Remove(room.ID)
	// Closing after Unsubscribe is safe and lets the forwarder drain
	// the buffered match_complete before it exits.
	close(s.events)
	s.leaveRoom()
}

// teardown runs when the read loop ends. A disconnect is not a forfeit:
// the opponent is notified and the room stays joinable for a reconnect.
func (s *wsSession) teardown() {
	if s.room == nil {
		return
	}
	room := s.room

	room.Lock()
	room.Unsubscribe(s.events)
	room.Broadcast(battle.NewOpponentDisconnected())
	room.Unlock()

	close(s.events)
	s.leaveRoom()
}

func (s *wsSession) leaveRoom() {
	s.room = nil
	s.events = nil
}

// forward pumps room events to this connection until the session closes
// the channel, draining anything still buffered. Write failures drop
// the forwarder only; the room and the opponent are unaffected.
func (s *wsSession) forward(ctx context.Context, events <-chan []byte) {
	for data := range events {
		s.writeMu.Lock()
		err := s.conn.Write(ctx, websocket.MessageText, data)
		s.writeMu.Unlock()
		if err != nil {
			return
		}
	}
}

func (s *wsSession) send(ctx context.Context, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil &&
		!errors.Is(err, context.Canceled) {
		s.logger.Debug("websocket write failed", "player", s.player.ID, "error", err)
	}
}
