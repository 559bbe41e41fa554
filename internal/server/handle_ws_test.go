package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/bardclash/versebattle/internal/battle"
	"github.com/bardclash/versebattle/internal/judge"
)

// wireEvent is a superset of every server event, decoded loosely so one
// helper can read the whole stream.
type wireEvent struct {
	Type          string `json:"type"`
	RoomID        string `json:"room_id"`
	Opponent      string `json:"opponent"`
	Round         int    `json:"round"`
	TotalRounds   int    `json:"total_rounds"`
	Theme         string `json:"theme"`
	Winner        string `json:"winner"`
	PlayerTotal   int    `json:"player_total"`
	OpponentTotal int    `json:"opponent_total"`
	Message       string `json:"message"`
}

func dialWS(t *testing.T, ctx context.Context, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + srv.URL[len("http"):] + "/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func sendWS(t *testing.T, ctx context.Context, conn *websocket.Conn, msg clientMessage) {
	t.Helper()
	data, _ := json.Marshal(msg)
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write %s: %v", msg.Type, err)
	}
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn) wireEvent {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev wireEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return ev
}

func expectEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) wireEvent {
	t.Helper()
	ev := readEvent(t, ctx, conn)
	if ev.Type != wantType {
		t.Fatalf("event type = %q, want %q", ev.Type, wantType)
	}
	return ev
}

func TestWSFullMatch(t *testing.T) {
	deps := testDeps(t)
	srv := httptest.NewServer(testRouter(t, deps))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	roomID := deps.Rooms.Create(3, judge.Advanced)

	alice := dialWS(t, ctx, srv, signToken(t, "p1", "Alice"))
	sendWS(t, ctx, alice, clientMessage{Type: "join_room", RoomID: roomID})
	joined := expectEvent(t, ctx, alice, battle.EventRoomJoined)
	if joined.RoomID != roomID || joined.Opponent != "" || joined.TotalRounds != 3 {
		t.Fatalf("alice join = %+v", joined)
	}

	bob := dialWS(t, ctx, srv, signToken(t, "p2", "Bob"))
	sendWS(t, ctx, bob, clientMessage{Type: "join_room", RoomID: roomID})
	joined = expectEvent(t, ctx, bob, battle.EventRoomJoined)
	if joined.Opponent != "Alice" {
		t.Fatalf("bob's opponent = %q, want Alice", joined.Opponent)
	}

	for _, conn := range []*websocket.Conn{alice, bob} {
		start := expectEvent(t, ctx, conn, battle.EventRoundStart)
		if start.Round != 1 || start.Theme != "" {
			t.Fatalf("round start = %+v, want round 1 with no theme for advanced", start)
		}
	}

	for round := 1; round <= 3; round++ {
		sendWS(t, ctx, alice, clientMessage{Type: "submit_verse", Text: "Thy wit is dull, thy rhymes run cheap"})
		sendWS(t, ctx, bob, clientMessage{Type: "submit_verse", Text: "My quill strikes true where thine falls flat"})

		for _, conn := range []*websocket.Conn{alice, bob} {
			expectEvent(t, ctx, conn, battle.EventOpponentSubmitted)
			expectEvent(t, ctx, conn, battle.EventOpponentSubmitted)
			result := expectEvent(t, ctx, conn, battle.EventRoundResult)
			if result.Round != round {
				t.Fatalf("round result for round %d, want %d", result.Round, round)
			}
			if round < 3 {
				start := expectEvent(t, ctx, conn, battle.EventRoundStart)
				if start.Round != round+1 {
					t.Fatalf("next round = %d, want %d", start.Round, round+1)
				}
			}
		}
	}

	for _, conn := range []*websocket.Conn{alice, bob} {
		done := expectEvent(t, ctx, conn, battle.EventMatchComplete)
		if done.Winner == "" {
			t.Error("match complete without a winner name")
		}
		if done.PlayerTotal+done.OpponentTotal > 3 {
			t.Errorf("totals %d+%d exceed round count", done.PlayerTotal, done.OpponentTotal)
		}
	}

	room, ok := deps.Rooms.Get(roomID)
	if !ok {
		t.Fatal("completed room should stay until the sweep collects it")
	}
	room.Lock()
	if room.State != battle.StateCompleted {
		t.Errorf("room state = %q, want completed", room.State)
	}
	room.Unlock()
}

func TestWSForfeit(t *testing.T) {
	deps := testDeps(t)
	srv := httptest.NewServer(testRouter(t, deps))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	roomID := deps.Rooms.Create(2, judge.Advanced)

	alice := dialWS(t, ctx, srv, signToken(t, "p1", "Alice"))
	sendWS(t, ctx, alice, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, alice, battle.EventRoomJoined)

	bob := dialWS(t, ctx, srv, signToken(t, "p2", "Bob"))
	sendWS(t, ctx, bob, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, bob, battle.EventRoomJoined)
	expectEvent(t, ctx, bob, battle.EventRoundStart)
	expectEvent(t, ctx, alice, battle.EventRoundStart)

	sendWS(t, ctx, alice, clientMessage{Type: "forfeit"})

	for _, conn := range []*websocket.Conn{alice, bob} {
		done := expectEvent(t, ctx, conn, battle.EventMatchComplete)
		if done.Winner != "Bob" {
			t.Errorf("forfeit winner = %q, want Bob", done.Winner)
		}
		if done.PlayerTotal != 0 || done.OpponentTotal != 2 {
			t.Errorf("forfeit totals = %d/%d, want 0/2", done.PlayerTotal, done.OpponentTotal)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := deps.Rooms.Get(roomID); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("forfeited room still registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWSDisconnectNotifiesOpponent(t *testing.T) {
	deps := testDeps(t)
	srv := httptest.NewServer(testRouter(t, deps))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	roomID := deps.Rooms.Create(3, judge.Advanced)

	alice := dialWS(t, ctx, srv, signToken(t, "p1", "Alice"))
	sendWS(t, ctx, alice, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, alice, battle.EventRoomJoined)

	bob := dialWS(t, ctx, srv, signToken(t, "p2", "Bob"))
	sendWS(t, ctx, bob, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, bob, battle.EventRoomJoined)
	expectEvent(t, ctx, bob, battle.EventRoundStart)
	expectEvent(t, ctx, alice, battle.EventRoundStart)

	bob.Close(websocket.StatusNormalClosure, "flaky wifi")

	expectEvent(t, ctx, alice, battle.EventOpponentDisconnected)

	// The room survives a disconnect so the player can come back.
	if _, ok := deps.Rooms.Get(roomID); !ok {
		t.Fatal("room removed on disconnect")
	}

	bob2 := dialWS(t, ctx, srv, signToken(t, "p2", "Bob"))
	sendWS(t, ctx, bob2, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, bob2, battle.EventRoomJoined)
	start := expectEvent(t, ctx, bob2, battle.EventRoundStart)
	if start.Round != 1 {
		t.Errorf("rejoin round = %d, want 1", start.Round)
	}
}

func TestWSRejectsBadInput(t *testing.T) {
	deps := testDeps(t)
	srv := httptest.NewServer(testRouter(t, deps))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, srv, signToken(t, "p1", "Alice"))

	if err := conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	ev := expectEvent(t, ctx, conn, battle.EventError)
	if ev.Message != "invalid message format" {
		t.Errorf("error message = %q", ev.Message)
	}

	sendWS(t, ctx, conn, clientMessage{Type: "teleport"})
	ev = expectEvent(t, ctx, conn, battle.EventError)
	if ev.Message != "unknown message type" {
		t.Errorf("error message = %q", ev.Message)
	}

	sendWS(t, ctx, conn, clientMessage{Type: "submit_verse", Text: "a verse with no room"})
	expectEvent(t, ctx, conn, battle.EventError)

	sendWS(t, ctx, conn, clientMessage{Type: "join_room", RoomID: "no-such-room"})
	expectEvent(t, ctx, conn, battle.EventError)

	// The connection is still usable after every rejection.
	roomID := deps.Rooms.Create(3, judge.Advanced)
	sendWS(t, ctx, conn, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, conn, battle.EventRoomJoined)
}

func TestWSRequiresToken(t *testing.T) {
	deps := testDeps(t)
	srv := httptest.NewServer(testRouter(t, deps))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestWSModerationAndAuthenticity(t *testing.T) {
	deps := testDeps(t)
	srv := httptest.NewServer(testRouter(t, deps))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	roomID := deps.Rooms.Create(3, judge.Advanced)

	alice := dialWS(t, ctx, srv, signToken(t, "p1", "Alice"))
	sendWS(t, ctx, alice, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, alice, battle.EventRoomJoined)

	bob := dialWS(t, ctx, srv, signToken(t, "p2", "Bob"))
	sendWS(t, ctx, bob, clientMessage{Type: "join_room", RoomID: roomID})
	expectEvent(t, ctx, bob, battle.EventRoomJoined)
	expectEvent(t, ctx, bob, battle.EventRoundStart)
	expectEvent(t, ctx, alice, battle.EventRoundStart)

	// A filtered verse is rejected outright, not recorded.
	sendWS(t, ctx, alice, clientMessage{Type: "submit_verse", Text: "fuck this battle"})
	ev := expectEvent(t, ctx, alice, battle.EventError)
	if ev.Message == "" {
		t.Error("filter rejection carries no message")
	}

	// Stock phrasing plus uniform line lengths trips the authenticity
	// heuristic; the verse still counts.
	generated := "We delve into the dark of night\n" +
		"We delve into the dark of light\n" +
		"We delve into the dark of might\n" +
		"We delve into the dark of sight"
	sendWS(t, ctx, alice, clientMessage{Type: "submit_verse", Text: generated})

	expectEvent(t, ctx, bob, battle.EventOpponentSubmitted)
	warn := expectEvent(t, ctx, bob, battle.EventAuthenticityWarning)
	if warn.Message == "" {
		t.Error("authenticity warning carries no message")
	}

	// A double submission in the same round is refused.
	sendWS(t, ctx, alice, clientMessage{Type: "submit_verse", Text: "Another verse before the round turns"})
	expectEvent(t, ctx, alice, battle.EventOpponentSubmitted)
	expectEvent(t, ctx, alice, battle.EventAuthenticityWarning)
	ev = expectEvent(t, ctx, alice, battle.EventError)
	if ev.Message != battle.ErrAlreadySubmitted.Error() {
		t.Errorf("double submit error = %q", ev.Message)
	}
}
