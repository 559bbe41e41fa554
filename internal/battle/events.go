package battle

import "github.com/bardclash/versebattle/internal/judge"

// Server → client events, broadcast on a room's fan-out channel as JSON
// with a "type" tag. Each constructor pins the tag so the wire shape
// stays a closed set.
const (
	EventRoomJoined           = "room_joined"
	EventRoundStart           = "round_start"
	EventOpponentSubmitted    = "opponent_submitted"
	EventRoundResult          = "round_result"
	EventAuthenticityWarning  = "authenticity_warning"
	EventMatchComplete        = "match_complete"
	EventOpponentDisconnected = "opponent_disconnected"
	EventError                = "error"
)

type RoomJoinedEvent struct {
	Type        string `json:"type"`
	RoomID      string `json:"room_id"`
	Opponent    string `json:"opponent"`
	Round       int    `json:"round"`
	TotalRounds int    `json:"total_rounds"`
	Difficulty  string `json:"difficulty"`
}

func NewRoomJoined(roomID, opponent string, round, totalRounds int, difficulty judge.Difficulty) RoomJoinedEvent {
	return RoomJoinedEvent{
		Type:        EventRoomJoined,
		RoomID:      roomID,
		Opponent:    opponent,
		Round:       round,
		TotalRounds: totalRounds,
		Difficulty:  string(difficulty),
	}
}

type RoundStartEvent struct {
	Type        string `json:"type"`
	Round       int    `json:"round"`
	TotalRounds int    `json:"total_rounds"`
	Theme       string `json:"theme,omitempty"`
}

func NewRoundStart(round, totalRounds int, theme string) RoundStartEvent {
	return RoundStartEvent{Type: EventRoundStart, Round: round, TotalRounds: totalRounds, Theme: theme}
}

type OpponentSubmittedEvent struct {
	Type string `json:"type"`
}

func NewOpponentSubmitted() OpponentSubmittedEvent {
	return OpponentSubmittedEvent{Type: EventOpponentSubmitted}
}

// RoundResultEvent carries both score blocks from the perspective of
// participant order: PlayerScore is the first participant to join.
type RoundResultEvent struct {
	Type          string           `json:"type"`
	Round         int              `json:"round"`
	PlayerScore   judge.AxisScores `json:"player_score"`
	OpponentScore judge.AxisScores `json:"opponent_score"`
	PlayerWins    bool             `json:"player_wins"`
	Reason        string           `json:"reason"`
}

type AuthenticityWarningEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewAuthenticityWarning(message string) AuthenticityWarningEvent {
	return AuthenticityWarningEvent{Type: EventAuthenticityWarning, Message: message}
}

type MatchCompleteEvent struct {
	Type          string `json:"type"`
	Winner        string `json:"winner"`
	PlayerTotal   int    `json:"player_total"`
	OpponentTotal int    `json:"opponent_total"`
}

type OpponentDisconnectedEvent struct {
	Type string `json:"type"`
}

func NewOpponentDisconnected() OpponentDisconnectedEvent {
	return OpponentDisconnectedEvent{Type: EventOpponentDisconnected}
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}
