// Package battle holds the real-time core of the verse battle game: the
// per-match room state machine, the matchmaking queue, and the registry
// of active rooms. Rooms are mutated by short serialized critical
// sections; callers lock a room for the duration of one operation and
// different rooms proceed fully in parallel.
package battle

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bardclash/versebattle/internal/judge"
)

// State is the room lifecycle. Transitions only move forward:
// Waiting → InProgress (on second join) → Completed.
type State string

const (
	StateWaiting    State = "waiting"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

var (
	// ErrRoomFull rejects a third distinct participant.
	ErrRoomFull = errors.New("room is full")
	// ErrNotInvited rejects a join into a room reserved for other identities.
	ErrNotInvited = errors.New("room is reserved for other players")
	// ErrNotInProgress rejects a submission outside an active match.
	ErrNotInProgress = errors.New("match is not in progress")
	// ErrAlreadySubmitted rejects a second submission in the same round.
	ErrAlreadySubmitted = errors.New("verse already submitted this round")
)

// Themes for the intermediate tier, re-rolled every round.
var battleThemes = []string{
	"Jealousy", "Ambition", "Love Unrequited", "Betrayal", "The Storm",
	"Revenge", "Forbidden Love", "Madness", "Honor", "Fate vs Free Will",
	"Power", "Mortality", "Deception", "Loyalty", "Exile",
	"The Supernatural", "Justice", "Sacrifice", "Pride", "Transformation",
}

// Participant is one side of a match. Score counts round wins.
type Participant struct {
	ID    string
	Name  string
	Score int
}

// Submission is one participant's verse for the current round. Elapsed
// is time since the round started, fed to the judge as a signal.
type Submission struct {
	ParticipantID string
	Text          string
	Elapsed       time.Duration
}

// Room is one active two-player match. The embedded mutex serializes
// every mutation; all methods below assume the caller holds it.
type Room struct {
	sync.Mutex

	ID           string
	State        State
	CurrentRound int
	TotalRounds  int
	Difficulty   judge.Difficulty
	Theme        string
	CreatedAt    time.Time

	participants []Participant
	submissions  []Submission
	roundStarted time.Time

	// invited restricts who may join; nil means open.
	invited map[string]bool

	subscribers map[chan []byte]struct{}
}

func newRoom(id string, totalRounds int, difficulty judge.Difficulty) *Room {
	return &Room{
		ID:           id,
		State:        StateWaiting,
		CurrentRound: 1,
		TotalRounds:  totalRounds,
		Difficulty:   difficulty,
		CreatedAt:    time.Now(),
		subscribers:  make(map[chan []byte]struct{}),
	}
}

// Join adds a participant. Joining again with an identity already in the
// room succeeds without duplicating it, which is what a reconnect does.
// started reports that this join was the second one and round 1 began;
// the caller broadcasts RoundStart after delivering its own RoomJoined.
func (r *Room) Join(id, name string) (started bool, err error) {
	for _, p := range r.participants {
		if p.ID == id {
			return false, nil
		}
	}
	if len(r.participants) >= 2 {
		return false, ErrRoomFull
	}
	if r.invited != nil && !r.invited[id] {
		return false, ErrNotInvited
	}

	r.participants = append(r.participants, Participant{ID: id, Name: name})
	if len(r.participants) == 2 {
		r.State = StateInProgress
		r.startRound()
		return true, nil
	}
	return false, nil
}

// startRound stamps the round start and rolls a theme for the
// intermediate tier.
func (r *Room) startRound() {
	r.roundStarted = time.Now()
	if r.Difficulty == judge.Intermediate {
		r.Theme = battleThemes[rand.IntN(len(battleThemes))]
	} else {
		r.Theme = ""
	}
}

// Submit records a verse for the current round.
func (r *Room) Submit(id, text string) error {
	if r.State != StateInProgress {
		return ErrNotInProgress
	}
	for _, s := range r.submissions {
		if s.ParticipantID == id {
			return ErrAlreadySubmitted
		}
	}
	r.submissions = append(r.submissions, Submission{
		ParticipantID: id,
		Text:          text,
		Elapsed:       time.Since(r.roundStarted),
	})
	return nil
}

// RoundReady reports that both participants have submitted.
func (r *Room) RoundReady() bool {
	return len(r.submissions) == 2
}

// TakeSubmissions atomically drains the pending set for resolution.
func (r *Room) TakeSubmissions() (Submission, Submission) {
	a, b := r.submissions[0], r.submissions[1]
	r.submissions = nil
	return a, b
}

// FinishRound applies a judged outcome to the round whose submissions
// were a and b, broadcasts the result, and advances the match. Scores
// on the broadcast are normalized to participant order regardless of
// submission order. A NoWinner outcome awards no round point.
func (r *Room) FinishRound(a, b Submission, out judge.Outcome) {
	scoreOf := map[string]judge.AxisScores{
		a.ParticipantID: out.ScoreA,
		b.ParticipantID: out.ScoreB,
	}

	var winnerID string
	switch out.Winner {
	case judge.WinnerA:
		winnerID = a.ParticipantID
	case judge.WinnerB:
		winnerID = b.ParticipantID
	}
	for i := range r.participants {
		if winnerID != "" && r.participants[i].ID == winnerID {
			r.participants[i].Score++
		}
	}

	r.Broadcast(RoundResultEvent{
		Type:          EventRoundResult,
		Round:         r.CurrentRound,
		PlayerScore:   scoreOf[r.participants[0].ID],
		OpponentScore: scoreOf[r.participants[1].ID],
		PlayerWins:    winnerID == r.participants[0].ID,
		Reason:        out.Reason,
	})

	r.CurrentRound++
	if r.CurrentRound > r.TotalRounds {
		r.State = StateCompleted
		r.Broadcast(r.matchComplete())
		return
	}

	r.startRound()
	r.Broadcast(NewRoundStart(r.CurrentRound, r.TotalRounds, r.Theme))
}

// matchComplete names the highest cumulative scorer, first participant
// winning an exact tie.
func (r *Room) matchComplete() MatchCompleteEvent {
	winner := r.participants[0]
	if r.participants[1].Score > winner.Score {
		winner = r.participants[1]
	}
	return MatchCompleteEvent{
		Type:          EventMatchComplete,
		Winner:        winner.Name,
		PlayerTotal:   r.participants[0].Score,
		OpponentTotal: r.participants[1].Score,
	}
}

// Forfeit ends the match immediately, crediting the opponent with the
// full round count. Valid from any non-terminal state; the caller
// removes the room from the registry afterwards.
func (r *Room) Forfeit(id string) {
	if r.State == StateCompleted {
		return
	}
	r.State = StateCompleted

	var winner string
	if opp, ok := r.Opponent(id); ok {
		winner = opp.Name
	}
	playerTotal, opponentTotal := 0, r.TotalRounds
	if len(r.participants) > 0 && r.participants[0].ID != id {
		playerTotal, opponentTotal = r.TotalRounds, 0
	}
	r.Broadcast(MatchCompleteEvent{
		Type:          EventMatchComplete,
		Winner:        winner,
		PlayerTotal:   playerTotal,
		OpponentTotal: opponentTotal,
	})
}

// Opponent returns the other participant.
func (r *Room) Opponent(id string) (Participant, bool) {
	for _, p := range r.participants {
		if p.ID != id {
			return p, true
		}
	}
	return Participant{}, false
}

// Participants returns a copy of the participant list.
func (r *Room) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// TimingNotes renders the judging signal for two submissions.
func TimingNotes(a, b Submission) string {
	return fmt.Sprintf("Timing: player 1 submitted after %ds, player 2 after %ds.",
		int(a.Elapsed.Seconds()), int(b.Elapsed.Seconds()))
}

// Subscribe attaches a fan-out channel for this room's events. Both
// participants share the broadcast order because every event is pushed
// to all subscriber channels inside the room's critical section.
func (r *Room) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	r.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe detaches a fan-out channel.
func (r *Room) Unsubscribe(ch chan []byte) {
	delete(r.subscribers, ch)
}

// Broadcast fans an event out to every subscriber. A slow or gone
// subscriber is dropped rather than blocking the room.
func (r *Room) Broadcast(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	for ch := range r.subscribers {
		select {
		case ch <- data:
		default:
		}
	}
}
