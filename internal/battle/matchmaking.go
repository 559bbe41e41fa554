package battle

import (
	"sync"

	"github.com/bardclash/versebattle/internal/judge"
)

// MatchResult resolves a wait: the room to join and who is in it.
type MatchResult struct {
	RoomID       string
	OpponentName string
}

type waiter struct {
	id     string
	name   string
	notify chan MatchResult
}

// Queue pairs waiting players strictly first-come-first-served. The
// earliest waiter always gets the next match; pairing never reorders by
// recency. Matched rooms are reserved for the paired identities.
type Queue struct {
	mu      sync.Mutex
	waiting []*waiter
	rooms   *Registry

	rounds     int
	difficulty judge.Difficulty
}

// NewQueue builds a matchmaking queue creating rooms through rooms.
// Matched games run the standard public ruleset: three rounds at the
// advanced tier.
func NewQueue(rooms *Registry) *Queue {
	return &Queue{
		rooms:      rooms,
		rounds:     3,
		difficulty: judge.Advanced,
	}
}

// Enqueue adds a player and returns a single-use channel that resolves
// when matched. If someone is already waiting the match happens
// synchronously and the channel is resolved before returning. Enqueueing
// an identity already in the queue returns its existing channel.
//
// The caller owns the timeout: on giving up it calls Withdraw, which is
// a no-op when the entry was already matched, and the buffered channel
// keeps a raced result deliverable.
func (q *Queue) Enqueue(id, name string) <-chan MatchResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, w := range q.waiting {
		if w.id == id {
			return w.notify
		}
	}

	notify := make(chan MatchResult, 1)

	if len(q.waiting) > 0 {
		opponent := q.waiting[0]
		q.waiting = q.waiting[1:]

		roomID := q.rooms.CreateReserved(q.rounds, q.difficulty, opponent.id, id)
		opponent.notify <- MatchResult{RoomID: roomID, OpponentName: name}
		notify <- MatchResult{RoomID: roomID, OpponentName: opponent.name}
		return notify
	}

	q.waiting = append(q.waiting, &waiter{id: id, name: name, notify: notify})
	return notify
}

// Withdraw removes a player from the queue. Unknown identities are
// ignored, so withdrawing after a match is harmless.
func (q *Queue) Withdraw(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, w := range q.waiting {
		if w.id == id {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return
		}
	}
}

// Size reports how many players are waiting.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
