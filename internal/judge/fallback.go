package judge

import "math/rand/v2"

// Fallback scores a round locally when the evaluation service is
// unavailable. Craft axes land in [4,9]; authenticity starts higher at
// [6,9] since a local scorer has no basis to accuse anyone. The winner
// is pure total comparison: an exact tie yields NoWinner.
func Fallback() Outcome {
	a := randomAxes()
	b := randomAxes()

	winner := NoWinner
	switch {
	case a.Total > b.Total:
		winner = WinnerA
	case b.Total > a.Total:
		winner = WinnerB
	}

	return Outcome{
		ScoreA: a,
		ScoreB: b,
		Winner: winner,
		Reason: "Judged by the fates of fortune",
	}
}

func randomAxes() AxisScores {
	s := AxisScores{
		Wordplay:     4 + rand.IntN(6),
		Shakespeare:  4 + rand.IntN(6),
		Flow:         4 + rand.IntN(6),
		Wit:          4 + rand.IntN(6),
		Authenticity: 6 + rand.IntN(4),
	}
	s.Total = s.sum()
	return s
}
