// Package judge resolves a battle round. The primary path asks an
// external text-evaluation service to score both verses against a
// difficulty-tiered rubric; any failure on that path falls back to a
// local randomized scorer so a match can never stall on an unavailable
// dependency.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Difficulty selects the scoring rubric for a match.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ParseDifficulty normalizes a client-supplied difficulty, defaulting to
// Advanced for anything unrecognized, as the original tiers did.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Beginner, Intermediate:
		return Difficulty(s)
	default:
		return Advanced
	}
}

// AxisScores is the five-axis score block for one side of a round, each
// axis in [1,10], plus the derived total.
type AxisScores struct {
	Wordplay     int `json:"wordplay"`
	Shakespeare  int `json:"shakespeare"`
	Flow         int `json:"flow"`
	Wit          int `json:"wit"`
	Authenticity int `json:"authenticity"`
	Total        int `json:"total"`
}

func (s AxisScores) sum() int {
	return s.Wordplay + s.Shakespeare + s.Flow + s.Wit + s.Authenticity
}

func (s AxisScores) valid() bool {
	for _, v := range []int{s.Wordplay, s.Shakespeare, s.Flow, s.Wit, s.Authenticity} {
		if v < 1 || v > 10 {
			return false
		}
	}
	return true
}

// Winner values on an Outcome. NoWinner only happens on the fallback
// path, when both totals are exactly equal.
const (
	WinnerA  = 0
	WinnerB  = 1
	NoWinner = -1
)

// Outcome is the resolved result of one round. ScoreA belongs to the
// verse passed first to Resolve.
type Outcome struct {
	ScoreA AxisScores
	ScoreB AxisScores
	Winner int
	Reason string
}

// Config wires the external evaluation service.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Engine builds evaluation requests and guarantees a total Resolve.
type Engine struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Engine{
		cfg: cfg,
		client: &http.Client{
			// Per-request budget sits under the overall Resolve timeout.
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Resolve scores verseA against verseB. It always returns a usable
// Outcome: external-service errors are logged and absorbed by Fallback.
func (e *Engine) Resolve(ctx context.Context, verseA, verseB string, difficulty Difficulty, timingNotes string) Outcome {
	if e.cfg.APIKey == "" {
		return Fallback()
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.evaluate(ctx, verseA, verseB, difficulty, timingNotes)
	if err != nil {
		e.logger.Warn("evaluation service failed, using fallback scorer", "error", err)
		return Fallback()
	}
	return out
}

// evaluationResult is the JSON object the service must reply with.
type evaluationResult struct {
	Player1Score AxisScores `json:"player1_score"`
	Player2Score AxisScores `json:"player2_score"`
	Player1Wins  bool       `json:"player1_wins"`
	Reason       string     `json:"reason"`
}

func (e *Engine) evaluate(ctx context.Context, verseA, verseB string, difficulty Difficulty, timingNotes string) (Outcome, error) {
	body, err := json.Marshal(map[string]any{
		"model":      e.cfg.Model,
		"max_tokens": 256,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(verseA, verseB, difficulty, timingNotes)},
		},
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := e.client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("calling evaluation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Outcome{}, fmt.Errorf("evaluation service returned %d", resp.StatusCode)
	}

	var envelope struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Outcome{}, fmt.Errorf("decoding response envelope: %w", err)
	}
	if len(envelope.Content) == 0 {
		return Outcome{}, errors.New("response has no content")
	}

	var result evaluationResult
	if err := json.Unmarshal([]byte(envelope.Content[0].Text), &result); err != nil {
		return Outcome{}, fmt.Errorf("decoding verdict: %w", err)
	}
	if !result.Player1Score.valid() || !result.Player2Score.valid() {
		return Outcome{}, errors.New("verdict has axis scores out of range")
	}

	// Totals are recomputed locally; the service's arithmetic is not trusted.
	result.Player1Score.Total = result.Player1Score.sum()
	result.Player2Score.Total = result.Player2Score.sum()

	winner := WinnerB
	if result.Player1Wins {
		winner = WinnerA
	}
	return Outcome{
		ScoreA: result.Player1Score,
		ScoreB: result.Player2Score,
		Winner: winner,
		Reason: result.Reason,
	}, nil
}
