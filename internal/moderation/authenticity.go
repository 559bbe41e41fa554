package moderation

import (
	"math"
	"strings"
)

// Stock phrasing that shows up disproportionately in generated text.
var stockPhrases = []string{
	"as an ai",
	"i cannot assist",
	"in conclusion",
	"it is important to note",
	"furthermore",
	"delve into",
	"rich tapestry",
	"i hope this finds you",
}

// Indicator weights. The score is capped at 1.0 and a total of 0.5 or
// more marks the verse suspicious.
const (
	weightStockPhrase      = 0.4
	weightLexicalDiversity = 0.3
	weightUniformLines     = 0.3

	suspicionThreshold = 0.5

	// Lexical diversity only means anything on a verse long enough to
	// repeat itself.
	diversityMinWords = 20
	diversityRatio    = 0.9

	// Line-length uniformity needs a few substantial lines to measure.
	uniformMinLines   = 4
	uniformMinLineLen = 20
	uniformMaxStddev  = 2.0
)

// Assessment is the advisory output of the authenticity heuristic. It is
// signal for the room, never a gate: a suspicious verse still plays.
type Assessment struct {
	Suspicious bool
	Confidence float64
	Indicators []string
}

// Assess estimates how likely text was not written by a human in real
// time. Each triggered indicator adds a fixed weight to the confidence.
func Assess(text string) Assessment {
	lower := strings.ToLower(text)

	var a Assessment
	for _, phrase := range stockPhrases {
		if strings.Contains(lower, phrase) {
			a.Confidence += weightStockPhrase
			a.Indicators = append(a.Indicators, "stock phrasing")
			break
		}
	}

	if highLexicalDiversity(lower) {
		a.Confidence += weightLexicalDiversity
		a.Indicators = append(a.Indicators, "unusually high lexical diversity")
	}

	if uniformLineLengths(text) {
		a.Confidence += weightUniformLines
		a.Indicators = append(a.Indicators, "uniform line lengths")
	}

	a.Confidence = math.Min(a.Confidence, 1.0)
	a.Suspicious = a.Confidence >= suspicionThreshold
	return a
}

func highLexicalDiversity(lower string) bool {
	words := strings.Fields(lower)
	if len(words) < diversityMinWords {
		return false
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.Trim(w, ".,;:!?'\"()")] = struct{}{}
	}
	return float64(len(unique))/float64(len(words)) > diversityRatio
}

func uniformLineLengths(text string) bool {
	var lengths []float64
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lengths = append(lengths, float64(len(line)))
	}
	if len(lengths) < uniformMinLines {
		return false
	}

	var sum float64
	for _, l := range lengths {
		if l < uniformMinLineLen {
			return false
		}
		sum += l
	}
	mean := sum / float64(len(lengths))

	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	return math.Sqrt(variance) < uniformMaxStddev
}
