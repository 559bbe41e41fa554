package moderation

import (
	"strings"
	"testing"
)

func TestAssessCleanShortVerse(t *testing.T) {
	a := Assess("My quill is sharp, thy wit is dull")
	if a.Suspicious {
		t.Errorf("short human verse flagged suspicious: %+v", a)
	}
	if a.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", a.Confidence)
	}
}

func TestAssessStockPhraseAlone(t *testing.T) {
	a := Assess("In conclusion, thy rhymes are weak")
	if a.Confidence != weightStockPhrase {
		t.Errorf("Confidence = %v, want %v", a.Confidence, weightStockPhrase)
	}
	if a.Suspicious {
		t.Error("a single indicator below threshold must not flag")
	}
}

func TestAssessHighLexicalDiversity(t *testing.T) {
	verse := "Brave hearts wander yonder castle keeps while jesters mock proud kings " +
		"beneath silver moons casting shadows over ancient stones where ravens gather quietly tonight"
	a := Assess(verse)
	if a.Confidence != weightLexicalDiversity {
		t.Errorf("Confidence = %v, want %v", a.Confidence, weightLexicalDiversity)
	}
}

func TestAssessDiversitySkippedOnShortVerse(t *testing.T) {
	a := Assess("five unique words right here")
	if a.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 for verses under %d words", a.Confidence, diversityMinWords)
	}
}

func TestAssessUniformLines(t *testing.T) {
	line := "da dum da dum da dum da dum"
	text := strings.Join([]string{line, line, line, line}, "\n")
	a := Assess(text)
	if a.Confidence != weightUniformLines {
		t.Errorf("Confidence = %v, want %v", a.Confidence, weightUniformLines)
	}
	if a.Suspicious {
		t.Error("uniform lines alone must stay below the threshold")
	}
}

func TestAssessCombinedIndicatorsFlag(t *testing.T) {
	line := "I delve into the night air"
	text := strings.Join([]string{line, line, line, line}, "\n")
	a := Assess(text)
	want := weightStockPhrase + weightUniformLines
	if a.Confidence != want {
		t.Errorf("Confidence = %v, want %v", a.Confidence, want)
	}
	if !a.Suspicious {
		t.Error("two indicators over the threshold must flag")
	}
	if len(a.Indicators) != 2 {
		t.Errorf("Indicators = %v, want 2 entries", a.Indicators)
	}
}
