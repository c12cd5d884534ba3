package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Scorer computes a polarity in [-1, 1] for a piece of text. Identical
// input must give identical output.
type Scorer interface {
	Polarity(text string) float64
}

// LexiconScorer averages the polarity of every lexicon word in the text.
// A negation flips and halves the next scored word; an intensifier scales it.
type LexiconScorer struct {
	lex *Lexicon
}

// NewLexiconScorer creates a scorer backed by lex.
func NewLexiconScorer(lex *Lexicon) *LexiconScorer {
	return &LexiconScorer{lex: lex}
}

// NewDefaultScorer creates a scorer with the built-in lexicon.
func NewDefaultScorer() (*LexiconScorer, error) {
	lex, err := DefaultLexicon()
	if err != nil {
		return nil, err
	}
	return NewLexiconScorer(lex), nil
}

// Polarity returns 0 when no lexicon word appears.
func (s *LexiconScorer) Polarity(text string) float64 {
	var sum float64
	var n int
	negate := false
	scale := 1.0

	for _, tok := range tokenize(text) {
		if s.lex.isNegation(tok) {
			negate = true
			continue
		}
		if f, ok := s.lex.Intensifiers[tok]; ok {
			scale *= f
			continue
		}
		p, ok := s.lex.Words[tok]
		if !ok {
			continue
		}
		p *= scale
		if negate {
			p *= negationFactor
		}
		sum += clamp(p)
		n++
		negate = false
		scale = 1.0
	}
	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
