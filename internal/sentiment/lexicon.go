// Package sentiment scores headline text and labels its polarity.
package sentiment

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// negationFactor is applied to a scored word that follows a negation.
const negationFactor = -0.5

// Lexicon holds word polarities and modifiers.
type Lexicon struct {
	Words        map[string]float64 `yaml:"words"`
	Negations    []string           `yaml:"negations"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
}

// DefaultLexicon returns the built-in finance headline lexicon.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon reads a YAML lexicon from disk.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes a YAML lexicon and lower-cases its keys.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var raw Lexicon
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(raw.Words) == 0 {
		return nil, fmt.Errorf("parse lexicon: no words defined")
	}
	lex := &Lexicon{
		Words:        make(map[string]float64, len(raw.Words)),
		Intensifiers: make(map[string]float64, len(raw.Intensifiers)),
	}
	for w, p := range raw.Words {
		if p < -1 || p > 1 {
			return nil, fmt.Errorf("parse lexicon: %q polarity %v outside [-1, 1]", w, p)
		}
		lex.Words[strings.ToLower(w)] = p
	}
	for _, n := range raw.Negations {
		lex.Negations = append(lex.Negations, strings.ToLower(n))
	}
	for w, f := range raw.Intensifiers {
		lex.Intensifiers[strings.ToLower(w)] = f
	}
	return lex, nil
}

func (l *Lexicon) isNegation(tok string) bool {
	for _, n := range l.Negations {
		if tok == n {
			return true
		}
	}
	return strings.HasSuffix(tok, "n't")
}
