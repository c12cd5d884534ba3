package model

// Headline is a raw news item as reported by the provider.
type Headline struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Publisher string `json:"publisher"`
}

// Label classifies a headline's polarity.
type Label int

const (
	Neutral Label = iota
	Positive
	Negative
)

func (l Label) String() string {
	switch l {
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	default:
		return "Neutral"
	}
}

func (l Label) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// LabelFor maps a polarity score to its label. Exactly zero is Neutral.
func LabelFor(polarity float64) Label {
	switch {
	case polarity > 0:
		return Positive
	case polarity < 0:
		return Negative
	default:
		return Neutral
	}
}

// AnnotatedHeadline is a headline with its sentiment score.
type AnnotatedHeadline struct {
	Headline
	Polarity float64 `json:"polarity"`
	Label    Label   `json:"label"`
}
