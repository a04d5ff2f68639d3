package highlight

// Sign classifies the direction of a word's influence on a prediction.
type Sign string

const (
	SignPositive Sign = "positive"
	SignNegative Sign = "negative"
	SignNeutral  Sign = "neutral"
)

// SignOf returns the sign of a weight.
func SignOf(weight float64) Sign {
	switch {
	case weight > 0:
		return SignPositive
	case weight < 0:
		return SignNegative
	default:
		return SignNeutral
	}
}

// ScoredWord is a single (word, weight) pair from an explanation.
type ScoredWord struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// ExplanationSet is the ordered list of scored words returned with a
// prediction. It decodes leniently: malformed entries are dropped.
type ExplanationSet []ScoredWord

// Segment is one piece of annotated output. Plain segments carry only Text.
type Segment struct {
	Text      string  `json:"text"`
	Annotated bool    `json:"annotated"`
	Intensity float64 `json:"intensity,omitempty"`
	Sign      Sign    `json:"sign,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// DuplicatePolicy decides which entry applies when several scored words
// normalise to the same surface form.
type DuplicatePolicy int

const (
	// LastWins keeps the latest entry in explanation order.
	LastWins DuplicatePolicy = iota
	// FirstWins keeps the earliest entry.
	FirstWins
	// MaxMagnitude keeps the entry with the largest absolute weight.
	// Ties go to the later entry.
	MaxMagnitude
)

// Options tunes Annotate. The zero value is the default behaviour.
type Options struct {
	Duplicates DuplicatePolicy
}

// Epsilon floors the normalisation denominator so all-zero explanations
// do not divide by zero.
const Epsilon = 0.001
