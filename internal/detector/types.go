package detector

import (
	"sort"

	"github.com/textlens/textlens/internal/highlight"
)

// Labels emitted by the detection service, in display order.
const (
	LabelHuman       = "Human-written"
	LabelParaphrased = "AI-paraphrased"
	LabelGenerated   = "AI-generated"
	LabelError       = "Error"
)

// KnownLabels lists the service's classes in display order.
var KnownLabels = []string{LabelHuman, LabelParaphrased, LabelGenerated}

// Result is the response body of /predict and /analyze-file.
type Result struct {
	Prediction    string                   `json:"prediction"`
	Confidence    float64                  `json:"confidence"`
	Probabilities map[string]float64       `json:"probabilities"`
	Explanation   highlight.ExplanationSet `json:"explanation"`
}

// ErrorResult is what the UI shows when an analysis call fails.
func ErrorResult() *Result {
	return &Result{
		Prediction:    LabelError,
		Confidence:    0,
		Probabilities: map[string]float64{},
		Explanation:   highlight.ExplanationSet{},
	}
}

// IsError reports whether r is the failure placeholder.
func (r *Result) IsError() bool {
	return r == nil || r.Prediction == LabelError
}

// Probability is a single label/probability pair.
type Probability struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SortedProbabilities returns the probabilities with known labels first in
// display order, followed by any other labels alphabetically.
func (r *Result) SortedProbabilities() []Probability {
	if r == nil || len(r.Probabilities) == 0 {
		return nil
	}
	out := make([]Probability, 0, len(r.Probabilities))
	seen := make(map[string]bool, len(KnownLabels))
	for _, l := range KnownLabels {
		if v, ok := r.Probabilities[l]; ok {
			out = append(out, Probability{Label: l, Value: v})
			seen[l] = true
		}
	}
	var rest []string
	for l := range r.Probabilities {
		if !seen[l] {
			rest = append(rest, l)
		}
	}
	sort.Strings(rest)
	for _, l := range rest {
		out = append(out, Probability{Label: l, Value: r.Probabilities[l]})
	}
	return out
}
