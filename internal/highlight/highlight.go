// Package highlight maps explanation weights back onto source text.
//
// Annotate splits text into word and non-word runs and tags every word
// whose normalised form equals a scored word. Intensities are relative to
// the strongest weight anywhere in the explanation, duplicates included, so
// the most influential entry renders at full saturation. The package does no I/O and holds no state.
package highlight

import (
	"math"
	"strings"
)

// Annotate returns the segments of sourceText with explanation weights
// applied using the default options.
func Annotate(sourceText string, explanation []ScoredWord) []Segment {
	return AnnotateWith(sourceText, explanation, Options{})
}

// AnnotateWith is Annotate with explicit options.
//
// Whitespace-only input yields no segments. When no usable explanation
// entry remains, the whole text comes back as a single plain segment.
// Concatenating the Text of the result always reproduces sourceText.
func AnnotateWith(sourceText string, explanation []ScoredWord, opts Options) []Segment {
	if strings.TrimSpace(sourceText) == "" {
		return nil
	}

	n := newNormalizer()
	lookup := buildLookup(n, explanation, opts.Duplicates)
	if len(lookup) == 0 {
		return []Segment{{Text: sourceText}}
	}

	maxAbs := maxWeight(n, explanation)

	var (
		out   []Segment
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() > 0 {
			out = append(out, Segment{Text: plain.String()})
			plain.Reset()
		}
	}

	for _, tok := range tokenize(sourceText) {
		if !tok.word {
			plain.WriteString(tok.text)
			continue
		}
		w, ok := lookup[n.key(tok.text)]
		if !ok {
			plain.WriteString(tok.text)
			continue
		}
		flush()
		out = append(out, Segment{
			Text:      tok.text,
			Annotated: true,
			Intensity: math.Min(math.Abs(w.Weight)/maxAbs, 1),
			Sign:      SignOf(w.Weight),
			Weight:    w.Weight,
		})
	}
	flush()
	return out
}

// buildLookup indexes usable entries by normalised word, resolving
// duplicates according to policy.
func buildLookup(n *normalizer, explanation []ScoredWord, policy DuplicatePolicy) map[string]ScoredWord {
	lookup := make(map[string]ScoredWord, len(explanation))
	for _, w := range explanation {
		if !usable(w) {
			continue
		}
		k := n.key(w.Word)
		if k == "" {
			continue
		}
		prev, seen := lookup[k]
		switch {
		case !seen:
			lookup[k] = w
		case policy == FirstWins:
		case policy == MaxMagnitude:
			if math.Abs(w.Weight) >= math.Abs(prev.Weight) {
				lookup[k] = w
			}
		default:
			lookup[k] = w
		}
	}
	return lookup
}

// maxWeight is the largest absolute weight over every usable entry,
// before duplicates are resolved, floored at Epsilon.
func maxWeight(n *normalizer, explanation []ScoredWord) float64 {
	maxAbs := Epsilon
	for _, w := range explanation {
		if !usable(w) || n.key(w.Word) == "" {
			continue
		}
		if a := math.Abs(w.Weight); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

func usable(w ScoredWord) bool {
	if strings.TrimSpace(w.Word) == "" {
		return false
	}
	return !math.IsNaN(w.Weight) && !math.IsInf(w.Weight, 0)
}

// Text concatenates the text of every segment.
func Text(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Matched returns only the annotated segments.
func Matched(segments []Segment) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Annotated {
			out = append(out, s)
		}
	}
	return out
}
