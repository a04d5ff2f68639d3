package highlight

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON decodes an explanation array entry by entry. Entries
// without a string "word" or a numeric "weight" are skipped; a value that
// is not an array decodes to an empty set.
func (e *ExplanationSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*e = ExplanationSet{}
		return nil
	}

	out := make(ExplanationSet, 0, len(raw))
	for _, item := range raw {
		if w, ok := decodeScoredWord(item); ok {
			out = append(out, w)
		}
	}
	*e = out
	return nil
}

func decodeScoredWord(item json.RawMessage) (ScoredWord, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return ScoredWord{}, false
	}

	rawWord, ok := fields["word"]
	if !ok || isNull(rawWord) {
		return ScoredWord{}, false
	}
	var word string
	if err := json.Unmarshal(rawWord, &word); err != nil {
		return ScoredWord{}, false
	}

	rawWeight, ok := fields["weight"]
	if !ok || isNull(rawWeight) {
		return ScoredWord{}, false
	}
	var weight float64
	if err := json.Unmarshal(rawWeight, &weight); err != nil {
		return ScoredWord{}, false
	}

	w := ScoredWord{Word: word, Weight: weight}
	if !usable(w) {
		return ScoredWord{}, false
	}
	return w, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
