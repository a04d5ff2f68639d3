package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type token struct {
	text string
	word bool
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// tokenize splits s into alternating word and non-word runs. Invalid UTF-8
// bytes are kept verbatim in non-word runs.
func tokenize(s string) []token {
	var toks []token
	start := 0
	inWord := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		w := r != utf8.RuneError && isWordRune(r)
		if i > start && w != inWord {
			toks = append(toks, token{text: s[start:i], word: inWord})
			start = i
		}
		inWord = w
		i += size
	}
	if start < len(s) {
		toks = append(toks, token{text: s[start:], word: inWord})
	}
	return toks
}

// normalizer produces match keys. A cases.Caser is stateful, so each
// Annotate call owns one.
type normalizer struct {
	fold cases.Caser
}

func newNormalizer() *normalizer {
	return &normalizer{fold: cases.Fold()}
}

// key folds case, applies NFKC and drops everything but letters and digits.
func (n *normalizer) key(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return ""
	}
	return n.fold.String(s)
}
