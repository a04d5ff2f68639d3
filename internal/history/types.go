package history

import (
	"errors"
	"time"

	"github.com/textlens/textlens/internal/detector"
)

// ErrNotFound is returned when no analysis has the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Source says where the analysed text came from.
type Source string

const (
	SourceText Source = "text"
	SourceFile Source = "file"
	SourcePage Source = "page"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceText, SourceFile, SourcePage:
		return true
	}
	return false
}

// Analysis is one stored detector verdict.
type Analysis struct {
	ID        string           `json:"id"`
	Source    Source           `json:"source"`
	Name      string           `json:"name,omitempty"`
	Text      string           `json:"text,omitempty"`
	Result    *detector.Result `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}

// Filter controls which analyses List returns.
type Filter struct {
	Source Source
	Label  string
	Limit  int
	Offset int
}

// WordStat summarises how a word contributed across stored analyses.
type WordStat struct {
	Word       string  `json:"word"`
	Count      int     `json:"count"`
	MeanWeight float64 `json:"mean_weight"`
}
