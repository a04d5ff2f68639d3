package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Reporter follows a batch of file analyses, one verdict per file.
type Reporter interface {
	Start(total int)
	FileDone(index int, name, label string)
	Finish()
}

// NewReporter returns a progress bar on stderr, or line output when running
// under CI.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{Out: os.Stderr}
	}
	return &BarReporter{Out: os.Stderr}
}

// tally counts verdicts per label.
type tally map[string]int

// String lists labels with their counts, largest first.
func (t tally) String() string {
	labels := make([]string, 0, len(t))
	for l := range t {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if t[labels[i]] != t[labels[j]] {
			return t[labels[i]] > t[labels[j]]
		}
		return labels[i] < labels[j]
	})
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%d %s", t[l], l)
	}
	return strings.Join(parts, ", ")
}

// BarReporter draws a progress bar whose description names the last file
// and its verdict.
type BarReporter struct {
	Out    io.Writer
	bar    *progressbar.ProgressBar
	counts tally
}

func (r *BarReporter) Start(total int) {
	r.counts = tally{}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) FileDone(index int, name, label string) {
	r.counts[label]++
	if r.bar != nil {
		r.bar.Describe(fmt.Sprintf("%s [%s]", name, label))
		_ = r.bar.Set(index)
	}
}

func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	fmt.Fprintf(r.Out, "Analyzed files: %s\n", r.counts)
}

// LineReporter prints one line per file, suitable for CI logs.
type LineReporter struct {
	Out    io.Writer
	total  int
	counts tally
}

func (r *LineReporter) Start(total int) {
	r.total = total
	r.counts = tally{}
	fmt.Fprintf(r.Out, "Analyzing %d files\n", total)
}

func (r *LineReporter) FileDone(index int, name, label string) {
	r.counts[label]++
	fmt.Fprintf(r.Out, "[%d/%d] %s: %s\n", index, r.total, name, label)
}

func (r *LineReporter) Finish() {
	fmt.Fprintf(r.Out, "Analyzed files: %s\n", r.counts)
}
