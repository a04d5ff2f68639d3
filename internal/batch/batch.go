// Package batch analyses a list of files one at a time against the detector.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/viewstate"
)

// Item is one file to analyse.
type Item struct {
	ID   string
	Name string
	Data []byte
}

// Update reports a status transition for one item.
type Update struct {
	ID     string
	Name   string
	Index  int
	Total  int
	Status viewstate.FileStatus
	Result *detector.Result
	Err    error
}

// UpdateFunc receives updates in order. It is called from the goroutine
// running Run.
type UpdateFunc func(Update)

// Runner processes items sequentially. Limiter, when set, paces calls to
// the detector.
type Runner struct {
	Client  detector.Detector
	Limiter *rate.Limiter
}

// NewLimiter returns a limiter allowing rpm requests per minute, or nil
// when rpm is not positive.
func NewLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// Run analyses items in order and returns the final update of each. A
// failed item does not stop the batch; once ctx is done every remaining
// item is reported as an error without contacting the detector.
func (r *Runner) Run(ctx context.Context, items []Item, onUpdate UpdateFunc) []Update {
	emit := func(u Update) {
		if onUpdate != nil {
			onUpdate(u)
		}
	}

	final := make([]Update, 0, len(items))
	for i, item := range items {
		base := Update{ID: item.ID, Name: item.Name, Index: i + 1, Total: len(items)}

		if err := ctx.Err(); err != nil {
			u := failed(base, err)
			emit(u)
			final = append(final, u)
			continue
		}

		up := base
		up.Status = viewstate.FileUploading
		emit(up)

		u := r.analyze(ctx, base, item)
		emit(u)
		final = append(final, u)
	}
	return final
}

func (r *Runner) analyze(ctx context.Context, base Update, item Item) Update {
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return failed(base, err)
		}
	}

	res, err := r.Client.AnalyzeFile(ctx, item.Name, bytes.NewReader(item.Data))
	if err != nil {
		log.Printf("batch: analyze %s: %v", item.Name, err)
		return failed(base, fmt.Errorf("analyze %s: %w", item.Name, err))
	}

	base.Status = viewstate.FileDone
	base.Result = res
	return base
}

func failed(u Update, err error) Update {
	u.Status = viewstate.FileError
	u.Result = detector.ErrorResult()
	u.Err = err
	return u
}

// Action converts an update into the matching view state action.
func (u Update) Action() viewstate.Action {
	switch u.Status {
	case viewstate.FileUploading:
		return viewstate.Action{Type: viewstate.ActionFileUploading, FileID: u.ID}
	case viewstate.FileDone:
		return viewstate.Action{Type: viewstate.ActionFileDone, FileID: u.ID, Result: u.Result}
	default:
		return viewstate.Action{Type: viewstate.ActionFileFailed, FileID: u.ID}
	}
}

// Summary counts final updates per label.
func Summary(updates []Update) map[string]int {
	counts := make(map[string]int)
	for _, u := range updates {
		if u.Status != viewstate.FileDone || u.Result == nil {
			counts[detector.LabelError]++
			continue
		}
		counts[u.Result.Prediction]++
	}
	return counts
}
