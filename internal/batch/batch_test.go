package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/detector/detectortest"
	"github.com/textlens/textlens/internal/viewstate"
)

func items() []Item {
	return []Item{
		{ID: "1", Name: "a.txt", Data: []byte("alpha")},
		{ID: "2", Name: "b.txt", Data: []byte("beta")},
		{ID: "3", Name: "c.txt", Data: []byte("gamma")},
	}
}

func TestRunSequentialUpdates(t *testing.T) {
	mock := detectortest.New()
	r := &Runner{Client: mock}

	var got []Update
	final := r.Run(context.Background(), items(), func(u Update) { got = append(got, u) })

	if len(got) != 6 {
		t.Fatalf("expected 6 updates, got %d", len(got))
	}
	for i := 0; i < 3; i++ {
		if got[2*i].Status != viewstate.FileUploading {
			t.Errorf("update %d status = %q, want uploading", 2*i, got[2*i].Status)
		}
		if got[2*i+1].Status != viewstate.FileDone {
			t.Errorf("update %d status = %q, want done", 2*i+1, got[2*i+1].Status)
		}
	}
	if len(final) != 3 || final[2].Index != 3 || final[2].Total != 3 {
		t.Errorf("unexpected final updates: %+v", final)
	}

	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	for i, want := range []string{"a.txt", "b.txt", "c.txt"} {
		if mock.Calls[i].Name != want {
			t.Errorf("call %d name = %q, want %q", i, mock.Calls[i].Name, want)
		}
	}
	if mock.Calls[1].Content != "beta" {
		t.Errorf("content = %q", mock.Calls[1].Content)
	}
}

func TestRunFailureDoesNotStopBatch(t *testing.T) {
	mock := detectortest.New()
	mock.FileErrors = map[string]error{"b.txt": errors.New("boom")}
	r := &Runner{Client: mock}

	final := r.Run(context.Background(), items(), nil)

	if final[0].Status != viewstate.FileDone || final[2].Status != viewstate.FileDone {
		t.Errorf("neighbours of the failed item should succeed: %+v", final)
	}
	if final[1].Status != viewstate.FileError {
		t.Fatalf("b.txt status = %q", final[1].Status)
	}
	if final[1].Result.Prediction != detector.LabelError || final[1].Result.Confidence != 0 {
		t.Errorf("failed result = %+v", final[1].Result)
	}
	if final[1].Err == nil {
		t.Error("expected error on failed update")
	}

	counts := Summary(final)
	if counts[detector.LabelGenerated] != 2 || counts[detector.LabelError] != 1 {
		t.Errorf("Summary = %v", counts)
	}
}

func TestRunCancelledMarksRemaining(t *testing.T) {
	mock := detectortest.New()
	r := &Runner{Client: mock}

	ctx, cancel := context.WithCancel(context.Background())
	final := r.Run(ctx, items(), func(u Update) {
		if u.ID == "1" && u.Status == viewstate.FileDone {
			cancel()
		}
	})

	if final[0].Status != viewstate.FileDone {
		t.Errorf("first item = %q, want done", final[0].Status)
	}
	for _, u := range final[1:] {
		if u.Status != viewstate.FileError || !errors.Is(u.Err, context.Canceled) {
			t.Errorf("item %s = %q (%v), want cancelled error", u.ID, u.Status, u.Err)
		}
	}
	if mock.CallCount() != 1 {
		t.Errorf("detector called %d times after cancel", mock.CallCount())
	}
}

func TestNewLimiter(t *testing.T) {
	if NewLimiter(0) != nil {
		t.Error("rpm 0 should disable limiting")
	}
	l := NewLimiter(60)
	if l == nil || l.Burst() != 1 {
		t.Fatalf("unexpected limiter: %+v", l)
	}

	r := &Runner{Client: detectortest.New(), Limiter: NewLimiter(600000)}
	final := r.Run(context.Background(), items()[:2], nil)
	if final[1].Status != viewstate.FileDone {
		t.Errorf("limited run status = %q", final[1].Status)
	}
}

func TestUpdateAction(t *testing.T) {
	s := viewstate.Initial()
	s, _ = viewstate.Reduce(s, viewstate.Action{Type: viewstate.ActionFileQueued, FileID: "1", Name: "a.txt"})

	r := &Runner{Client: detectortest.New()}
	r.Run(context.Background(), items()[:1], func(u Update) {
		var err error
		s, err = viewstate.Reduce(s, u.Action())
		if err != nil {
			t.Fatalf("Reduce: %v", err)
		}
	})

	if f := s.Files[0]; f.Status != viewstate.FileDone || f.Label != detector.LabelGenerated {
		t.Errorf("file entry = %+v", f)
	}
}
