package viewstate

import (
	"testing"

	"github.com/textlens/textlens/internal/detector"
)

func mustReduce(t *testing.T, s State, a Action) State {
	t.Helper()
	next, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("Reduce(%s): %v", a.Type, err)
	}
	return next
}

func TestInitial(t *testing.T) {
	s := Initial()
	if s.Mode != ModeSingle || s.Theme != ThemeLight || s.NavOpen {
		t.Errorf("unexpected initial state: %+v", s)
	}
	if s.Files == nil {
		t.Error("Files should be an empty slice, not nil")
	}
}

func TestToggleThemeAndNav(t *testing.T) {
	s := Initial()
	s = mustReduce(t, s, Action{Type: ActionToggleTheme})
	if s.Theme != ThemeDark {
		t.Errorf("theme = %q, want dark", s.Theme)
	}
	s = mustReduce(t, s, Action{Type: ActionToggleTheme})
	if s.Theme != ThemeLight {
		t.Errorf("theme = %q, want light", s.Theme)
	}

	s = mustReduce(t, s, Action{Type: ActionToggleNav})
	if !s.NavOpen {
		t.Error("nav should be open")
	}
	s = mustReduce(t, s, Action{Type: ActionCloseNav})
	if s.NavOpen {
		t.Error("nav should be closed")
	}
}

func TestSetMode(t *testing.T) {
	s := mustReduce(t, Initial(), Action{Type: ActionSetMode, Mode: ModeBatch})
	if s.Mode != ModeBatch {
		t.Errorf("mode = %q", s.Mode)
	}
	if _, err := Reduce(s, Action{Type: ActionSetMode, Mode: "grid"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestAnalysisResults(t *testing.T) {
	s := mustReduce(t, Initial(), Action{Type: ActionSetText, Text: "hello"})
	if s.Text != "hello" {
		t.Errorf("text = %q", s.Text)
	}

	res := &detector.Result{Prediction: detector.LabelHuman, Confidence: 0.9}
	s = mustReduce(t, s, Action{Type: ActionResultReceived, Result: res})
	if s.Result != res {
		t.Error("result not stored")
	}

	s = mustReduce(t, s, Action{Type: ActionAnalysisFailed})
	if !s.Result.IsError() {
		t.Errorf("expected error result, got %+v", s.Result)
	}

	if _, err := Reduce(s, Action{Type: ActionResultReceived}); err == nil {
		t.Error("expected error for missing result")
	}
}

func TestFileLifecycle(t *testing.T) {
	s := Initial()
	s = mustReduce(t, s, Action{Type: ActionFileQueued, FileID: "f1", Name: "a.txt"})
	s = mustReduce(t, s, Action{Type: ActionFileQueued, FileID: "f2", Name: "b.txt"})
	s = mustReduce(t, s, Action{Type: ActionFileUploading, FileID: "f1"})
	if s.Files[0].Status != FileUploading || s.Files[1].Status != FilePending {
		t.Errorf("unexpected statuses: %+v", s.Files)
	}

	s = mustReduce(t, s, Action{Type: ActionFileDone, FileID: "f1", Result: &detector.Result{
		Prediction: detector.LabelGenerated, Confidence: 0.75,
	}})
	s = mustReduce(t, s, Action{Type: ActionFileFailed, FileID: "f2"})

	if f := s.Files[0]; f.Status != FileDone || f.Label != detector.LabelGenerated || f.Confidence != 0.75 {
		t.Errorf("f1 = %+v", f)
	}
	if f := s.Files[1]; f.Status != FileError || f.Label != detector.LabelError || f.Confidence != 0 {
		t.Errorf("f2 = %+v", f)
	}

	if _, err := Reduce(s, Action{Type: ActionFileUploading, FileID: "missing"}); err == nil {
		t.Error("expected error for unknown file")
	}

	s = mustReduce(t, s, Action{Type: ActionClearFiles})
	if len(s.Files) != 0 {
		t.Errorf("files not cleared: %+v", s.Files)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := mustReduce(t, Initial(), Action{Type: ActionFileQueued, FileID: "f1", Name: "a.txt"})
	before := s.Files[0]

	next := mustReduce(t, s, Action{Type: ActionFileUploading, FileID: "f1"})
	if s.Files[0] != before {
		t.Errorf("input state mutated: %+v", s.Files[0])
	}
	if next.Files[0].Status != FileUploading {
		t.Errorf("next status = %q", next.Files[0].Status)
	}

	appended := mustReduce(t, s, Action{Type: ActionFileQueued, FileID: "f2"})
	if len(s.Files) != 1 || len(appended.Files) != 2 {
		t.Errorf("append leaked into input: in=%d out=%d", len(s.Files), len(appended.Files))
	}
}

func TestReduceUnknownAction(t *testing.T) {
	s := Initial()
	got, err := Reduce(s, Action{Type: "explode"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got.Mode != s.Mode {
		t.Error("state should be returned unchanged on error")
	}
}

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(`{"theme":"dark"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Theme != ThemeDark || s.Mode != ModeSingle || s.Files == nil {
		t.Errorf("unexpected state: %+v", s)
	}

	s, err = Decode(nil)
	if err != nil || s.Mode != ModeSingle {
		t.Errorf("Decode(nil) = %+v, %v", s, err)
	}

	if _, err := Decode([]byte(`{"theme":`)); err == nil {
		t.Error("expected error for bad JSON")
	}
}
