// Package viewstate holds the dashboard's view state as immutable values
// updated by a pure reducer.
package viewstate

import (
	"encoding/json"
	"fmt"

	"github.com/textlens/textlens/internal/detector"
)

// Mode selects the dashboard panel.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// FileStatus tracks one uploaded file.
type FileStatus string

const (
	FilePending   FileStatus = "pending"
	FileUploading FileStatus = "uploading"
	FileDone      FileStatus = "done"
	FileError     FileStatus = "error"
)

// FileEntry is one row of the batch upload list.
type FileEntry struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     FileStatus `json:"status"`
	Label      string     `json:"label,omitempty"`
	Confidence float64    `json:"confidence"`
}

// State is the complete view state. Treat values as immutable; Reduce
// always returns a fresh copy.
type State struct {
	Mode    Mode             `json:"mode"`
	Theme   Theme            `json:"theme"`
	NavOpen bool             `json:"nav_open"`
	Text    string           `json:"text"`
	Result  *detector.Result `json:"result,omitempty"`
	Files   []FileEntry      `json:"files"`
}

// Initial returns the state of a freshly opened dashboard.
func Initial() State {
	return State{Mode: ModeSingle, Theme: ThemeLight, Files: []FileEntry{}}
}

// ActionType names a state transition.
type ActionType string

const (
	ActionSetMode        ActionType = "set_mode"
	ActionToggleTheme    ActionType = "toggle_theme"
	ActionToggleNav      ActionType = "toggle_nav"
	ActionCloseNav       ActionType = "close_nav"
	ActionSetText        ActionType = "set_text"
	ActionResultReceived ActionType = "result_received"
	ActionAnalysisFailed ActionType = "analysis_failed"
	ActionFileQueued     ActionType = "file_queued"
	ActionFileUploading  ActionType = "file_uploading"
	ActionFileDone       ActionType = "file_done"
	ActionFileFailed     ActionType = "file_failed"
	ActionClearFiles     ActionType = "clear_files"
)

// Action is a transition request. Only the fields relevant to Type are read.
type Action struct {
	Type   ActionType       `json:"type"`
	Mode   Mode             `json:"mode,omitempty"`
	Text   string           `json:"text,omitempty"`
	Result *detector.Result `json:"result,omitempty"`
	FileID string           `json:"file_id,omitempty"`
	Name   string           `json:"name,omitempty"`
}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) (State, error) {
	next := s.clone()
	switch a.Type {
	case ActionSetMode:
		if a.Mode != ModeSingle && a.Mode != ModeBatch {
			return s, fmt.Errorf("unknown mode %q", a.Mode)
		}
		next.Mode = a.Mode
	case ActionToggleTheme:
		if next.Theme == ThemeDark {
			next.Theme = ThemeLight
		} else {
			next.Theme = ThemeDark
		}
	case ActionToggleNav:
		next.NavOpen = !next.NavOpen
	case ActionCloseNav:
		next.NavOpen = false
	case ActionSetText:
		next.Text = a.Text
	case ActionResultReceived:
		if a.Result == nil {
			return s, fmt.Errorf("%s requires a result", a.Type)
		}
		next.Result = a.Result
	case ActionAnalysisFailed:
		next.Result = detector.ErrorResult()
	case ActionFileQueued:
		if a.FileID == "" {
			return s, fmt.Errorf("%s requires file_id", a.Type)
		}
		next.Files = append(next.Files, FileEntry{ID: a.FileID, Name: a.Name, Status: FilePending})
	case ActionFileUploading:
		return updateFile(s, next, a.FileID, func(f *FileEntry) {
			f.Status = FileUploading
		})
	case ActionFileDone:
		if a.Result == nil {
			return s, fmt.Errorf("%s requires a result", a.Type)
		}
		return updateFile(s, next, a.FileID, func(f *FileEntry) {
			f.Status = FileDone
			f.Label = a.Result.Prediction
			f.Confidence = a.Result.Confidence
		})
	case ActionFileFailed:
		return updateFile(s, next, a.FileID, func(f *FileEntry) {
			f.Status = FileError
			f.Label = detector.LabelError
			f.Confidence = 0
		})
	case ActionClearFiles:
		next.Files = []FileEntry{}
	default:
		return s, fmt.Errorf("unknown action %q", a.Type)
	}
	return next, nil
}

func updateFile(orig, next State, id string, fn func(*FileEntry)) (State, error) {
	for i := range next.Files {
		if next.Files[i].ID == id {
			fn(&next.Files[i])
			return next, nil
		}
	}
	return orig, fmt.Errorf("unknown file %q", id)
}

func (s State) clone() State {
	c := s
	c.Files = make([]FileEntry, len(s.Files))
	copy(c.Files, s.Files)
	return c
}

// Decode parses a JSON state, filling defaults for missing fields.
func Decode(data []byte) (State, error) {
	s := Initial()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Initial(), fmt.Errorf("decoding view state: %w", err)
	}
	if s.Mode == "" {
		s.Mode = ModeSingle
	}
	if s.Theme == "" {
		s.Theme = ThemeLight
	}
	if s.Files == nil {
		s.Files = []FileEntry{}
	}
	return s, nil
}
