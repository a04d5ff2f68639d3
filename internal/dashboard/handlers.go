package dashboard

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/highlight"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/pagetext"
	"github.com/textlens/textlens/internal/render"
	"github.com/textlens/textlens/internal/report"
	"github.com/textlens/textlens/internal/viewstate"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 8 << 20

type analyzeRequest struct {
	Text string `json:"text"`
	Name string `json:"name,omitempty"`
}

// analyzeResponse is returned by /api/analyze and /api/scan.
type analyzeResponse struct {
	ID              string              `json:"id,omitempty"`
	Title           string              `json:"title,omitempty"`
	Text            string              `json:"text,omitempty"`
	Result          *detector.Result    `json:"result"`
	Segments        []highlight.Segment `json:"segments"`
	HighlightedHTML template.HTML       `json:"highlighted_html,omitempty"`
	Error           string              `json:"error,omitempty"`
}

func newAnalyzeResponse(a *analysis) (int, analyzeResponse) {
	resp := analyzeResponse{
		ID:       a.Record.ID,
		Result:   a.Record.Result,
		Segments: a.Segments,
	}
	if resp.Segments == nil {
		resp.Segments = []highlight.Segment{}
	}
	if a.Err != nil {
		resp.Error = a.Err.Error()
		return http.StatusBadGateway, resp
	}
	return http.StatusOK, resp
}

func (d *Dashboard) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a, err := d.analyzeText(r.Context(), history.SourceText, req.Name, req.Text)
	if errors.Is(err, errEmptyText) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, resp := newAnalyzeResponse(a)
	writeJSON(w, status, resp)
}

type scanRequest struct {
	URL  string `json:"url,omitempty"`
	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"`
}

// handleScan serves the browser extension: the page HTML (or already
// extracted text) is reduced to its article text and analysed.
func (d *Dashboard) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text, title := req.Text, ""
	if req.HTML != "" {
		page, err := pagetext.ExtractString(req.HTML, d.cfg.MaxTextLength)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		text, title = page.Text, page.Title
	}

	name := req.URL
	if name == "" {
		name = title
	}
	a, err := d.analyzeText(r.Context(), history.SourcePage, name, text)
	if errors.Is(err, errEmptyText) {
		writeError(w, http.StatusBadRequest, "no readable text found")
		return
	}

	status, resp := newAnalyzeResponse(a)
	resp.Title = title
	resp.Text = a.Record.Text
	resp.HighlightedHTML = render.HTML(a.Segments)
	writeJSON(w, status, resp)
}

type highlightRequest struct {
	Text        string                   `json:"text"`
	Explanation highlight.ExplanationSet `json:"explanation"`
}

// handleHighlight annotates text with a caller-supplied explanation
// without contacting the detector.
func (d *Dashboard) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	segs := highlight.Annotate(req.Text, req.Explanation)
	if segs == nil {
		segs = []highlight.Segment{}
	}
	d.cfg.Metrics.ObserveSegments(segs)
	writeJSON(w, http.StatusOK, map[string]any{
		"segments":         segs,
		"highlighted_html": render.HTML(segs),
	})
}

type viewRequest struct {
	State  json.RawMessage  `json:"state"`
	Action viewstate.Action `json:"action"`
}

func (d *Dashboard) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	state, err := viewstate.Decode(req.State)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	next, err := viewstate.Reduce(state, req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (d *Dashboard) handleReport(w http.ResponseWriter, r *http.Request) {
	if d.cfg.Store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := d.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	body, err := report.Build(*a, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if format == report.FormatJSON {
		w.Header().Set("Content-Disposition", `attachment; filename="analysis_result.json"`)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
