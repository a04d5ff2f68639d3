package dashboard

import (
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/history"
	"github.com/textlens/textlens/internal/render"
	"github.com/textlens/textlens/internal/viewstate"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
}).Parse(indexHTML))

// pageData feeds index.html.
type pageData struct {
	State       viewstate.State
	AnalysisID  string
	Highlighted template.HTML
	Probs       []detector.Probability
	Notice      string
	Accept      string
}

// stateFromRequest builds the view state from query or form values.
func stateFromRequest(r *http.Request) viewstate.State {
	s := viewstate.Initial()
	apply := func(a viewstate.Action) {
		if next, err := viewstate.Reduce(s, a); err == nil {
			s = next
		}
	}
	if viewstate.Mode(r.FormValue("mode")) == viewstate.ModeBatch {
		apply(viewstate.Action{Type: viewstate.ActionSetMode, Mode: viewstate.ModeBatch})
	}
	if viewstate.Theme(r.FormValue("theme")) == viewstate.ThemeDark {
		apply(viewstate.Action{Type: viewstate.ActionToggleTheme})
	}
	if r.FormValue("nav") == "open" {
		apply(viewstate.Action{Type: viewstate.ActionToggleNav})
	}
	return s
}

// ServeIndex renders the dashboard page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	d.renderPage(w, http.StatusOK, pageData{State: stateFromRequest(r)})
}

// handleAnalyzeForm analyses the submitted text and re-renders the page.
// A detector failure shows the Error result instead of failing the request.
func (d *Dashboard) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := stateFromRequest(r)
	s, _ = viewstate.Reduce(s, viewstate.Action{Type: viewstate.ActionSetText, Text: r.PostForm.Get("text")})

	a, err := d.analyzeText(r.Context(), history.SourceText, "", s.Text)
	if err != nil {
		d.renderPage(w, http.StatusOK, pageData{State: s, Notice: "Please enter some text to analyze."})
		return
	}

	data := pageData{
		AnalysisID:  a.Record.ID,
		Highlighted: render.HTML(a.Segments),
		Probs:       a.Record.Result.SortedProbabilities(),
	}
	if a.Err != nil {
		s, _ = viewstate.Reduce(s, viewstate.Action{Type: viewstate.ActionAnalysisFailed})
		data.Notice = "The detector could not analyse this text."
	} else {
		s, _ = viewstate.Reduce(s, viewstate.Action{Type: viewstate.ActionResultReceived, Result: a.Record.Result})
	}
	data.State = s
	d.renderPage(w, http.StatusOK, data)
}

func (d *Dashboard) renderPage(w http.ResponseWriter, status int, data pageData) {
	data.Accept = strings.Join(d.cfg.AllowedExtensions, ",")
	var b strings.Builder
	if err := indexTmpl.Execute(&b, data); err != nil {
		log.Printf("dashboard: rendering page: %v", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(b.String()))
}
