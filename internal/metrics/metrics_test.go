package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/textlens/textlens/internal/highlight"
)

func TestInstrumentTransportCountsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, "{}")
	}))
	defer srv.Close()

	m := New()
	client := &http.Client{Transport: m.InstrumentTransport(nil)}

	for _, path := range []string{"/predict", "/predict", "/fail"} {
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/predict", "200")); got != 2 {
		t.Errorf("predict 200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/fail", "502")); got != 1 {
		t.Errorf("fail 502 count = %v, want 1", got)
	}
}

func TestInstrumentTransportTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := New()
	client := &http.Client{Transport: m.InstrumentTransport(nil)}
	if _, err := client.Get(url + "/predict"); err == nil {
		t.Fatal("expected error from closed server")
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/predict", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestObserveSegments(t *testing.T) {
	m := New()
	segs := highlight.Annotate("good bad plain", []highlight.ScoredWord{
		{Word: "good", Weight: 0.5},
		{Word: "bad", Weight: -0.5},
	})
	m.ObserveSegments(segs)

	if got := testutil.ToFloat64(m.segmentsTotal.WithLabelValues("positive")); got != 1 {
		t.Errorf("positive = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.segmentsTotal.WithLabelValues("negative")); got != 1 {
		t.Errorf("negative = %v, want 1", got)
	}

	var nilMetrics *Metrics
	nilMetrics.ObserveSegments(segs)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveSegments([]highlight.Segment{{Text: "x", Annotated: true, Sign: highlight.SignNeutral}})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "textlens_highlight_segments_total") {
		t.Error("expected segment counter in output")
	}
}
