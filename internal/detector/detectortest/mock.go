// Package detectortest provides an in-memory Detector for tests.
package detectortest

import (
	"context"
	"io"
	"sync"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/highlight"
)

// Call records one invocation of the mock.
type Call struct {
	Method  string
	Text    string
	Name    string
	Content string
}

// Mock records calls and returns a canned result. FileErrors maps file
// names to errors returned by AnalyzeFile.
type Mock struct {
	mu         sync.Mutex
	Calls      []Call
	Result     *detector.Result
	Err        error
	FileErrors map[string]error
}

// New returns a Mock answering with a fixed AI-generated verdict.
func New() *Mock {
	return &Mock{
		Result: &detector.Result{
			Prediction: detector.LabelGenerated,
			Confidence: 0.82,
			Probabilities: map[string]float64{
				detector.LabelHuman:       0.1,
				detector.LabelParaphrased: 0.08,
				detector.LabelGenerated:   0.82,
			},
			Explanation: highlight.ExplanationSet{
				{Word: "clearly", Weight: 0.8},
				{Word: "fabricated", Weight: -0.4},
			},
		},
	}
}

func (m *Mock) Predict(ctx context.Context, text string) (*detector.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: "predict", Text: text})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.copyResult(), nil
}

func (m *Mock) AnalyzeFile(ctx context.Context, name string, r io.Reader) (*detector.Result, error) {
	data, _ := io.ReadAll(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: "analyze-file", Name: name, Content: string(data)})
	if err := m.FileErrors[name]; err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.copyResult(), nil
}

// CallCount returns the number of recorded calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *Mock) copyResult() *detector.Result {
	r := *m.Result
	r.Probabilities = make(map[string]float64, len(m.Result.Probabilities))
	for k, v := range m.Result.Probabilities {
		r.Probabilities[k] = v
	}
	r.Explanation = append(highlight.ExplanationSet(nil), m.Result.Explanation...)
	return &r
}
