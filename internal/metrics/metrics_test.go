package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAnalysisAndExpose(t *testing.T) {
	m := New()
	m.ObserveAnalysis(ResultOK, time.Now())
	m.ObserveAnalysis(ResultParseError, time.Now())
	m.ObserveDiagram(3, 10, 1)

	if got := testutil.ToFloat64(m.Notes); got != 1 {
		t.Fatalf("expected 1 note counted, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`archmetrics_analyses_total{result="ok"} 1`,
		`archmetrics_analyses_total{result="parse_error"} 1`,
		`archmetrics_diagram_notes_total 1`,
		`archmetrics_flows_per_diagram_count 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in exposition:\n%s", want, out)
		}
	}
}

func TestNewUsesIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveAnalysis(ResultOK, time.Now())

	families, err := b.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "archmetrics_analyses_total" && len(f.GetMetric()) != 0 {
			t.Fatal("second registry saw the first one's observations")
		}
	}
}
