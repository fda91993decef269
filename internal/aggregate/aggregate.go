// Package aggregate reduces extracted flows to per-flow response time
// summaries.
//
// A flow's total is the sum of each step's target response time: latency is
// attributed to the node a step arrives at, not to the step itself. The
// steps' own declared values are summed separately for comparison.
//
// Sums saturate at math.MaxFloat64 instead of overflowing to +Inf.
package aggregate

import (
	"math"
	"sort"

	"github.com/MalithGihan/archmetrics/pkg/types"
)

// Summarize returns one summary per flow, in the order flows were first
// encountered during extraction. flows is not modified.
func Summarize(flows *types.Flows) []types.FlowSummary {
	out := make([]types.FlowSummary, 0, flows.Len())
	for _, id := range flows.IDs() {
		out = append(out, summarizeFlow(id, flows.Steps(id)))
	}
	return out
}

func summarizeFlow(id string, steps []types.FlowStep) types.FlowSummary {
	sorted := SortSteps(steps)
	s := types.FlowSummary{
		FlowID:    id,
		StepCount: len(sorted),
		Steps:     sorted,
	}
	if len(sorted) == 0 {
		return s
	}
	var totalSat, declaredSat bool
	for _, st := range sorted {
		s.TotalResponseTime, totalSat = addSaturating(s.TotalResponseTime, st.TargetResponseTime, totalSat)
		s.DeclaredResponseTime, declaredSat = addSaturating(s.DeclaredResponseTime, st.ResponseTime, declaredSat)
	}
	s.Saturated = totalSat || declaredSat
	s.Source = sorted[0].SourceLabel
	s.Target = sorted[len(sorted)-1].TargetLabel
	return s
}

// SortSteps returns a copy of steps ordered by ascending step index. Steps
// sharing an index keep their encounter order.
func SortSteps(steps []types.FlowStep) []types.FlowStep {
	out := make([]types.FlowStep, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out
}

// Total is the sum of all flow totals. saturated is set when the sum was
// clamped.
func Total(summaries []types.FlowSummary) (total float64, saturated bool) {
	for _, s := range summaries {
		total, saturated = addSaturating(total, s.TotalResponseTime, saturated)
	}
	return total, saturated
}

func addSaturating(a, b float64, saturated bool) (float64, bool) {
	sum := a + b
	if math.IsInf(sum, 1) || math.IsNaN(sum) {
		return math.MaxFloat64, true
	}
	return sum, saturated
}
