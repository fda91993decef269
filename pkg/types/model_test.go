package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlowsKeepsFirstEncounterOrder(t *testing.T) {
	f := NewFlows()
	f.Add(FlowStep{ID: "a", Flow: "F2", Step: 1})
	f.Add(FlowStep{ID: "b", Flow: "F1", Step: 1})
	f.Add(FlowStep{ID: "c", Flow: "F2", Step: 2})

	if diff := cmp.Diff([]string{"F2", "F1"}, f.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	got := f.Steps("F2")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected F2 steps: %+v", got)
	}
	if f.Len() != 2 || f.StepCount() != 3 {
		t.Fatalf("expected 2 flows and 3 steps, got %d and %d", f.Len(), f.StepCount())
	}
}

func TestFlowsStepsReturnsCopy(t *testing.T) {
	f := NewFlows()
	f.Add(FlowStep{ID: "a", Flow: "F1", Step: 1})

	steps := f.Steps("F1")
	steps[0].Step = 99

	if f.Steps("F1")[0].Step != 1 {
		t.Fatal("mutating returned steps changed the arena")
	}
}

func TestNilFlows(t *testing.T) {
	var f *Flows
	if f.Len() != 0 || f.StepCount() != 0 || f.IDs() != nil || f.Steps("x") != nil {
		t.Fatal("nil Flows should behave as empty")
	}
}

func TestZeroValueFlowsAdd(t *testing.T) {
	var f Flows
	f.Add(FlowStep{Flow: "F1"})
	if f.Len() != 1 {
		t.Fatalf("expected 1 flow, got %d", f.Len())
	}
}
