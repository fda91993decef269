package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/archmetrics/pkg/types"
)

func sampleDiagram() types.Diagram {
	flows := types.NewFlows()
	flows.Add(types.FlowStep{ID: "s2", Flow: "F1", Step: 2, SourceLabel: "B", TargetLabel: "C", TargetResponseTime: 20})
	flows.Add(types.FlowStep{ID: "s1", Flow: "F1", Step: 1, SourceLabel: "A", TargetLabel: "B", TargetResponseTime: 10})
	flows.Add(types.FlowStep{ID: "t1", Flow: "F2", Step: 1, SourceLabel: "A", TargetLabel: "C", TargetResponseTime: 20})
	return types.Diagram{
		Nodes: map[string]types.Node{
			"A": {ID: "A", Label: "A", Category: "gateway"},
			"B": {ID: "B", Label: "B", ResponseTime: 10, Category: "service"},
			"C": {ID: "C", Label: "C", ResponseTime: 20, Category: "service"},
		},
		NodeOrder: []string{"C", "A", "B"},
		Flows:     flows,
	}
}

func TestBuild(t *testing.T) {
	r := Build("arch.drawio", sampleDiagram())

	if r.ID == "" || r.GeneratedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %q %v", r.ID, r.GeneratedAt)
	}
	var order []string
	for _, n := range r.Nodes {
		order = append(order, n.ID)
	}
	if diff := cmp.Diff([]string{"C", "A", "B"}, order); diff != "" {
		t.Fatalf("unexpected node order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"gateway", "service"}, r.Categories); diff != "" {
		t.Fatalf("unexpected categories (-want +got):\n%s", diff)
	}
	if len(r.Flows) != 2 || r.Flows[0].TotalResponseTime != 30 || r.Flows[1].TotalResponseTime != 20 {
		t.Fatalf("unexpected flows: %+v", r.Flows)
	}
	if r.TotalResponseTime != 50 {
		t.Fatalf("expected grand total 50, got %v", r.TotalResponseTime)
	}
	if r.Edges == nil || r.Notes == nil {
		t.Fatal("expected empty, non-nil edges and notes")
	}
}

func TestBuildAssignsDistinctIDs(t *testing.T) {
	a := Build("", types.Diagram{Flows: types.NewFlows()})
	b := Build("", types.Diagram{Flows: types.NewFlows()})
	if a.ID == b.ID {
		t.Fatalf("expected distinct report ids, got %s twice", a.ID)
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Build("arch.drawio", sampleDiagram()).Encode(&buf, FormatJSON); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var decoded struct {
		Flows []struct {
			FlowID            string  `json:"flowId"`
			Source            string  `json:"source"`
			Target            string  `json:"target"`
			TotalResponseTime float64 `json:"totalResponseTime"`
		} `json:"flows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded.Flows) != 2 || decoded.Flows[0].Source != "A" || decoded.Flows[0].Target != "C" {
		t.Fatalf("unexpected flows: %+v", decoded.Flows)
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Build("arch.drawio", sampleDiagram()).Encode(&buf, FormatYAML); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if decoded["name"] != "arch.drawio" {
		t.Fatalf("expected name arch.drawio, got %v", decoded["name"])
	}
	if flows, ok := decoded["flows"].([]any); !ok || len(flows) != 2 {
		t.Fatalf("expected 2 flows, got %v", decoded["flows"])
	}
}

func TestEncodeTable(t *testing.T) {
	d := sampleDiagram()
	d.Notes = []string{"flow F3 step 1: target \"x\" not found"}

	var buf bytes.Buffer
	if err := Build("", d).Encode(&buf, FormatTable); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Flow ID", "Total Response Time (ms)", "F1", "30", "2 flows, 3 nodes, 0 edges", "note: flow F3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "table": FormatTable}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestFormatMillis(t *testing.T) {
	if got := FormatMillis(30); got != "30" {
		t.Fatalf("expected 30, got %s", got)
	}
	if got := FormatMillis(12.5); got != "12.5" {
		t.Fatalf("expected 12.5, got %s", got)
	}
}
