package types

// Node is an architecture element found in a diagram.
type Node struct {
	ID           string  `json:"id" yaml:"id"`
	Label        string  `json:"label" yaml:"label"`
	ResponseTime float64 `json:"responseTime" yaml:"responseTime"`
	Category     string  `json:"category,omitempty" yaml:"category,omitempty"` // appType style token
}

type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// FlowStep is one hop of a flow. TargetResponseTime is the response time of
// the node the step arrives at; it is what flow totals are built from.
type FlowStep struct {
	ID                 string  `json:"id" yaml:"id"`
	Flow               string  `json:"flow" yaml:"flow"`
	Step               int     `json:"step" yaml:"step"`
	ResponseTime       float64 `json:"responseTime" yaml:"responseTime"`
	Source             string  `json:"source,omitempty" yaml:"source,omitempty"`
	SourceLabel        string  `json:"sourceLabel" yaml:"sourceLabel"`
	Target             string  `json:"target,omitempty" yaml:"target,omitempty"`
	TargetLabel        string  `json:"targetLabel" yaml:"targetLabel"`
	TargetResponseTime float64 `json:"targetResponseTime" yaml:"targetResponseTime"`
}

type FlowSummary struct {
	FlowID               string     `json:"flowId" yaml:"flowId"`
	Source               string     `json:"source" yaml:"source"`
	Target               string     `json:"target" yaml:"target"`
	TotalResponseTime    float64    `json:"totalResponseTime" yaml:"totalResponseTime"`
	DeclaredResponseTime float64    `json:"declaredResponseTime" yaml:"declaredResponseTime"`
	StepCount            int        `json:"stepCount" yaml:"stepCount"`
	Saturated            bool       `json:"saturated,omitempty" yaml:"saturated,omitempty"` // a sum overflowed and was clamped
	Steps                []FlowStep `json:"steps" yaml:"steps"`
}

// Flows groups steps by flow id. Steps live in a single arena in encounter
// order; the index maps each flow id to positions in the arena, and ids are
// iterated in order of first encounter.
type Flows struct {
	arena []FlowStep
	index map[string][]int
	order []string
}

func NewFlows() *Flows {
	return &Flows{index: map[string][]int{}}
}

// Add appends s to the flow named by s.Flow.
func (f *Flows) Add(s FlowStep) {
	if f.index == nil {
		f.index = map[string][]int{}
	}
	if _, ok := f.index[s.Flow]; !ok {
		f.order = append(f.order, s.Flow)
	}
	f.index[s.Flow] = append(f.index[s.Flow], len(f.arena))
	f.arena = append(f.arena, s)
}

// IDs returns flow ids in first-encounter order.
func (f *Flows) IDs() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Steps returns a copy of the steps of flow id in encounter order.
func (f *Flows) Steps(id string) []FlowStep {
	if f == nil {
		return nil
	}
	idx := f.index[id]
	out := make([]FlowStep, 0, len(idx))
	for _, i := range idx {
		out = append(out, f.arena[i])
	}
	return out
}

func (f *Flows) Len() int {
	if f == nil {
		return 0
	}
	return len(f.order)
}

// StepCount is the number of steps across all flows.
func (f *Flows) StepCount() int {
	if f == nil {
		return 0
	}
	return len(f.arena)
}

// Diagram is everything extracted from one diagram document.
type Diagram struct {
	Nodes     map[string]Node
	NodeOrder []string
	Edges     []Edge
	Flows     *Flows
	Notes     []string
}
