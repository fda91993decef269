package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/MalithGihan/archmetrics/pkg/types"
)

// Options tune extraction.
type Options struct {
	// Strict turns malformed numeric attribute text into an *AttributeError
	// instead of coercing it to zero.
	Strict bool
}

// cell is one diagram element reduced to the fields extraction uses. Both
// supported shapes (mxCell with <data> children, object/UserObject with
// direct attributes) are mapped onto it once, at the boundary.
type cell struct {
	ID            string
	Label         string
	Style         string
	Source        string
	Target        string
	Parent        string
	Flow          string
	Step          optional
	ResponseTime  optional
	RenderingTime optional
}

func (c cell) isStep() bool { return strings.TrimSpace(c.Flow) != "" && c.Step.present() }

func (c cell) isEdge() bool { return c.Source != "" && c.Target != "" && c.Source != c.Target }

// isLayer reports whether c is one of the structural cells every draw.io
// page starts with: the root (no parent) and its layers (parented to a root).
func (c cell) isLayer(roots map[string]bool) bool {
	if c.Label != "" || c.Style != "" || c.Source != "" || c.Target != "" {
		return false
	}
	return c.Parent == "" || roots[c.Parent]
}

// ParseFile reads and parses the diagram at path.
func ParseFile(path string, opts Options) (types.Diagram, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Diagram{}, errors.Wrap(err, "read diagram")
	}
	d, err := ParseBytes(b, opts)
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Source = path
	}
	return d, err
}

func ParseBytes(b []byte, opts Options) (types.Diagram, error) {
	return Parse(bytes.NewReader(b), opts)
}

// Parse extracts nodes, edges and flow steps from a Draw.io XML export.
// Malformed markup fails with *ParseError; missing attributes and dangling
// references degrade to empty labels and zero response times.
func Parse(r io.Reader, opts Options) (types.Diagram, error) {
	root, err := readTree(r)
	if err != nil {
		return types.Diagram{}, err
	}
	var cells []cell
	if err := collect(root, &cells); err != nil {
		return types.Diagram{}, err
	}
	return build(cells, opts)
}

func collect(el *element, out *[]cell) error {
	switch el.name {
	case "object", "UserObject":
		*out = append(*out, objectCell(el))
		return nil
	case "mxCell":
		*out = append(*out, mxCellRecord(el))
		return nil
	case "diagram":
		if len(el.children) == 0 {
			if payload := strings.TrimSpace(el.text.String()); payload != "" {
				inner, err := inflateDiagram(payload)
				if err != nil {
					return err
				}
				return collect(inner, out)
			}
		}
	}
	for _, c := range el.children {
		if err := collect(c, out); err != nil {
			return err
		}
	}
	return nil
}

func objectCell(el *element) cell {
	c := cell{
		ID:            el.attrs["id"],
		Label:         cleanLabel(el.attrs["label"]),
		Flow:          strings.TrimSpace(el.attrs[attrFlow]),
		Step:          el.attr(attrStep),
		ResponseTime:  el.attr(attrResponseTime),
		RenderingTime: el.attr(attrRenderingTime),
	}
	if mc := el.child("mxCell"); mc != nil {
		c.Source = mc.attrs["source"]
		c.Target = mc.attrs["target"]
		c.Style = mc.attrs["style"]
		c.Parent = mc.attrs["parent"]
	}
	return c
}

func mxCellRecord(el *element) cell {
	c := cell{
		ID:     el.attrs["id"],
		Label:  cleanLabel(el.attrs["value"]),
		Style:  el.attrs["style"],
		Source: el.attrs["source"],
		Target: el.attrs["target"],
		Parent: el.attrs["parent"],
	}
	for _, d := range el.children {
		if d.name != "data" {
			continue
		}
		key, ok := d.attrs["key"]
		if !ok {
			continue
		}
		val := optional{Value: strings.TrimSpace(d.text.String()), Set: true}
		switch key {
		case attrFlow:
			c.Flow = val.Value
		case attrStep:
			c.Step = val
		case attrResponseTime:
			c.ResponseTime = val
		case attrRenderingTime:
			c.RenderingTime = val
		}
	}
	return c
}

// pendingStep is a classified step whose endpoints are resolved once every
// node is known.
type pendingStep struct {
	cell
	step         int
	responseTime float64
}

func build(cells []cell, opts Options) (types.Diagram, error) {
	d := types.Diagram{
		Nodes: map[string]types.Node{},
		Edges: []types.Edge{},
		Flows: types.NewFlows(),
	}
	var steps []pendingStep
	roots := map[string]bool{}

	for _, c := range cells {
		rt, err := responseTime(c, opts)
		if err != nil {
			return types.Diagram{}, err
		}
		switch {
		case c.isStep():
			idx, err := parseIntOrDefault(c.Step)
			if err != nil && opts.Strict {
				return types.Diagram{}, &AttributeError{ElementID: c.ID, Attribute: attrStep, Value: c.Step.Value, Err: err}
			}
			steps = append(steps, pendingStep{cell: c, step: idx, responseTime: rt})
		case c.isEdge():
			d.Edges = append(d.Edges, types.Edge{ID: c.ID, Source: c.Source, Target: c.Target, Label: c.Label})
		default:
			layer := c.isLayer(roots)
			if layer && c.Parent == "" {
				roots[c.ID] = true
			}
			if _, dup := d.Nodes[c.ID]; !dup {
				d.NodeOrder = append(d.NodeOrder, c.ID)
			} else if !layer {
				d.Notes = append(d.Notes, fmt.Sprintf("duplicate node id %q: later definition wins", c.ID))
			}
			d.Nodes[c.ID] = types.Node{
				ID:           c.ID,
				Label:        c.Label,
				ResponseTime: rt,
				Category:     styleValue(c.Style, styleCategoryKey),
			}
		}
	}

	for _, s := range steps {
		var (
			src, dst     types.Node
			srcOK, dstOK bool
		)
		if s.Source != "" {
			src, srcOK = d.Nodes[s.Source]
		}
		if s.Target != "" {
			dst, dstOK = d.Nodes[s.Target]
		}
		if s.Source != "" && !srcOK {
			d.Notes = append(d.Notes, fmt.Sprintf("flow %s step %d: source %q not found", s.Flow, s.step, s.Source))
		}
		if s.Target != "" && !dstOK {
			d.Notes = append(d.Notes, fmt.Sprintf("flow %s step %d: target %q not found", s.Flow, s.step, s.Target))
		}
		d.Flows.Add(types.FlowStep{
			ID:                 s.ID,
			Flow:               s.Flow,
			Step:               s.step,
			ResponseTime:       s.responseTime,
			Source:             s.Source,
			SourceLabel:        src.Label,
			Target:             s.Target,
			TargetLabel:        dst.Label,
			TargetResponseTime: dst.ResponseTime,
		})
	}
	return d, nil
}

// responseTime reads responseTime, falling back to RenderingTime when the
// primary attribute is absent.
func responseTime(c cell, opts Options) (float64, error) {
	o, name := c.ResponseTime, attrResponseTime
	if !o.present() {
		o, name = c.RenderingTime, attrRenderingTime
	}
	v, err := parseFloatOrDefault(o)
	if err != nil && opts.Strict {
		return 0, &AttributeError{ElementID: c.ID, Attribute: name, Value: o.Value, Err: err}
	}
	return v, nil
}
