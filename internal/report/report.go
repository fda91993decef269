package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/archmetrics/internal/aggregate"
	"github.com/MalithGihan/archmetrics/pkg/types"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat maps a user supplied name to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "table", "text":
		return FormatTable, nil
	}
	return "", errors.Errorf("unknown format %q", s)
}

// Report is the result of analyzing one diagram.
type Report struct {
	ID                string              `json:"id" yaml:"id"`
	Name              string              `json:"name,omitempty" yaml:"name,omitempty"`
	GeneratedAt       time.Time           `json:"generatedAt" yaml:"generatedAt"`
	Nodes             []types.Node        `json:"nodes" yaml:"nodes"`
	Edges             []types.Edge        `json:"edges" yaml:"edges"`
	Flows             []types.FlowSummary `json:"flows" yaml:"flows"`
	TotalResponseTime float64             `json:"totalResponseTime" yaml:"totalResponseTime"`
	Categories        []string            `json:"categories" yaml:"categories"`
	Notes             []string            `json:"notes" yaml:"notes"`
}

// Build aggregates d into a Report. name is informational (usually the
// uploaded file name).
func Build(name string, d types.Diagram) Report {
	r := Report{
		ID:          uuid.NewString(),
		Name:        name,
		GeneratedAt: time.Now().UTC(),
		Nodes:       make([]types.Node, 0, len(d.NodeOrder)),
		Edges:       d.Edges,
		Flows:       aggregate.Summarize(d.Flows),
		Notes:       d.Notes,
	}
	if r.Edges == nil {
		r.Edges = []types.Edge{}
	}
	if r.Notes == nil {
		r.Notes = []string{}
	}

	categories := mapset.NewSet[string]()
	for _, id := range d.NodeOrder {
		n := d.Nodes[id]
		r.Nodes = append(r.Nodes, n)
		if n.Category != "" {
			categories.Add(n.Category)
		}
	}
	r.Categories = categories.ToSlice()
	sort.Strings(r.Categories)
	for _, s := range r.Flows {
		if s.Saturated {
			r.Notes = append(r.Notes, fmt.Sprintf("flow %s: response time sum overflowed and was clamped", s.FlowID))
		}
	}
	var saturated bool
	r.TotalResponseTime, saturated = aggregate.Total(r.Flows)
	if saturated {
		r.Notes = append(r.Notes, "total response time overflowed and was clamped")
	}
	return r
}

// Encode writes r to w in the given format.
func (r Report) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(r), "encode json report")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "encode yaml report")
		}
		return errors.Wrap(enc.Close(), "encode yaml report")
	case FormatTable:
		return r.writeTable(w)
	}
	return errors.Errorf("unknown format %q", f)
}

func (r Report) writeTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Flow ID\tSource\tTarget\tTotal Response Time (ms)")
	for _, s := range r.Flows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.FlowID, dash(s.Source), dash(s.Target), FormatMillis(s.TotalResponseTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%d flows, %d nodes, %d edges\n", len(r.Flows), len(r.Nodes), len(r.Edges)); err != nil {
		return err
	}
	for _, n := range r.Notes {
		if _, err := fmt.Fprintf(w, "note: %s\n", n); err != nil {
			return err
		}
	}
	return nil
}

// FormatMillis renders a response time without trailing zeros.
func FormatMillis(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
