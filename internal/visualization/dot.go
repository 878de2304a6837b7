// Package visualization renders inertia graphs in various output formats.
package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/alignleap/internal/graph"
)

// Format specifies the output format for graph rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: dot, json)", s)
	}
}

// Options controls which edges are rendered.
type Options struct {
	// MinKappa hides edges whose inertia is not strictly above it.
	MinKappa float64

	// Rank, when it has one entry per node, is attached to each node.
	Rank []float64
}

// Edge is one rendered directed edge.
type Edge struct {
	Source int
	Target int
	Kappa  float64
	W      float64
}

// Edges returns the edges of snap above opts.MinKappa in row-major order,
// self-loops included.
func Edges(snap graph.Snapshot, opts Options) []Edge {
	var edges []Edge
	for i := 0; i < snap.N; i++ {
		for j := 0; j < snap.N; j++ {
			k := snap.KappaAt(i, j)
			if k <= opts.MinKappa {
				continue
			}
			edges = append(edges, Edge{Source: i, Target: j, Kappa: k, W: snap.WAt(i, j)})
		}
	}
	return edges
}

// nodeID names node i in rendered output.
func nodeID(i int) string {
	return fmt.Sprintf("n%d", i)
}

// RenderDOT produces a Graphviz DOT representation of the inertia graph.
// The agent's current node is highlighted and edge pen width scales with
// kappa relative to the strongest rendered edge.
func RenderDOT(snap graph.Snapshot, opts Options) string {
	edges := Edges(snap, opts)

	var maxKappa float64
	for _, e := range edges {
		maxKappa = max(maxKappa, e.Kappa)
	}

	var b strings.Builder
	b.WriteString("digraph alignleap {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	for i := 0; i < snap.N; i++ {
		color := "lightgray"
		if i == snap.Current {
			color = "tomato"
		}
		if len(opts.Rank) == snap.N {
			fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q, tooltip=\"rank=%.3f\"];\n", nodeID(i), fmt.Sprint(i), color, opts.Rank[i])
			continue
		}
		fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q];\n", nodeID(i), fmt.Sprint(i), color)
	}
	b.WriteString("\n")

	for _, e := range edges {
		width := 1.0
		if maxKappa > 0 {
			width = 0.5 + 2.5*e.Kappa/maxKappa
		}
		fmt.Fprintf(&b, "  %q -> %q [label=\"%.3f\", penwidth=%.2f, tooltip=\"kappa=%.6f w=%.4f\"];\n",
			nodeID(e.Source), nodeID(e.Target), e.Kappa, width, e.Kappa, e.W)
	}

	b.WriteString("}\n")
	return b.String()
}

// RenderJSON produces a JSON graph representation with nodes and edges arrays.
func RenderJSON(snap graph.Snapshot, opts Options) map[string]interface{} {
	jsonNodes := make([]map[string]interface{}, 0, snap.N)
	for i := 0; i < snap.N; i++ {
		entry := map[string]interface{}{
			"id":      nodeID(i),
			"index":   i,
			"current": i == snap.Current,
		}
		if i < len(snap.Policy) {
			entry["policy"] = snap.Policy[i]
		}
		if len(opts.Rank) == snap.N {
			entry["rank"] = opts.Rank[i]
		}
		jsonNodes = append(jsonNodes, entry)
	}

	edges := Edges(snap, opts)
	jsonEdges := make([]map[string]interface{}, 0, len(edges))
	for _, e := range edges {
		jsonEdges = append(jsonEdges, map[string]interface{}{
			"source": nodeID(e.Source),
			"target": nodeID(e.Target),
			"kappa":  e.Kappa,
			"w":      e.W,
		})
	}

	return map[string]interface{}{
		"nodes":      jsonNodes,
		"edges":      jsonEdges,
		"node_count": len(jsonNodes),
		"edge_count": len(jsonEdges),
		"current":    snap.Current,
		"heat":       snap.Heat,
	}
}
