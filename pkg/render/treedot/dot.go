package treedot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/cluster"
)

// Tree is one linkage tree to draw.
type Tree struct {
	// Name titles the subgraph.
	Name string
	// Linkage is an (n-1)×4 linkage matrix. A nil linkage draws a single
	// leaf.
	Linkage *mat.Dense
	// Labels name the leaves. Missing labels fall back to the leaf index.
	Labels []string
}

// Options configures diagram generation.
type Options struct {
	// Heights adds merge heights to internal node labels.
	Heights bool
	// LeftToRight lays trees out with the root on the left.
	LeftToRight bool
}

// leafCount returns the number of leaves of t.
func (t Tree) leafCount() int {
	if t.Linkage == nil {
		return 1
	}
	r, _ := t.Linkage.Dims()
	return r + 1
}

func (t Tree) label(i int) string {
	if i < len(t.Labels) {
		return t.Labels[i]
	}
	return strconv.Itoa(i)
}

// Validate checks every linkage.
func Validate(trees []Tree) error {
	for _, t := range trees {
		if t.Linkage == nil {
			continue
		}
		if err := cluster.ValidateLinkage(t.Linkage, t.leafCount()); err != nil {
			return fmt.Errorf("tree %q: %w", t.Name, err)
		}
	}
	return nil
}

// ToDOT converts trees to Graphviz DOT source. Each tree becomes a cluster
// subgraph with node ids prefixed by the tree index.
func ToDOT(trees []Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph linkage {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for ti, t := range trees {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", ti)
		if t.Name != "" {
			fmt.Fprintf(&buf, "    label=%q;\n", t.Name)
		}
		writeTree(&buf, ti, t, opts)
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeTree(buf *bytes.Buffer, ti int, t Tree, opts Options) {
	n := t.leafCount()
	id := func(node int) string { return fmt.Sprintf("t%d_%d", ti, node) }

	for i := 0; i < n; i++ {
		fmt.Fprintf(buf, "    %s [shape=box, style=rounded, fontsize=10, label=%q];\n", id(i), t.label(i))
	}
	if t.Linkage == nil {
		return
	}
	for k := 0; k < n-1; k++ {
		node := n + k
		if opts.Heights {
			fmt.Fprintf(buf, "    %s [shape=plaintext, fontsize=8, label=%q];\n",
				id(node), strconv.FormatFloat(t.Linkage.At(k, 2), 'g', 4, 64))
		} else {
			fmt.Fprintf(buf, "    %s;\n", id(node))
		}
		for _, child := range []int{int(t.Linkage.At(k, 0)), int(t.Linkage.At(k, 1))} {
			fmt.Fprintf(buf, "    %s -> %s;\n", id(node), id(child))
		}
	}
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which carries pt
// units and a transform offset, with a plain pixel viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
