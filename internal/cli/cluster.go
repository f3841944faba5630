package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crossboard/pkg/deform"
	"github.com/matzehuels/crossboard/pkg/pipeline"
	"github.com/matzehuels/crossboard/pkg/render/treedot"
)

// clusterCommand creates the cluster command for exporting linkage trees.
func (c *CLI) clusterCommand() *cobra.Command {
	var (
		axis    string
		dotPath string
		noCache bool
		dotOpts treedot.Options
	)

	cmd := &cobra.Command{
		Use:   "cluster [board.toml]",
		Short: "Export the linkage trees of a clustered axis",
		Long: `Export the linkage trees of a clustered axis.

Every board with a dendrogram on the axis contributes its trees: one tree for
an unsplit axis, or one tree per chunk plus the tree over chunks for a split
axis. Without --dot the trees are written to stdout in DOT format. A --dot
path ending in .svg is laid out with Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAxis(axis)
			if err != nil {
				return err
			}
			return c.runCluster(cmd, args[0], a, dotPath, dotOpts, noCache)
		},
	}

	cmd.Flags().StringVar(&axis, "axis", "row", "axis to export: row or col")
	cmd.Flags().StringVar(&dotPath, "dot", "", "output file (.dot or .svg)")
	cmd.Flags().BoolVar(&dotOpts.Heights, "heights", false, "label merges with their heights")
	cmd.Flags().BoolVar(&dotOpts.LeftToRight, "lr", false, "draw trees left to right")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseAxis accepts row/rows and col/cols/column/columns.
func parseAxis(s string) (deform.Axis, error) {
	switch strings.ToLower(s) {
	case "row", "rows":
		return deform.Rows, nil
	case "col", "cols", "column", "columns":
		return deform.Cols, nil
	}
	return 0, fmt.Errorf("invalid axis: %q (must be row or col)", s)
}

func (c *CLI) runCluster(cmd *cobra.Command, input string, axis deform.Axis, dotPath string, dotOpts treedot.Options, noCache bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	trees, err := runner.Trees(ctx, doc, axis, pipeline.Options{Logger: c.Logger})
	if err != nil {
		return fmt.Errorf("cluster %s: %w", input, err)
	}
	if err := treedot.Validate(trees); err != nil {
		return err
	}
	dot := treedot.ToDOT(trees, dotOpts)

	if dotPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), dot)
		return nil
	}

	data, err := encodeTrees(ctx, dot, dotPath)
	if err != nil {
		return err
	}
	if err := writeOutput(dotPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", dotPath, err)
	}

	printSuccess("Exported %d %s trees", len(trees), axis)
	for _, t := range trees {
		printKeyValue(t.Name, StyleNumber.Render(fmt.Sprintf("%d leaves", leafCount(t))))
	}
	printFile(dotPath)
	return nil
}

// encodeTrees returns DOT text or, for an .svg path, the Graphviz drawing.
func encodeTrees(ctx context.Context, dot, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return treedot.RenderSVG(ctx, dot)
	case ".dot", ".gv":
		return []byte(dot), nil
	}
	printWarning("Unknown extension %q, writing DOT", filepath.Ext(path))
	return []byte(dot), nil
}

func leafCount(t treedot.Tree) int {
	if t.Linkage == nil {
		return 1
	}
	r, _ := t.Linkage.Dims()
	return r + 1
}
