package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crossboard/pkg/pipeline"
)

// layoutCommand creates the layout command for exporting panel geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		scale   float64
	)

	cmd := &cobra.Command{
		Use:   "layout [board.toml]",
		Short: "Export the panel geometry of a board document as JSON",
		Long: `Export the panel geometry of a board document as JSON.

The layout command freezes the figure without drawing and writes every placed
region (layout, panel, chunk index and rectangle in inches) to a JSON file,
the same snapshot 'render -f json' produces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, scale, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "scale factor for the figure size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the document, freezes it and writes the snapshot.
func (c *CLI) runLayout(ctx context.Context, input, output string, scale float64, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	res, err := runner.Execute(ctx, doc, pipeline.Options{
		Format: pipeline.FormatJSON,
		Scale:  scale,
		Logger: c.Logger,
	})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if output == "" {
		output = basePath(input) + ".layout.json"
	}
	if err := writeOutput(output, res.Output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(res)
	printNextStep("Render", appName+" render "+input)
	return nil
}
