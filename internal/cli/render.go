package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crossboard/pkg/pipeline"
)

// renderCommand creates the render command for drawing a board document.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [board.toml]",
		Short: "Render a board document to SVG, PNG or PDF",
		Long: `Render a board document to SVG, PNG or PDF.

The document is a TOML or JSON file describing one or more boards: the data
matrix, how rows and columns are split and clustered, and the panels and
dendrograms around it. The format follows the output extension unless -f is
given. PNG and PDF need rsvg-convert (librsvg).

Linkages and rendered figures are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: svg (default), png, pdf, json")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "scale factor for the figure size")
	cmd.Flags().Float64Var(&opts.DPI, "dpi", pipeline.DefaultDPI, "pixels per inch")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "outline and label every panel region")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached linkages and renders")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the document, renders it, and writes the output file.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if opts.Format == "" {
		opts.Format = formatFromPath(output)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	doc, err := runner.Load(ctx, input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	opts.Logger = c.Logger
	res, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}
	prog.done("Rendered " + strings.Join(res.Boards, ", "))

	if output == "" {
		output = basePath(input) + "." + res.Format
	}
	if err := writeOutput(output, res.Output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Render complete")
	printFile(output)
	printStats(res)
	return nil
}
