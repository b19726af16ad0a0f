package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/routefold/internal/report"
)

// ClassifyOptions holds options for the classify command.
type ClassifyOptions struct {
	Stdout bool // Print rewritten source instead of writing files
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	opts := &ClassifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify <file|dir>...",
		Short: "Rewrite route modules and report export buckets",
		Long: `Rewrite the exported variables of route modules and report which bucket
each one was routed to.

Each input is written next to itself (or into --out-dir) with the suffix
inserted before the extension: page.ts becomes page_edit.ts. Directories
are searched for .ts, .mts, .cts, .js, .mjs and .cjs files.

Output adapts to environment:
  - Terminal: Table per file
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Rewrite one module
  routefold classify src/routes/page.ts

  # Rewrite every module under a directory, emitting JavaScript
  routefold classify src/routes --emit js --out-dir build

  # Print the rewritten source
  routefold classify page.ts --stdout

  # Report as JSON and continue past malformed modules
  routefold classify src/routes -f json --keep-going`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print rewritten source to stdout instead of writing files")
	cmd.Flags().StringP("format", "f", "", "Report format: auto, text, markdown, json")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string, opts *ClassifyOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	p, err := cmdCtx.NewPipeline()
	if err != nil {
		return err
	}

	files, err := p.Collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no route modules found in %v", args)
	}
	cmdCtx.Logger.Debug("classifying", "files", len(files))

	results, err := p.ProcessFiles(cmd.Context(), files)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if opts.Stdout {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), res.Output)
			continue
		}
		if err := p.WriteOutput(res); err != nil {
			return err
		}
	}

	if !opts.Stdout {
		if err := report.Files(cmd.OutOrStdout(), results, cmdCtx.Format); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

