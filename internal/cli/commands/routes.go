package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/routefold/internal/report"
	"github.com/leapstack-labs/routefold/internal/routes"
)

// RoutesOptions holds options for the routes command.
type RoutesOptions struct {
	Check bool // Validate and print without writing
}

// NewRoutesCommand creates the routes command.
func NewRoutesCommand() *cobra.Command {
	opts := &RoutesOptions{}
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Convert a route manifest to Routes.json",
		Long: `Load a route manifest (TOML, YAML or JSON), check that every route is
named and sibling names are unique, and write it as indented JSON.

The flattened route tree is printed after conversion.`,
		Example: `  # Convert Routes.toml to Routes.json
  routefold routes

  # Explicit paths
  routefold routes --in app/Routes.yaml --out public/Routes.json

  # Only validate
  routefold routes --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoutes(cmd, opts)
		},
	}

	cmd.Flags().String("in", "", "Route manifest to read (default: Routes.toml)")
	cmd.Flags().String("out", "", "JSON file to write (default: Routes.json)")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Validate the manifest without writing")

	return cmd
}

func runRoutes(cmd *cobra.Command, opts *RoutesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	in, out := cmdCtx.Cfg.Routes.In, cmdCtx.Cfg.Routes.Out

	var m *routes.Manifest
	if opts.Check {
		m, err = routes.Load(in)
		if err == nil {
			err = m.Validate()
		}
	} else {
		m, err = routes.Convert(in, out)
	}
	if err != nil {
		return err
	}

	if opts.Check {
		cmdCtx.Logger.Info("route manifest is valid", "path", in)
	} else {
		cmdCtx.Logger.Info("wrote route manifest", "in", in, "out", out)
	}
	return report.Routes(cmd.OutOrStdout(), m, cmdCtx.Format)
}
