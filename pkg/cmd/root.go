package cmd

import (
	"context"

	"github.com/schemaport/schemaport/pkg/consts"
	"github.com/urfave/cli/v3"
)

// Run creates and executes the main schemaport CLI application with the
// given version and command-line arguments.
//
// Global flags:
//   - --config, -c: the schemaport config file (default schemaport.yaml)
//   - --verbose: debug logging
//
// Example usage:
//
//	err := cmd.Run(ctx, "v1.0.0", os.Args)
func Run(ctx context.Context, version string, args []string) error {
	app := &cli.Command{
		Name:  "schemaport",
		Usage: "Plan and execute schema migrations between PostgreSQL databases",
		Description: `schemaport compares the schemas of a source and a target PostgreSQL
database, plans an ordered migration script with risk classification and
rollback, and executes it step by step with pre/post validation.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the schemaport config file",
				Sources: cli.EnvVars("SCHEMAPORT_CONFIG"),
				Value:   consts.DefaultConfigFile,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			diff(),
			plan(),
			apply(),
			fingerprint(),
		},
	}

	return app.Run(ctx, args)
}
