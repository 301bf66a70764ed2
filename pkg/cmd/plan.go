package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/consts"
	"github.com/schemaport/schemaport/pkg/planner"
	"github.com/urfave/cli/v3"
)

func plan() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Generate an ordered migration script from the schema differences",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "comparison mode: strict or lenient (overrides the config default)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the migration SQL to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "rollback-out",
				Usage: "write the rollback SQL to this file",
			},
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "include a rollback plan (overrides the config default)",
			},
			&cli.BoolFlag{
				Name:  "validation",
				Usage: "include pre/post validation conditions (overrides the config default)",
			},
			&cli.StringFlag{
				Name:  "justification",
				Usage: "business justification recorded in the script",
			},
		},
		Action: runPlan,
	}
}

func runPlan(ctx context.Context, cmd *cli.Command) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	script, err := generateScript(ctx, sess, cmd)
	if err != nil {
		return err
	}

	reportPlan(script)

	if len(script.Steps) == 0 {
		return nil
	}

	migrationSQL := renderMigrationSQL(script)
	if out := cmd.String("out"); out != "" {
		if err := os.WriteFile(out, []byte(migrationSQL), consts.ModeFile); err != nil {
			return errors.Wrapf(err, "failed to write migration file: %s", out)
		}
		fmt.Printf("\nMigration SQL written to %s\n", out)
	} else {
		fmt.Printf("\n%s", migrationSQL)
	}

	if script.Rollback != nil {
		if out := cmd.String("rollback-out"); out != "" {
			if err := os.WriteFile(out, []byte(renderRollbackSQL(script.Rollback)), consts.ModeFile); err != nil {
				return errors.Wrapf(err, "failed to write rollback file: %s", out)
			}
			fmt.Printf("Rollback SQL written to %s\n", out)
		}
	}

	return nil
}

// generateScript runs the shared pipeline behind plan and apply: snapshot
// both databases, diff them, and assemble the migration script with the
// target side acting as the planning catalog.
func generateScript(ctx context.Context, sess *session, cmd *cli.Command) (*planner.Script, error) {
	source, target, err := sess.snapshots(ctx)
	if err != nil {
		return nil, err
	}

	differences, err := diffSnapshots(source, target, sess.diffOptions(cmd))
	if err != nil {
		return nil, err
	}

	opts := planner.GenerateOptions{
		IncludeRollback:       sess.cfg.Plan.IncludeRollback,
		IncludeValidation:     sess.cfg.Plan.IncludeValidation,
		BusinessJustification: cmd.String("justification"),
	}
	if cmd.IsSet("rollback") {
		opts.IncludeRollback = cmd.Bool("rollback")
	}
	if cmd.IsSet("validation") {
		opts.IncludeValidation = cmd.Bool("validation")
	}

	return planner.New(sess.target, sess.log).Generate(ctx, source, target, differences, opts)
}
