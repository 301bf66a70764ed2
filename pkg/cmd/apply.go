package cmd

import (
	"context"
	"fmt"

	"github.com/schemaport/schemaport/pkg/executor"
	"github.com/urfave/cli/v3"
)

func apply() *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Plan and execute the migration against the target database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "comparison mode: strict or lenient (overrides the config default)",
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
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "walk the steps and report what would run without executing any SQL",
			},
			&cli.BoolFlag{
				Name:  "validate-only",
				Usage: "evaluate validation conditions only, executing no migration SQL",
			},
			&cli.BoolFlag{
				Name:  "stop-on-error",
				Usage: "halt on the first failed step (overrides the config default)",
			},
		},
		Action: runApply,
	}
}

func runApply(ctx context.Context, cmd *cli.Command) error {
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
	fmt.Println()

	opts := executor.Options{
		DryRun:       cmd.Bool("dry-run"),
		ValidateOnly: cmd.Bool("validate-only"),
		StopOnError:  sess.cfg.Execution.StopOnError,
	}
	if cmd.IsSet("stop-on-error") {
		opts.StopOnError = cmd.Bool("stop-on-error")
	}

	result, err := executor.New(sess.target, sess.log).Execute(ctx, script, opts)
	if err != nil {
		return err
	}

	return reportExecution(result)
}
