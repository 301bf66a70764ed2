package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/schemaport/schemaport/pkg/schemadiff"
	"github.com/urfave/cli/v3"
)

func diff() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Compare the source and target schemas and report differences",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "comparison mode: strict or lenient (overrides the config default)",
			},
		},
		Action: runDiff,
	}
}

func runDiff(ctx context.Context, cmd *cli.Command) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	source, target, err := sess.snapshots(ctx)
	if err != nil {
		return err
	}

	differences, err := diffSnapshots(source, target, sess.diffOptions(cmd))
	if err != nil {
		return err
	}

	sourceName := connectionName(sess.cfg.Source, sess.source)
	targetName := connectionName(sess.cfg.Target, sess.target)
	fmt.Printf("Comparing %s (source) with %s (target)\n\n", sourceName, targetName)

	if len(differences) == 0 {
		fmt.Println("Schemas are identical.")
		return nil
	}

	counts := map[schemadiff.DiffKind]int{}
	for _, d := range differences {
		counts[d.Kind]++
		fmt.Println(formatDifference(d))
	}

	fmt.Printf("\nSummary: %d to add, %d to remove, %d to modify\n",
		counts[schemadiff.KindAdded], counts[schemadiff.KindRemoved], counts[schemadiff.KindModified])
	return nil
}

// formatDifference renders one difference as a single report line, e.g.
//
//	~ table public.users (definition changed)
func formatDifference(d schemadiff.SchemaDifference) string {
	marker := map[schemadiff.DiffKind]string{
		schemadiff.KindAdded:    "+",
		schemadiff.KindRemoved:  "-",
		schemadiff.KindModified: "~",
	}[d.Kind]

	line := fmt.Sprintf("%s %s %s.%s", marker, d.ObjectType, d.Schema, d.ObjectName)
	if len(d.Detail) > 0 {
		line += fmt.Sprintf(" (%s)", strings.Join(d.Detail, ", "))
	}
	return line
}
