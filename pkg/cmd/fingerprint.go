package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/postgres"
	"github.com/urfave/cli/v3"
)

func fingerprint() *cli.Command {
	return &cli.Command{
		Name:      "fingerprint",
		Usage:     "Print the schema fingerprint of one configured database",
		ArgsUsage: "[source|target]",
		Action:    runFingerprint,
	}
}

func runFingerprint(ctx context.Context, cmd *cli.Command) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	side := cmd.Args().First()
	if side == "" {
		side = "target"
	}

	var client *postgres.Client
	switch side {
	case "source":
		client = sess.source
	case "target":
		client = sess.target
	default:
		return errors.Errorf("unknown database %q, expected source or target", side)
	}

	snapshot, err := client.Snapshot(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to snapshot %s database", side)
	}

	fmt.Printf("%s  %s (%d objects)\n", snapshot.Fingerprint(), snapshot.DatabaseName, len(snapshot.Objects))
	return nil
}
