package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/config"
	"github.com/schemaport/schemaport/pkg/postgres"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/schemadiff"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// session bundles the per-invocation services shared by the commands: the
// loaded configuration, a logger, and clients for both databases.
type session struct {
	cfg    *config.Config
	log    logrus.FieldLogger
	source *postgres.Client
	target *postgres.Client
}

func newSession(cmd *cli.Command) (*session, error) {
	cfg, err := config.LoadConfigFile(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	log := newLogger(cmd)

	source, err := postgres.NewClient(cfg.Source.DSN, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to source database")
	}

	target, err := postgres.NewClient(cfg.Target.DSN, log)
	if err != nil {
		_ = source.Close()
		return nil, errors.Wrap(err, "failed to connect to target database")
	}

	return &session{cfg: cfg, log: log, source: source, target: target}, nil
}

func (s *session) Close() {
	_ = s.source.Close()
	_ = s.target.Close()
}

// snapshots captures both databases. Source first, matching the direction of
// the migration.
func (s *session) snapshots(ctx context.Context) (source, target *schema.Snapshot, err error) {
	source, err = s.source.Snapshot(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to snapshot source database")
	}

	target, err = s.target.Snapshot(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to snapshot target database")
	}

	return source, target, nil
}

// diffSnapshots compares the object sets captured in two snapshots.
func diffSnapshots(source, target *schema.Snapshot, opts schemadiff.Options) ([]schemadiff.SchemaDifference, error) {
	return schemadiff.Diff(source.Objects, target.Objects, opts)
}

// diffOptions starts from the configured defaults and applies command-line
// overrides.
func (s *session) diffOptions(cmd *cli.Command) schemadiff.Options {
	opts := s.cfg.DiffOptions()
	if cmd.IsSet("mode") {
		opts.Mode = schemadiff.Mode(cmd.String("mode"))
	}
	return opts
}

// connectionName prefers the configured label and falls back to the resolved
// database name.
func connectionName(conn config.Connection, client *postgres.Client) string {
	if conn.Name != "" {
		return conn.Name
	}
	return client.DatabaseName()
}

func newLogger(cmd *cli.Command) logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if cmd.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
