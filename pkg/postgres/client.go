package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	// Registers the postgres driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/consts"
	"github.com/schemaport/schemaport/pkg/executor"
	"github.com/sirupsen/logrus"
)

// Client is a PostgreSQL database connection serving snapshot capture,
// catalog lookups, and statement execution.
type Client struct {
	db           *sql.DB
	databaseName string
	log          logrus.FieldLogger
}

// NewClient opens a connection for the given DSN and verifies it with a
// ping.
//
// Example:
//
//	client, err := postgres.NewClient("postgres://app@localhost/app?sslmode=disable", log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	snapshot, err := client.Snapshot(ctx)
func NewClient(dsn string, log logrus.FieldLogger) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening connection")
	}
	if err := db.PingContext(context.Background()); err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}

	c := &Client{db: db, log: log}
	if err := c.db.QueryRowContext(context.Background(), "SELECT current_database()").Scan(&c.databaseName); err != nil {
		return nil, errors.Wrap(err, "resolving database name")
	}

	return c, nil
}

// NewClientWithDB wraps an existing connection. Used by tests and callers
// that manage pooling themselves.
func NewClientWithDB(db *sql.DB, databaseName string, log logrus.FieldLogger) *Client {
	return &Client{db: db, databaseName: databaseName, log: log}
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// DatabaseName returns the connected database's name.
func (c *Client) DatabaseName() string {
	return c.databaseName
}

// Execute runs one SQL statement and returns its rows, row count, and
// elapsed time. Row-returning statements are queried and fully drained;
// everything else is executed for its side effect.
func (c *Client) Execute(ctx context.Context, statement string) (*executor.QueryResult, error) {
	start := time.Now()

	if returnsRows(statement) {
		rows, err := c.db.QueryContext(ctx, statement)
		if err != nil {
			return nil, errors.Wrap(err, "executing query")
		}
		defer rows.Close()

		scanned, err := scanRows(rows)
		if err != nil {
			return nil, err
		}
		return &executor.QueryResult{
			RowCount: int64(len(scanned)),
			Rows:     scanned,
			Duration: time.Since(start),
		}, nil
	}

	res, err := c.db.ExecContext(ctx, statement)
	if err != nil {
		return nil, errors.Wrap(err, "executing statement")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// DDL statements report no affected-row count.
		affected = 0
	}
	return &executor.QueryResult{RowCount: affected, Duration: time.Since(start)}, nil
}

// returnsRows reports whether the statement is expected to produce a result
// set.
func returnsRows(statement string) bool {
	head := strings.ToUpper(strings.TrimSpace(statement))
	for _, prefix := range []string{"SELECT", "WITH", "SHOW", "VALUES", "TABLE", "EXPLAIN"} {
		if strings.HasPrefix(head, prefix+" ") || head == prefix {
			return true
		}
	}
	return false
}

// scanRows drains a result set into string cells, with NULLs rendered empty.
func scanRows(rows *sql.Rows) ([][]string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "reading columns")
	}

	var scanned [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		targets := make([]any, len(columns))
		for i := range cells {
			targets[i] = &cells[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}

		row := make([]string, len(columns))
		for i := range cells {
			row[i] = cells[i].String
		}
		scanned = append(scanned, row)
	}

	return scanned, errors.Wrap(rows.Err(), "iterating rows")
}

// isSystemSchema reports whether a schema is owned by the server rather than
// the application.
func isSystemSchema(name string) bool {
	for _, system := range consts.SystemSchemas {
		if name == system {
			return true
		}
	}
	return strings.HasPrefix(name, "pg_temp") || strings.HasPrefix(name, "pg_toast_temp")
}
