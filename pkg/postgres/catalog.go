package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/utils"
)

// TableColumns returns the table's columns in ordinal position order.
func (c *Client) TableColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, column_default, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schemaName, tableName)
	if err != nil {
		return nil, errors.Wrapf(err, "listing columns for %s.%s", schemaName, tableName)
	}
	defer rows.Close()

	var columns []schema.ColumnInfo
	for rows.Next() {
		var (
			col        schema.ColumnInfo
			isNullable string
			colDefault sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.DataType, &isNullable, &colDefault, &col.Position); err != nil {
			return nil, errors.Wrap(err, "scanning column")
		}
		col.IsNullable = strings.EqualFold(isNullable, "YES")
		if colDefault.Valid {
			col.Default = utils.Ptr(colDefault.String)
		}
		columns = append(columns, col)
	}

	return columns, errors.Wrap(rows.Err(), "iterating columns")
}

// IndexDefinition returns the full CREATE INDEX statement for the index, or
// an empty string when the index is unknown.
func (c *Client) IndexDefinition(ctx context.Context, schemaName, indexName string) (string, error) {
	var definition string
	err := c.db.QueryRowContext(ctx,
		"SELECT indexdef FROM pg_indexes WHERE schemaname = $1 AND indexname = $2",
		schemaName, indexName).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading definition for index %s.%s", schemaName, indexName)
	}
	return definition, nil
}

// ViewDefinition returns the view's SELECT body, or an empty string when the
// view is unknown.
func (c *Client) ViewDefinition(ctx context.Context, schemaName, viewName string) (string, error) {
	var definition string
	err := c.db.QueryRowContext(ctx,
		"SELECT definition FROM pg_views WHERE schemaname = $1 AND viewname = $2",
		schemaName, viewName).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading definition for view %s.%s", schemaName, viewName)
	}
	return strings.TrimSpace(definition), nil
}

// FunctionDefinition returns the full CREATE FUNCTION statement for the
// function, or an empty string when the function is unknown. Overloads are
// not distinguished; the first match wins.
func (c *Client) FunctionDefinition(ctx context.Context, schemaName, functionName string) (string, error) {
	var definition sql.NullString
	err := c.db.QueryRowContext(ctx, `
		SELECT pg_get_functiondef(p.oid)
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		WHERE n.nspname = $1 AND p.proname = $2
		LIMIT 1`, schemaName, functionName).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading definition for function %s.%s", schemaName, functionName)
	}
	return strings.TrimSpace(definition.String), nil
}
