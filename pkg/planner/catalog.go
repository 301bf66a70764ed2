package planner

import (
	"context"

	"github.com/schemaport/schemaport/pkg/schema"
)

// Catalog is the detail-lookup surface of the schema snapshot provider, used
// only during CREATE-SQL synthesis. Implementations query the target
// database's system catalogs for the live definition of one object.
type Catalog interface {
	// TableColumns returns the table's columns in ordinal position order.
	TableColumns(ctx context.Context, schemaName, tableName string) ([]schema.ColumnInfo, error)

	// IndexDefinition returns the full CREATE INDEX statement for the index,
	// or an empty string when the index is unknown.
	IndexDefinition(ctx context.Context, schemaName, indexName string) (string, error)

	// ViewDefinition returns the view's SELECT body, or an empty string when
	// the view is unknown.
	ViewDefinition(ctx context.Context, schemaName, viewName string) (string, error)

	// FunctionDefinition returns the full CREATE FUNCTION statement for the
	// function, or an empty string when the function is unknown.
	FunctionDefinition(ctx context.Context, schemaName, functionName string) (string, error)
}
