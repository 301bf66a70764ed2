package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/schemadiff"
	"github.com/schemaport/schemaport/pkg/utils"
)

// sqlStrategy generates SQL for one object type. One implementation exists
// per supported type plus a documented default; the synthesizer dispatches on
// the difference's object type so unsupported types degrade to placeholders
// instead of failing script generation.
type sqlStrategy interface {
	// createSQL synthesizes a CREATE statement from the target's live
	// catalogs.
	createSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error)

	// alterSQL synthesizes the statement bringing an existing object to its
	// target shape.
	alterSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error)

	// dropSQL builds the drop statement. It never fails.
	dropSQL(d *schemadiff.SchemaDifference) string

	// restoreSQL rebuilds the object from a previously captured definition,
	// used by rollback generation.
	restoreSQL(d *schemadiff.SchemaDifference, definition string) (string, error)

	// existenceQuery returns a count query for the object, or ok=false when
	// the type has no catalog presence check.
	existenceQuery(d *schemadiff.SchemaDifference) (query string, ok bool)
}

// newStrategies builds the per-type dispatch table.
func newStrategies() map[schema.ObjectType]sqlStrategy {
	return map[schema.ObjectType]sqlStrategy{
		schema.TypeSchema:   schemaStrategy{},
		schema.TypeTable:    tableStrategy{},
		schema.TypeColumn:   columnStrategy{},
		schema.TypeView:     viewStrategy{},
		schema.TypeIndex:    indexStrategy{},
		schema.TypeSequence: sequenceStrategy{},
		schema.TypeFunction: functionStrategy{},
	}
}

// fallbackStrategy is the documented default for object types without a
// dedicated generator: drops are generic, everything else requires manual
// completion.
type fallbackStrategy struct{}

func (fallbackStrategy) createSQL(_ context.Context, _ Catalog, d *schemadiff.SchemaDifference) (string, error) {
	return "", errors.Errorf("no CREATE generator for object type %q", d.ObjectType)
}

func (fallbackStrategy) alterSQL(_ context.Context, _ Catalog, d *schemadiff.SchemaDifference) (string, error) {
	return "", errors.Errorf("no ALTER generator for object type %q", d.ObjectType)
}

func (fallbackStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	return utils.NewSQLBuilder().
		Drop(strings.ToUpper(string(d.ObjectType))).
		IfExists().
		QualifiedName(d.Schema, d.ObjectName).
		Cascade().
		String()
}

func (fallbackStrategy) restoreSQL(d *schemadiff.SchemaDifference, definition string) (string, error) {
	if strings.TrimSpace(definition) == "" {
		return "", errors.Errorf("no captured definition for %s %s", d.ObjectType, d.ObjectName)
	}
	return ensureTerminated(definition), nil
}

func (fallbackStrategy) existenceQuery(*schemadiff.SchemaDifference) (string, bool) {
	return "", false
}

// ensureTerminated appends the statement terminator when the definition
// doesn't already carry one.
func ensureTerminated(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if strings.HasSuffix(trimmed, ";") {
		return trimmed
	}
	return trimmed + ";"
}

// columnParts splits a column difference's "table.column" object name.
func columnParts(d *schemadiff.SchemaDifference) (table, column string, err error) {
	parts := strings.SplitN(d.ObjectName, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("column object name %q is not in table.column form", d.ObjectName)
	}
	return parts[0], parts[1], nil
}

// columnClause renders one column definition clause from catalog info.
func columnClause(col *schema.ColumnInfo) string {
	clause := fmt.Sprintf("%s %s", utils.QuoteIdentifier(col.Name), col.DataType)
	if !col.IsNullable {
		clause += " NOT NULL"
	}
	if col.Default != nil {
		clause += " DEFAULT " + *col.Default
	}
	return clause
}
