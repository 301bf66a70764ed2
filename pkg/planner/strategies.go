package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/schemadiff"
	"github.com/schemaport/schemaport/pkg/utils"
)

type (
	schemaStrategy   struct{ fallbackStrategy }
	tableStrategy    struct{ fallbackStrategy }
	columnStrategy   struct{ fallbackStrategy }
	viewStrategy     struct{ fallbackStrategy }
	indexStrategy    struct{ fallbackStrategy }
	sequenceStrategy struct{ fallbackStrategy }
	functionStrategy struct{ fallbackStrategy }
)

func (schemaStrategy) createSQL(_ context.Context, _ Catalog, d *schemadiff.SchemaDifference) (string, error) {
	return utils.NewSQLBuilder().Create("SCHEMA").IfNotExists().Name(d.ObjectName).String(), nil
}

func (schemaStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	return utils.NewSQLBuilder().Drop("SCHEMA").IfExists().Name(d.ObjectName).Cascade().String()
}

func (s schemaStrategy) restoreSQL(d *schemadiff.SchemaDifference, _ string) (string, error) {
	return s.createSQL(context.Background(), nil, d)
}

func (schemaStrategy) existenceQuery(d *schemadiff.SchemaDifference) (string, bool) {
	return fmt.Sprintf(
		"SELECT count(*) FROM information_schema.schemata WHERE schema_name = %s",
		utils.QuoteLiteral(d.ObjectName)), true
}

func (tableStrategy) createSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	columns, err := catalog.TableColumns(ctx, d.Schema, d.ObjectName)
	if err != nil {
		return "", errors.Wrapf(err, "looking up columns for table %s", d.ObjectName)
	}
	if len(columns) == 0 {
		return "", errors.Errorf("table %s has no columns in the target catalogs", d.ObjectName)
	}

	clauses := make([]string, 0, len(columns))
	for i := range columns {
		clauses = append(clauses, "    "+columnClause(&columns[i]))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		utils.QuoteQualifiedName(d.Schema, d.ObjectName),
		strings.Join(clauses, ",\n")), nil
}

// alterSQL for whole tables stays manual: column-level differences carry the
// real ALTER statements, and table-level definition drift can't be decomposed
// into safe DDL from the definitions alone.
func (tableStrategy) alterSQL(_ context.Context, _ Catalog, d *schemadiff.SchemaDifference) (string, error) {
	return "", errors.Errorf("table %s changed at the definition level; apply the column-level steps or migrate manually", d.ObjectName)
}

func (tableStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	return utils.NewSQLBuilder().Drop("TABLE").IfExists().QualifiedName(d.Schema, d.ObjectName).Cascade().String()
}

func (tableStrategy) existenceQuery(d *schemadiff.SchemaDifference) (string, bool) {
	return fmt.Sprintf(
		"SELECT count(*) FROM information_schema.tables WHERE table_schema = %s AND table_name = %s",
		utils.QuoteLiteral(d.Schema), utils.QuoteLiteral(d.ObjectName)), true
}

func (columnStrategy) createSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	table, column, err := columnParts(d)
	if err != nil {
		return "", err
	}

	columns, err := catalog.TableColumns(ctx, d.Schema, table)
	if err != nil {
		return "", errors.Wrapf(err, "looking up columns for table %s", table)
	}
	for i := range columns {
		if columns[i].Name == column {
			return utils.NewSQLBuilder().
				Alter("TABLE").
				QualifiedName(d.Schema, table).
				Raw("ADD COLUMN").
				Raw(columnClause(&columns[i])).
				String(), nil
		}
	}

	return "", errors.Errorf("column %s not found on table %s in the target catalogs", column, table)
}

func (columnStrategy) alterSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	table, column, err := columnParts(d)
	if err != nil {
		return "", err
	}

	columns, err := catalog.TableColumns(ctx, d.Schema, table)
	if err != nil {
		return "", errors.Wrapf(err, "looking up columns for table %s", table)
	}
	for i := range columns {
		if columns[i].Name == column {
			return utils.NewSQLBuilder().
				Alter("TABLE").
				QualifiedName(d.Schema, table).
				Raw("ALTER COLUMN").
				Name(column).
				Raw("TYPE " + columns[i].DataType).
				String(), nil
		}
	}

	return "", errors.Errorf("column %s not found on table %s in the target catalogs", column, table)
}

func (columnStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	table, column, err := columnParts(d)
	if err != nil {
		// Malformed name; emit a generic drop the operator has to fix.
		return fallbackStrategy{}.dropSQL(d)
	}
	return utils.NewSQLBuilder().
		Alter("TABLE").
		QualifiedName(d.Schema, table).
		Raw("DROP COLUMN IF EXISTS").
		Name(column).
		Cascade().
		String()
}

// restoreSQL re-adds a dropped column from its captured descriptor, which is
// stored as "<data type> [NOT NULL] [DEFAULT ...]".
func (columnStrategy) restoreSQL(d *schemadiff.SchemaDifference, definition string) (string, error) {
	table, column, err := columnParts(d)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(definition) == "" {
		return "", errors.Errorf("no captured definition for column %s", d.ObjectName)
	}
	return utils.NewSQLBuilder().
		Alter("TABLE").
		QualifiedName(d.Schema, table).
		Raw("ADD COLUMN").
		Name(column).
		Raw(strings.TrimSpace(definition)).
		String(), nil
}

func (columnStrategy) existenceQuery(d *schemadiff.SchemaDifference) (string, bool) {
	table, column, err := columnParts(d)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT count(*) FROM information_schema.columns WHERE table_schema = %s AND table_name = %s AND column_name = %s",
		utils.QuoteLiteral(d.Schema), utils.QuoteLiteral(table), utils.QuoteLiteral(column)), true
}

func (viewStrategy) createSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	body, err := catalog.ViewDefinition(ctx, d.Schema, d.ObjectName)
	if err != nil {
		return "", errors.Wrapf(err, "looking up definition for view %s", d.ObjectName)
	}
	if strings.TrimSpace(body) == "" {
		return "", errors.Errorf("view %s has no definition in the target catalogs", d.ObjectName)
	}

	return utils.NewSQLBuilder().
		CreateOrReplace("VIEW").
		QualifiedName(d.Schema, d.ObjectName).
		As(strings.TrimSuffix(strings.TrimSpace(body), ";")).
		String(), nil
}

// A changed view is replaced wholesale; CREATE OR REPLACE covers both paths.
func (v viewStrategy) alterSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	return v.createSQL(ctx, catalog, d)
}

func (viewStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	return utils.NewSQLBuilder().Drop("VIEW").IfExists().QualifiedName(d.Schema, d.ObjectName).Cascade().String()
}

func (viewStrategy) restoreSQL(d *schemadiff.SchemaDifference, definition string) (string, error) {
	if strings.TrimSpace(definition) == "" {
		return "", errors.Errorf("no captured definition for view %s", d.ObjectName)
	}
	return utils.NewSQLBuilder().
		CreateOrReplace("VIEW").
		QualifiedName(d.Schema, d.ObjectName).
		As(strings.TrimSuffix(strings.TrimSpace(definition), ";")).
		String(), nil
}

func (viewStrategy) existenceQuery(d *schemadiff.SchemaDifference) (string, bool) {
	return fmt.Sprintf(
		"SELECT count(*) FROM information_schema.views WHERE table_schema = %s AND table_name = %s",
		utils.QuoteLiteral(d.Schema), utils.QuoteLiteral(d.ObjectName)), true
}

func (indexStrategy) createSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	statement, err := catalog.IndexDefinition(ctx, d.Schema, d.ObjectName)
	if err != nil {
		return "", errors.Wrapf(err, "looking up definition for index %s", d.ObjectName)
	}
	if strings.TrimSpace(statement) == "" {
		return "", errors.Errorf("index %s has no definition in the target catalogs", d.ObjectName)
	}
	return ensureTerminated(statement), nil
}

// An index can't be altered in place; drop and recreate from the target
// definition.
func (i indexStrategy) alterSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	create, err := i.createSQL(ctx, catalog, d)
	if err != nil {
		return "", err
	}
	return i.dropSQL(d) + "\n" + create, nil
}

func (indexStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	return utils.NewSQLBuilder().Drop("INDEX").IfExists().QualifiedName(d.Schema, d.ObjectName).Cascade().String()
}

func (indexStrategy) existenceQuery(d *schemadiff.SchemaDifference) (string, bool) {
	return fmt.Sprintf(
		"SELECT count(*) FROM pg_indexes WHERE schemaname = %s AND indexname = %s",
		utils.QuoteLiteral(d.Schema), utils.QuoteLiteral(d.ObjectName)), true
}

func (sequenceStrategy) createSQL(_ context.Context, _ Catalog, d *schemadiff.SchemaDifference) (string, error) {
	if d.TargetDefinition != nil && strings.TrimSpace(*d.TargetDefinition) != "" {
		return ensureTerminated(*d.TargetDefinition), nil
	}
	return utils.NewSQLBuilder().Create("SEQUENCE").IfNotExists().QualifiedName(d.Schema, d.ObjectName).String(), nil
}

func (sequenceStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	return utils.NewSQLBuilder().Drop("SEQUENCE").IfExists().QualifiedName(d.Schema, d.ObjectName).Cascade().String()
}

func (sequenceStrategy) existenceQuery(d *schemadiff.SchemaDifference) (string, bool) {
	return fmt.Sprintf(
		"SELECT count(*) FROM information_schema.sequences WHERE sequence_schema = %s AND sequence_name = %s",
		utils.QuoteLiteral(d.Schema), utils.QuoteLiteral(d.ObjectName)), true
}

func (functionStrategy) createSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	statement, err := catalog.FunctionDefinition(ctx, d.Schema, d.ObjectName)
	if err != nil {
		return "", errors.Wrapf(err, "looking up definition for function %s", d.ObjectName)
	}
	if strings.TrimSpace(statement) == "" {
		return "", errors.Errorf("function %s has no definition in the target catalogs", d.ObjectName)
	}
	return ensureTerminated(statement), nil
}

// CREATE OR REPLACE FUNCTION handles the modified path too.
func (f functionStrategy) alterSQL(ctx context.Context, catalog Catalog, d *schemadiff.SchemaDifference) (string, error) {
	return f.createSQL(ctx, catalog, d)
}

func (functionStrategy) dropSQL(d *schemadiff.SchemaDifference) string {
	return utils.NewSQLBuilder().Drop("FUNCTION").IfExists().QualifiedName(d.Schema, d.ObjectName).Cascade().String()
}

func (functionStrategy) existenceQuery(d *schemadiff.SchemaDifference) (string, bool) {
	return fmt.Sprintf(
		"SELECT count(*) FROM pg_proc p JOIN pg_namespace n ON n.oid = p.pronamespace WHERE n.nspname = %s AND p.proname = %s",
		utils.QuoteLiteral(d.Schema), utils.QuoteLiteral(d.ObjectName)), true
}
