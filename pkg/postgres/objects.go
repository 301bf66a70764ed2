package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/utils"
)

// Snapshot captures the database's full application-owned object set.
func (c *Client) Snapshot(ctx context.Context) (*schema.Snapshot, error) {
	objects, err := c.Objects(ctx)
	if err != nil {
		return nil, err
	}

	return &schema.Snapshot{
		DatabaseName: c.databaseName,
		CapturedAt:   time.Now(),
		Objects:      objects,
	}, nil
}

// Objects captures every application-owned schema, table, column, view,
// index, sequence, and function as immutable descriptors, sorted by identity
// key. System and temporary schemas are skipped.
func (c *Client) Objects(ctx context.Context) ([]schema.DatabaseObject, error) {
	collectors := []func(context.Context) ([]schema.DatabaseObject, error){
		c.schemaObjects,
		c.tableAndColumnObjects,
		c.viewObjects,
		c.indexObjects,
		c.sequenceObjects,
		c.functionObjects,
	}

	var objects []schema.DatabaseObject
	for _, collect := range collectors {
		collected, err := collect(ctx)
		if err != nil {
			return nil, err
		}
		objects = append(objects, collected...)
	}

	schema.SortObjects(objects)
	return objects, nil
}

func (c *Client) schemaObjects(ctx context.Context) ([]schema.DatabaseObject, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT schema_name, schema_owner FROM information_schema.schemata ORDER BY schema_name")
	if err != nil {
		return nil, errors.Wrap(err, "listing schemas")
	}
	defer rows.Close()

	var objects []schema.DatabaseObject
	for rows.Next() {
		var name string
		var owner sql.NullString
		if err := rows.Scan(&name, &owner); err != nil {
			return nil, errors.Wrap(err, "scanning schema")
		}
		if isSystemSchema(name) {
			continue
		}

		o := schema.DatabaseObject{Type: schema.TypeSchema, Name: name}
		if owner.Valid {
			o.Owner = utils.Ptr(owner.String)
		}
		objects = append(objects, o)
	}

	return objects, errors.Wrap(rows.Err(), "iterating schemas")
}

func (c *Client) tableAndColumnObjects(ctx context.Context) ([]schema.DatabaseObject, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT c.table_schema, c.table_name, c.column_name, c.data_type, c.is_nullable, c.column_default, c.ordinal_position
		FROM information_schema.columns c
		JOIN information_schema.tables t ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE t.table_type = 'BASE TABLE'
		ORDER BY c.table_schema, c.table_name, c.ordinal_position`)
	if err != nil {
		return nil, errors.Wrap(err, "listing table columns")
	}
	defer rows.Close()

	type tableID struct{ schemaName, tableName string }
	var (
		tables       []tableID
		columnsByTab = make(map[tableID][]schema.ColumnInfo)
	)
	for rows.Next() {
		var (
			id         tableID
			col        schema.ColumnInfo
			isNullable string
			colDefault sql.NullString
		)
		if err := rows.Scan(&id.schemaName, &id.tableName, &col.Name, &col.DataType, &isNullable, &colDefault, &col.Position); err != nil {
			return nil, errors.Wrap(err, "scanning column")
		}
		if isSystemSchema(id.schemaName) {
			continue
		}

		col.IsNullable = strings.EqualFold(isNullable, "YES")
		if colDefault.Valid {
			col.Default = utils.Ptr(colDefault.String)
		}
		if _, seen := columnsByTab[id]; !seen {
			tables = append(tables, id)
		}
		columnsByTab[id] = append(columnsByTab[id], col)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating table columns")
	}

	owners, sizes, err := c.relationAttributes(ctx, "r")
	if err != nil {
		return nil, err
	}

	var objects []schema.DatabaseObject
	for _, id := range tables {
		columns := columnsByTab[id]
		tableKey := schema.ObjectKey{Type: schema.TypeTable, Schema: id.schemaName, Name: id.tableName}

		table := schema.DatabaseObject{
			Type:         schema.TypeTable,
			Schema:       id.schemaName,
			Name:         id.tableName,
			Definition:   tableDefinition(id.schemaName, id.tableName, columns),
			Dependencies: []schema.ObjectKey{{Type: schema.TypeSchema, Name: id.schemaName}},
		}
		qualified := id.schemaName + "." + id.tableName
		if owner, ok := owners[qualified]; ok {
			table.Owner = utils.Ptr(owner)
		}
		if size, ok := sizes[qualified]; ok {
			table.SizeInBytes = utils.Ptr(size)
		}
		objects = append(objects, table)

		for i := range columns {
			objects = append(objects, schema.DatabaseObject{
				Type:         schema.TypeColumn,
				Schema:       id.schemaName,
				Name:         id.tableName + "." + columns[i].Name,
				Definition:   columnDefinition(&columns[i]),
				Dependencies: []schema.ObjectKey{tableKey},
			})
		}
	}

	return objects, nil
}

// relationAttributes reads owner and total size for relations of one kind,
// keyed by "schema.name".
func (c *Client) relationAttributes(ctx context.Context, relkind string) (owners map[string]string, sizes map[string]int64, err error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT n.nspname, c.relname, pg_get_userbyid(c.relowner), pg_total_relation_size(c.oid)
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind = $1`, relkind)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading relation attributes")
	}
	defer rows.Close()

	owners = make(map[string]string)
	sizes = make(map[string]int64)
	for rows.Next() {
		var schemaName, relName, owner string
		var size int64
		if err := rows.Scan(&schemaName, &relName, &owner, &size); err != nil {
			return nil, nil, errors.Wrap(err, "scanning relation attributes")
		}
		if isSystemSchema(schemaName) {
			continue
		}
		owners[schemaName+"."+relName] = owner
		sizes[schemaName+"."+relName] = size
	}

	return owners, sizes, errors.Wrap(rows.Err(), "iterating relation attributes")
}

func (c *Client) viewObjects(ctx context.Context) ([]schema.DatabaseObject, error) {
	dependencies, err := c.viewDependencies(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT schemaname, viewname, viewowner, definition FROM pg_views ORDER BY schemaname, viewname")
	if err != nil {
		return nil, errors.Wrap(err, "listing views")
	}
	defer rows.Close()

	var objects []schema.DatabaseObject
	for rows.Next() {
		var schemaName, viewName, owner, definition string
		if err := rows.Scan(&schemaName, &viewName, &owner, &definition); err != nil {
			return nil, errors.Wrap(err, "scanning view")
		}
		if isSystemSchema(schemaName) {
			continue
		}

		key := schema.ObjectKey{Type: schema.TypeView, Schema: schemaName, Name: viewName}
		objects = append(objects, schema.DatabaseObject{
			Type:       schema.TypeView,
			Schema:     schemaName,
			Name:       viewName,
			Owner:      utils.Ptr(owner),
			Definition: strings.TrimSpace(definition),
			Dependencies: append([]schema.ObjectKey{{Type: schema.TypeSchema, Name: schemaName}},
				dependencies[key]...),
		})
	}

	return objects, errors.Wrap(rows.Err(), "iterating views")
}

// viewDependencies resolves which relations each view reads from through
// pg_depend's rewrite-rule entries.
func (c *Client) viewDependencies(ctx context.Context) (map[schema.ObjectKey][]schema.ObjectKey, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT DISTINCT vn.nspname, v.relname, sn.nspname, s.relname, s.relkind
		FROM pg_depend d
		JOIN pg_rewrite r ON r.oid = d.objid
		JOIN pg_class v ON v.oid = r.ev_class
		JOIN pg_class s ON s.oid = d.refobjid
		JOIN pg_namespace vn ON vn.oid = v.relnamespace
		JOIN pg_namespace sn ON sn.oid = s.relnamespace
		WHERE d.deptype = 'n' AND v.relkind = 'v' AND s.relkind IN ('r', 'v') AND v.oid <> s.oid`)
	if err != nil {
		return nil, errors.Wrap(err, "reading view dependencies")
	}
	defer rows.Close()

	dependencies := make(map[schema.ObjectKey][]schema.ObjectKey)
	for rows.Next() {
		var viewSchema, viewName, sourceSchema, sourceName, sourceKind string
		if err := rows.Scan(&viewSchema, &viewName, &sourceSchema, &sourceName, &sourceKind); err != nil {
			return nil, errors.Wrap(err, "scanning view dependency")
		}

		sourceType := schema.TypeTable
		if sourceKind == "v" {
			sourceType = schema.TypeView
		}
		viewKey := schema.ObjectKey{Type: schema.TypeView, Schema: viewSchema, Name: viewName}
		dependencies[viewKey] = append(dependencies[viewKey],
			schema.ObjectKey{Type: sourceType, Schema: sourceSchema, Name: sourceName})
	}

	return dependencies, errors.Wrap(rows.Err(), "iterating view dependencies")
}

func (c *Client) indexObjects(ctx context.Context) ([]schema.DatabaseObject, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT schemaname, tablename, indexname, indexdef FROM pg_indexes ORDER BY schemaname, indexname")
	if err != nil {
		return nil, errors.Wrap(err, "listing indexes")
	}
	defer rows.Close()

	var objects []schema.DatabaseObject
	for rows.Next() {
		var schemaName, tableName, indexName, definition string
		if err := rows.Scan(&schemaName, &tableName, &indexName, &definition); err != nil {
			return nil, errors.Wrap(err, "scanning index")
		}
		if isSystemSchema(schemaName) {
			continue
		}

		objects = append(objects, schema.DatabaseObject{
			Type:       schema.TypeIndex,
			Schema:     schemaName,
			Name:       indexName,
			Definition: definition,
			Dependencies: []schema.ObjectKey{
				{Type: schema.TypeSchema, Name: schemaName},
				{Type: schema.TypeTable, Schema: schemaName, Name: tableName},
			},
		})
	}

	return objects, errors.Wrap(rows.Err(), "iterating indexes")
}

func (c *Client) sequenceObjects(ctx context.Context) ([]schema.DatabaseObject, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT sequence_schema, sequence_name FROM information_schema.sequences ORDER BY sequence_schema, sequence_name")
	if err != nil {
		return nil, errors.Wrap(err, "listing sequences")
	}
	defer rows.Close()

	var objects []schema.DatabaseObject
	for rows.Next() {
		var schemaName, sequenceName string
		if err := rows.Scan(&schemaName, &sequenceName); err != nil {
			return nil, errors.Wrap(err, "scanning sequence")
		}
		if isSystemSchema(schemaName) {
			continue
		}

		objects = append(objects, schema.DatabaseObject{
			Type:   schema.TypeSequence,
			Schema: schemaName,
			Name:   sequenceName,
			Definition: utils.NewSQLBuilder().
				Create("SEQUENCE").IfNotExists().QualifiedName(schemaName, sequenceName).String(),
			Dependencies: []schema.ObjectKey{{Type: schema.TypeSchema, Name: schemaName}},
		})
	}

	return objects, errors.Wrap(rows.Err(), "iterating sequences")
}

func (c *Client) functionObjects(ctx context.Context) ([]schema.DatabaseObject, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT n.nspname, p.proname, pg_get_userbyid(p.proowner), pg_get_functiondef(p.oid)
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		WHERE p.prokind = 'f'
		ORDER BY n.nspname, p.proname`)
	if err != nil {
		return nil, errors.Wrap(err, "listing functions")
	}
	defer rows.Close()

	var objects []schema.DatabaseObject
	for rows.Next() {
		var schemaName, functionName, owner string
		var definition sql.NullString
		if err := rows.Scan(&schemaName, &functionName, &owner, &definition); err != nil {
			return nil, errors.Wrap(err, "scanning function")
		}
		if isSystemSchema(schemaName) {
			continue
		}

		objects = append(objects, schema.DatabaseObject{
			Type:         schema.TypeFunction,
			Schema:       schemaName,
			Name:         functionName,
			Owner:        utils.Ptr(owner),
			Definition:   strings.TrimSpace(definition.String),
			Dependencies: []schema.ObjectKey{{Type: schema.TypeSchema, Name: schemaName}},
		})
	}

	return objects, errors.Wrap(rows.Err(), "iterating functions")
}

// tableDefinition reconstructs a canonical CREATE TABLE statement from column
// metadata, matching the shape the planner synthesizes so strict comparison
// of two captures is meaningful.
func tableDefinition(schemaName, tableName string, columns []schema.ColumnInfo) string {
	clauses := make([]string, 0, len(columns))
	for i := range columns {
		clauses = append(clauses, "    "+utils.QuoteIdentifier(columns[i].Name)+" "+columnDefinition(&columns[i]))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		utils.QuoteQualifiedName(schemaName, tableName), strings.Join(clauses, ",\n"))
}

// columnDefinition renders "<data type> [NOT NULL] [DEFAULT ...]", the
// descriptor format the planner's column strategy consumes for rollback.
func columnDefinition(col *schema.ColumnInfo) string {
	definition := col.DataType
	if !col.IsNullable {
		definition += " NOT NULL"
	}
	if col.Default != nil {
		definition += " DEFAULT " + *col.Default
	}
	return definition
}
