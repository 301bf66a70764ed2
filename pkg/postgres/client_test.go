package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log, _ := test.NewNullLogger()
	return NewClientWithDB(db, "app", log), mock
}

func TestExecuteQueryStatement(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM t`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("3"))

	res, err := client.Execute(context.Background(), "SELECT count(*) FROM t")
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.RowCount)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "3", res.Rows[0][0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteDDLStatement(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectExec(`DROP TABLE IF EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := client.Execute(context.Background(), `DROP TABLE IF EXISTS "public"."legacy" CASCADE;`)
	require.NoError(t, err)

	assert.Empty(t, res.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteStatementError(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectExec(`DROP TABLE`).
		WillReturnError(assert.AnError)

	_, err := client.Execute(context.Background(), "DROP TABLE missing;")
	require.Error(t, err)
}

func TestExecuteNullCellsScanEmpty(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`SELECT owner FROM things`).
		WillReturnRows(sqlmock.NewRows([]string{"owner"}).AddRow(nil))

	res, err := client.Execute(context.Background(), "SELECT owner FROM things")
	require.NoError(t, err)
	assert.Equal(t, "", res.Rows[0][0])
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		statement string
		expected  bool
	}{
		{statement: "SELECT 1", expected: true},
		{statement: "  with x as (select 1) select * from x", expected: true},
		{statement: "EXPLAIN SELECT 1", expected: true},
		{statement: "CREATE TABLE t (id int)", expected: false},
		{statement: "DROP VIEW v", expected: false},
		{statement: "INSERT INTO t VALUES (1)", expected: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, returnsRows(tt.statement), tt.statement)
	}
}

func TestSchemaObjectsSkipsSystemSchemas(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM information_schema.schemata`).
		WillReturnRows(sqlmock.NewRows([]string{"schema_name", "schema_owner"}).
			AddRow("public", "postgres").
			AddRow("pg_catalog", "postgres").
			AddRow("information_schema", "postgres").
			AddRow("billing", "app"))

	objects, err := client.schemaObjects(context.Background())
	require.NoError(t, err)

	require.Len(t, objects, 2)
	assert.Equal(t, "public", objects[0].Name)
	assert.Equal(t, "billing", objects[1].Name)
	assert.Equal(t, schema.TypeSchema, objects[0].Type)
}

func TestIsSystemSchema(t *testing.T) {
	assert.True(t, isSystemSchema("pg_catalog"))
	assert.True(t, isSystemSchema("information_schema"))
	assert.True(t, isSystemSchema("pg_toast"))
	assert.True(t, isSystemSchema("pg_temp_1"))
	assert.False(t, isSystemSchema("public"))
	assert.False(t, isSystemSchema("billing"))
}

func TestTableAndColumnObjects(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM information_schema.columns c`).
		WillReturnRows(sqlmock.NewRows([]string{
			"table_schema", "table_name", "column_name", "data_type", "is_nullable", "column_default", "ordinal_position",
		}).
			AddRow("public", "users", "id", "bigint", "NO", nil, 1).
			AddRow("public", "users", "email", "text", "YES", "''::text", 2))
	mock.ExpectQuery(`FROM pg_class c`).
		WillReturnRows(sqlmock.NewRows([]string{"nspname", "relname", "owner", "size"}).
			AddRow("public", "users", "app", 8192))

	objects, err := client.tableAndColumnObjects(context.Background())
	require.NoError(t, err)

	require.Len(t, objects, 3, "one table plus two column objects")

	table := objects[0]
	assert.Equal(t, schema.TypeTable, table.Type)
	assert.Equal(t, "users", table.Name)
	require.NotNil(t, table.Owner)
	assert.Equal(t, "app", *table.Owner)
	require.NotNil(t, table.SizeInBytes)
	assert.Equal(t, int64(8192), *table.SizeInBytes)
	assert.Contains(t, table.Definition, `CREATE TABLE "public"."users"`)
	assert.Contains(t, table.Definition, `"id" bigint NOT NULL`)

	idColumn := objects[1]
	assert.Equal(t, schema.TypeColumn, idColumn.Type)
	assert.Equal(t, "users.id", idColumn.Name)
	assert.Equal(t, "bigint NOT NULL", idColumn.Definition)
	assert.Contains(t, idColumn.Dependencies,
		schema.ObjectKey{Type: schema.TypeTable, Schema: "public", Name: "users"})

	emailColumn := objects[2]
	assert.Equal(t, "text DEFAULT ''::text", emailColumn.Definition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViewObjectsCarryDependencies(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM pg_depend d`).
		WillReturnRows(sqlmock.NewRows([]string{"vn", "v", "sn", "s", "kind"}).
			AddRow("public", "v_users", "public", "users", "r"))
	mock.ExpectQuery(`FROM pg_views`).
		WillReturnRows(sqlmock.NewRows([]string{"schemaname", "viewname", "viewowner", "definition"}).
			AddRow("public", "v_users", "app", " SELECT id FROM users;"))

	objects, err := client.viewObjects(context.Background())
	require.NoError(t, err)

	require.Len(t, objects, 1)
	view := objects[0]
	assert.Equal(t, "SELECT id FROM users;", view.Definition)
	assert.Contains(t, view.Dependencies,
		schema.ObjectKey{Type: schema.TypeTable, Schema: "public", Name: "users"})
	assert.Contains(t, view.Dependencies, schema.ObjectKey{Type: schema.TypeSchema, Name: "public"})
}
