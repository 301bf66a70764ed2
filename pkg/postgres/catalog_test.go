package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumns(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM information_schema.columns`).
		WithArgs("public", "users").
		WillReturnRows(sqlmock.NewRows([]string{
			"column_name", "data_type", "is_nullable", "column_default", "ordinal_position",
		}).
			AddRow("id", "bigint", "NO", nil, 1).
			AddRow("email", "text", "YES", "''::text", 2))

	columns, err := client.TableColumns(context.Background(), "public", "users")
	require.NoError(t, err)

	require.Len(t, columns, 2)
	assert.Equal(t, "id", columns[0].Name)
	assert.False(t, columns[0].IsNullable)
	assert.Nil(t, columns[0].Default)
	assert.True(t, columns[1].IsNullable)
	require.NotNil(t, columns[1].Default)
	assert.Equal(t, "''::text", *columns[1].Default)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableColumnsUnknownTable(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM information_schema.columns`).
		WithArgs("public", "missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"column_name", "data_type", "is_nullable", "column_default", "ordinal_position",
		}))

	columns, err := client.TableColumns(context.Background(), "public", "missing")
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestIndexDefinition(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM pg_indexes`).
		WithArgs("public", "users_email_idx").
		WillReturnRows(sqlmock.NewRows([]string{"indexdef"}).
			AddRow("CREATE UNIQUE INDEX users_email_idx ON public.users USING btree (email)"))

	definition, err := client.IndexDefinition(context.Background(), "public", "users_email_idx")
	require.NoError(t, err)
	assert.Contains(t, definition, "CREATE UNIQUE INDEX users_email_idx")
}

func TestViewDefinitionUnknownViewIsEmptyNotError(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM pg_views`).
		WithArgs("public", "missing").
		WillReturnError(sql.ErrNoRows)

	definition, err := client.ViewDefinition(context.Background(), "public", "missing")
	require.NoError(t, err)
	assert.Equal(t, "", definition)
}

func TestFunctionDefinition(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectQuery(`FROM pg_proc p`).
		WithArgs("public", "touch_updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"def"}).
			AddRow("CREATE OR REPLACE FUNCTION public.touch_updated_at() RETURNS trigger AS $$ BEGIN NEW.updated_at = now(); RETURN NEW; END $$ LANGUAGE plpgsql\n"))

	definition, err := client.FunctionDefinition(context.Background(), "public", "touch_updated_at")
	require.NoError(t, err)
	assert.Contains(t, definition, "CREATE OR REPLACE FUNCTION public.touch_updated_at()")
	assert.NotContains(t, definition, "\n\n")
}
