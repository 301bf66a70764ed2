package utils_test

import (
	"testing"

	"github.com/schemaport/schemaport/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestSQLBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() string
		expected string
	}{
		{
			name: "drop with if exists and cascade",
			build: func() string {
				return utils.NewSQLBuilder().
					Drop("TABLE").
					IfExists().
					QualifiedName("billing", "invoices").
					Cascade().
					String()
			},
			expected: `DROP TABLE IF EXISTS "billing"."invoices" CASCADE;`,
		},
		{
			name: "create schema if not exists",
			build: func() string {
				return utils.NewSQLBuilder().
					Create("SCHEMA").
					IfNotExists().
					Name("reporting").
					String()
			},
			expected: `CREATE SCHEMA IF NOT EXISTS "reporting";`,
		},
		{
			name: "create or replace view with body",
			build: func() string {
				return utils.NewSQLBuilder().
					CreateOrReplace("VIEW").
					QualifiedName("public", "v_users").
					As("SELECT id FROM users").
					String()
			},
			expected: `CREATE OR REPLACE VIEW "public"."v_users" AS SELECT id FROM users;`,
		},
		{
			name: "alter table with raw column clause",
			build: func() string {
				return utils.NewSQLBuilder().
					Alter("TABLE").
					QualifiedName("public", "users").
					Raw("ADD COLUMN").
					Name("email").
					Raw("text NOT NULL").
					String()
			},
			expected: `ALTER TABLE "public"."users" ADD COLUMN "email" text NOT NULL;`,
		},
		{
			name: "empty schema qualifies nothing",
			build: func() string {
				return utils.NewSQLBuilder().
					Drop("INDEX").
					IfExists().
					QualifiedName("", "users_email_idx").
					String()
			},
			expected: `DROP INDEX IF EXISTS "users_email_idx";`,
		},
		{
			name: "empty builder",
			build: func() string {
				return utils.NewSQLBuilder().String()
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.build())
		})
	}
}
