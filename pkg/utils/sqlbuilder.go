package utils

import "strings"

// SQLBuilder provides a fluent interface for building PostgreSQL DDL
// statements. It handles identifier quoting and conditional clause building to
// reduce duplication across the planner's SQL generation strategies.
//
// Example usage:
//
//	sql := utils.NewSQLBuilder().
//		Drop("TABLE").
//		IfExists().
//		QualifiedName("billing", "invoices").
//		Cascade().
//		String()
//	// Output: DROP TABLE IF EXISTS "billing"."invoices" CASCADE;
type SQLBuilder struct {
	parts []string
}

// NewSQLBuilder creates a new SQLBuilder instance.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{
		parts: make([]string, 0, 10),
	}
}

// Create adds a CREATE clause with the specified object type.
//
// Example:
//
//	builder.Create("TABLE")  // CREATE TABLE
//	builder.Create("INDEX")  // CREATE INDEX
func (b *SQLBuilder) Create(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "CREATE", objectType)
	return b
}

// CreateOrReplace adds a CREATE OR REPLACE clause with the specified object
// type. PostgreSQL supports this for views and functions.
//
// Example:
//
//	builder.CreateOrReplace("VIEW")  // CREATE OR REPLACE VIEW
func (b *SQLBuilder) CreateOrReplace(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "CREATE", "OR", "REPLACE", objectType)
	return b
}

// Drop adds a DROP clause with the specified object type.
//
// Example:
//
//	builder.Drop("TABLE")     // DROP TABLE
//	builder.Drop("SEQUENCE")  // DROP SEQUENCE
func (b *SQLBuilder) Drop(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "DROP", objectType)
	return b
}

// Alter adds an ALTER clause with the specified object type.
//
// Example:
//
//	builder.Alter("TABLE")  // ALTER TABLE
func (b *SQLBuilder) Alter(objectType string) *SQLBuilder {
	b.parts = append(b.parts, "ALTER", objectType)
	return b
}

// IfExists adds an IF EXISTS clause. This should be called after Drop.
//
// Example:
//
//	builder.Drop("TABLE").IfExists()  // DROP TABLE IF EXISTS
func (b *SQLBuilder) IfExists() *SQLBuilder {
	b.parts = append(b.parts, "IF", "EXISTS")
	return b
}

// IfNotExists adds an IF NOT EXISTS clause. This should be called after Create.
//
// Example:
//
//	builder.Create("SCHEMA").IfNotExists()  // CREATE SCHEMA IF NOT EXISTS
func (b *SQLBuilder) IfNotExists() *SQLBuilder {
	b.parts = append(b.parts, "IF", "NOT", "EXISTS")
	return b
}

// Name adds a quoted object name.
//
// Example:
//
//	builder.Name("invoices")          // "invoices"
//	builder.Name("billing.invoices")  // "billing"."invoices"
func (b *SQLBuilder) Name(name string) *SQLBuilder {
	if name != "" {
		b.parts = append(b.parts, QuoteIdentifier(name))
	}
	return b
}

// QualifiedName adds a schema-qualified name. An empty schema produces just
// the quoted object name.
//
// Example:
//
//	builder.QualifiedName("billing", "invoices")  // "billing"."invoices"
//	builder.QualifiedName("", "invoices")         // "invoices"
func (b *SQLBuilder) QualifiedName(schema, name string) *SQLBuilder {
	qualified := QuoteQualifiedName(schema, name)
	if qualified != "" {
		b.parts = append(b.parts, qualified)
	}
	return b
}

// Cascade adds a CASCADE clause, dropping dependent objects along with the
// target.
//
// Example:
//
//	builder.Drop("VIEW").IfExists().Name("v").Cascade()  // DROP VIEW IF EXISTS "v" CASCADE
func (b *SQLBuilder) Cascade() *SQLBuilder {
	b.parts = append(b.parts, "CASCADE")
	return b
}

// As adds an AS clause followed by a raw expression, used for view bodies.
//
// Example:
//
//	builder.As("SELECT id FROM users")  // AS SELECT id FROM users
func (b *SQLBuilder) As(expression string) *SQLBuilder {
	if expression != "" {
		b.parts = append(b.parts, "AS", expression)
	}
	return b
}

// Raw adds raw SQL text to the builder. Use sparingly for constructs that
// don't fit the fluent pattern.
//
// Example:
//
//	builder.Raw("ADD COLUMN")  // ADD COLUMN
func (b *SQLBuilder) Raw(sql string) *SQLBuilder {
	if sql != "" {
		b.parts = append(b.parts, sql)
	}
	return b
}

// String builds and returns the final SQL statement with a semicolon.
//
// Example:
//
//	sql := builder.Drop("TABLE").IfExists().Name("t").String()
//	// Returns: DROP TABLE IF EXISTS "t";
func (b *SQLBuilder) String() string {
	if len(b.parts) == 0 {
		return ""
	}
	return strings.Join(b.parts, " ") + ";"
}
