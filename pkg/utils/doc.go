// Package utils provides common utility functions used throughout the
// schemaport codebase.
//
// This package contains shared utilities that are used by multiple packages to
// avoid code duplication and ensure consistent behavior across the application.
//
// # Identifier Utilities (identifier.go)
//
// The identifier utilities provide consistent handling of PostgreSQL SQL
// identifiers, including proper double-quote quoting for names that may
// contain special characters or reserved keywords:
//
//	// Simple identifier
//	name := utils.QuoteIdentifier("users")
//	// Result: "users"
//
//	// Qualified identifier
//	qualified := utils.QuoteQualifiedName("billing", "invoices")
//	// Result: "billing"."invoices"
//
// # SQL Builder (sqlbuilder.go)
//
// The SQLBuilder provides a fluent interface for assembling DDL statements
// from generated fragments, handling identifier quoting and conditional
// clauses (IF EXISTS, CASCADE, OR REPLACE) in one place.
//
// # Value Type Utilities (validation.go)
//
// IsNumericValue and IsBooleanValue classify raw result cells so that
// condition expectations can switch between numeric and string comparison:
//
//	if utils.IsNumericValue(cell) {
//		// compare as float64
//	}
package utils
