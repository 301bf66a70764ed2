package utils

import "strings"

// QuoteIdentifier wraps a PostgreSQL identifier in double quotes, handling
// qualified identifiers by quoting each part.
//
// Examples:
//   - "users" -> "\"users\""
//   - "billing.invoices" -> "\"billing\".\"invoices\""
//   - "\"users\"" -> "\"users\"" (already quoted, not double-quoted)
//   - "" -> ""
//
// Embedded double quotes are escaped by doubling, per the SQL standard. This
// function is used throughout the codebase for consistent identifier
// formatting in generated DDL statements.
func QuoteIdentifier(name string) string {
	if name == "" {
		return ""
	}

	// A single already-quoted identifier (possibly containing dots) passes
	// through untouched.
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		inner := name[1 : len(name)-1]
		if !strings.Contains(inner, `"`) {
			return name
		}
	}

	parts := strings.Split(name, ".")
	for i, part := range parts {
		if len(part) >= 2 && part[0] == '"' && part[len(part)-1] == '"' {
			continue
		}
		parts[i] = `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

// QuoteQualifiedName formats a schema-qualified name with proper quoting.
// If schema is empty, only the name is quoted.
//
// Examples:
//   - ("billing", "invoices") -> "\"billing\".\"invoices\""
//   - ("", "invoices") -> "\"invoices\""
func QuoteQualifiedName(schema, name string) string {
	if schema != "" {
		return QuoteIdentifier(schema) + "." + QuoteIdentifier(name)
	}
	return QuoteIdentifier(name)
}

// QuoteLiteral wraps a string value in single quotes for use in generated
// SQL, escaping embedded quotes by doubling.
//
// Examples:
//   - "users" -> "'users'"
//   - "it's" -> "'it''s'"
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
