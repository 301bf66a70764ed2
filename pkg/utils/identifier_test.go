package utils_test

import (
	"testing"

	"github.com/schemaport/schemaport/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple identifier",
			input:    "users",
			expected: `"users"`,
		},
		{
			name:     "qualified identifier",
			input:    "billing.invoices",
			expected: `"billing"."invoices"`,
		},
		{
			name:     "already quoted identifier",
			input:    `"users"`,
			expected: `"users"`,
		},
		{
			name:     "already quoted identifier containing a dot",
			input:    `"users.archive"`,
			expected: `"users.archive"`,
		},
		{
			name:     "partially quoted qualified identifier",
			input:    `"billing".invoices`,
			expected: `"billing"."invoices"`,
		},
		{
			name:     "embedded double quote is doubled",
			input:    `my"table`,
			expected: `"my""table"`,
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "identifier with spaces",
			input:    "my table",
			expected: `"my table"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.QuoteIdentifier(tt.input))
		})
	}
}

func TestQuoteQualifiedName(t *testing.T) {
	require.Equal(t, `"billing"."invoices"`, utils.QuoteQualifiedName("billing", "invoices"))
	require.Equal(t, `"invoices"`, utils.QuoteQualifiedName("", "invoices"))
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain value",
			input:    "users",
			expected: "'users'",
		},
		{
			name:     "embedded single quote is doubled",
			input:    "it's",
			expected: "'it''s'",
		},
		{
			name:     "empty value",
			input:    "",
			expected: "''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.QuoteLiteral(tt.input))
		})
	}
}
