package utils_test

import (
	"testing"

	"github.com/schemaport/schemaport/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestIsNumericValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "integer", input: "123", expected: true},
		{name: "float", input: "123.45", expected: true},
		{name: "negative float", input: "-123.45", expected: true},
		{name: "scientific notation", input: "1.23e-4", expected: true},
		{name: "letters", input: "abc", expected: false},
		{name: "multiple decimal points", input: "1.2.3", expected: false},
		{name: "empty string", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.IsNumericValue(tt.input))
		})
	}
}

func TestIsBooleanValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "lowercase true", input: "true", expected: true},
		{name: "uppercase false", input: "FALSE", expected: true},
		{name: "mixed case", input: "True", expected: true},
		{name: "numeric boolean", input: "1", expected: false},
		{name: "yes", input: "yes", expected: false},
		{name: "empty string", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.IsBooleanValue(tt.input))
		})
	}
}
