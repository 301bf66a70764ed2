package compare_test

import (
	"testing"

	. "github.com/schemaport/schemaport/pkg/compare"
	"github.com/stretchr/testify/require"
)

func TestNilCheck(t *testing.T) {
	tests := []struct {
		name             string
		a, b             *int
		expectedEqual    bool
		expectedContinue bool
	}{
		{
			name:             "both nil",
			a:                nil,
			b:                nil,
			expectedEqual:    true,
			expectedContinue: false,
		},
		{
			name:             "first nil",
			a:                nil,
			b:                intPtr(5),
			expectedEqual:    false,
			expectedContinue: false,
		},
		{
			name:             "second nil",
			a:                intPtr(5),
			b:                nil,
			expectedEqual:    false,
			expectedContinue: false,
		},
		{
			name:             "neither nil",
			a:                intPtr(5),
			b:                intPtr(5),
			expectedEqual:    false,
			expectedContinue: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equal, shouldContinue := NilCheck(tt.a, tt.b)
			require.Equal(t, tt.expectedEqual, equal)
			require.Equal(t, tt.expectedContinue, shouldContinue)
		})
	}
}

func TestPointers(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *string
		expected bool
	}{
		{
			name:     "both nil",
			a:        nil,
			b:        nil,
			expected: true,
		},
		{
			name:     "one nil",
			a:        strPtr("app"),
			b:        nil,
			expected: false,
		},
		{
			name:     "equal values",
			a:        strPtr("app"),
			b:        strPtr("app"),
			expected: true,
		},
		{
			name:     "different values",
			a:        strPtr("app"),
			b:        strPtr("admin"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Pointers(tt.a, tt.b))
		})
	}
}

func TestSlicesUnordered(t *testing.T) {
	eq := func(a, b string) bool { return a == b }

	tests := []struct {
		name     string
		a, b     []string
		expected bool
	}{
		{
			name:     "both empty",
			a:        nil,
			b:        nil,
			expected: true,
		},
		{
			name:     "same order",
			a:        []string{"schema", "table"},
			b:        []string{"schema", "table"},
			expected: true,
		},
		{
			name:     "different order",
			a:        []string{"schema", "table"},
			b:        []string{"table", "schema"},
			expected: true,
		},
		{
			name:     "different lengths",
			a:        []string{"schema"},
			b:        []string{"schema", "table"},
			expected: false,
		},
		{
			name:     "different elements",
			a:        []string{"schema", "table"},
			b:        []string{"schema", "view"},
			expected: false,
		},
		{
			name:     "duplicates must match one-to-one",
			a:        []string{"table", "table"},
			b:        []string{"table", "view"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, SlicesUnordered(tt.a, tt.b, eq))
		})
	}
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
