package executor

import (
	"testing"

	"github.com/schemaport/schemaport/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestCompareExpected(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		expectOK bool
	}{
		{name: "loose string equality", actual: "public", expected: "public", expectOK: true},
		{name: "loose equality is case-insensitive", actual: "TRUE", expected: "true", expectOK: true},
		{name: "loose equality trims whitespace", actual: " 5 ", expected: "5", expectOK: true},
		{name: "numeric equality across formats", actual: "5.0", expected: "5", expectOK: true},
		{name: "string mismatch", actual: "public", expected: "private", expectOK: false},
		{name: "gte satisfied", actual: "3", expected: ">=1", expectOK: true},
		{name: "gte boundary", actual: "1", expected: ">=1", expectOK: true},
		{name: "gte unsatisfied", actual: "0", expected: ">=1", expectOK: false},
		{name: "lte satisfied", actual: "0", expected: "<=0", expectOK: true},
		{name: "gt satisfied", actual: "2", expected: ">1", expectOK: true},
		{name: "gt boundary unsatisfied", actual: "1", expected: ">1", expectOK: false},
		{name: "lt satisfied", actual: "0", expected: "<1", expectOK: true},
		{name: "ne numeric satisfied", actual: "2", expected: "!=1", expectOK: true},
		{name: "ne numeric unsatisfied", actual: "1", expected: "!=1", expectOK: false},
		{name: "ne string satisfied", actual: "idle", expected: "!=active", expectOK: true},
		{name: "ne string unsatisfied", actual: "active", expected: "!=active", expectOK: false},
		{name: "operator with non-numeric actual", actual: "oops", expected: ">=1", expectOK: false},
		{name: "operator with spaces", actual: "3", expected: ">= 2", expectOK: true},
		{name: "boolean true against wire t", actual: "t", expected: "true", expectOK: true},
		{name: "boolean false against wire f", actual: "f", expected: "FALSE", expectOK: true},
		{name: "boolean mismatch", actual: "f", expected: "true", expectOK: false},
		{name: "boolean word actual", actual: "true", expected: "true", expectOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, detail := compareExpected(tt.actual, tt.expected, nil)
			assert.Equal(t, tt.expectOK, ok, detail)
		})
	}
}

func TestCompareExpectedTolerance(t *testing.T) {
	ok, _ := compareExpected("10.4", "10", utils.Ptr(0.5))
	assert.True(t, ok)

	ok, _ = compareExpected("10.6", "10", utils.Ptr(0.5))
	assert.False(t, ok)

	ok, _ = compareExpected("10.4", "10", nil)
	assert.False(t, ok, "no tolerance means exact numeric equality")
}

func TestFirstCell(t *testing.T) {
	assert.Equal(t, "42", firstCell(&QueryResult{Rows: [][]string{{"42", "x"}}}))
	assert.Equal(t, "7", firstCell(&QueryResult{RowCount: 7}))
	assert.Equal(t, "0", firstCell(&QueryResult{}))
}
