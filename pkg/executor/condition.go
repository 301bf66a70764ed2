package executor

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/schemaport/schemaport/pkg/planner"
	"github.com/schemaport/schemaport/pkg/utils"
)

// comparison operators the expected-result mini-grammar recognizes as a
// leading prefix. Two-character operators are matched first.
var comparisonOperators = []string{">=", "<=", "!=", ">", "<"}

// evaluateCondition runs one condition's check query and compares the first
// returned cell against the expected result. A condition without a check
// query is vacuously satisfied.
func (e *Executor) evaluateCondition(ctx context.Context, c *planner.Condition) (ok bool, detail string, err error) {
	if strings.TrimSpace(c.CheckQuery) == "" {
		return true, "no check query, vacuously satisfied", nil
	}

	res, err := e.transport.Execute(ctx, c.CheckQuery)
	if err != nil {
		return false, "", err
	}

	ok, detail = compareExpected(firstCell(res), c.ExpectedResult, c.Tolerance)
	return ok, detail, nil
}

// firstCell extracts the value the mini-grammar compares against: the first
// cell of the first row, or the row count when the query returned no rows.
func firstCell(res *QueryResult) string {
	if len(res.Rows) > 0 && len(res.Rows[0]) > 0 {
		return res.Rows[0][0]
	}
	return strconv.FormatInt(res.RowCount, 10)
}

// compareExpected implements the expected-result mini-grammar: a leading
// >=, <=, >, <, or != switches to numeric/inequality comparison against the
// actual value; anything else falls back to loose equality (numeric within
// tolerance when both sides are numbers, case-insensitive string comparison
// otherwise).
func compareExpected(actual, expected string, tolerance *float64) (bool, string) {
	actual = strings.TrimSpace(actual)
	expected = strings.TrimSpace(expected)
	detail := fmt.Sprintf("expected %q, got %q", expected, actual)

	for _, op := range comparisonOperators {
		if !strings.HasPrefix(expected, op) {
			continue
		}
		operand := strings.TrimSpace(expected[len(op):])

		if op == "!=" && !(utils.IsNumericValue(actual) && utils.IsNumericValue(operand)) {
			return !strings.EqualFold(actual, operand), detail
		}

		a, errA := strconv.ParseFloat(actual, 64)
		b, errB := strconv.ParseFloat(operand, 64)
		if errA != nil || errB != nil {
			return false, detail + " (not comparable numerically)"
		}

		switch op {
		case ">=":
			return a >= b, detail
		case "<=":
			return a <= b, detail
		case ">":
			return a > b, detail
		case "<":
			return a < b, detail
		default:
			return a != b, detail
		}
	}

	// Boolean cells come back from the wire as t/f while expectations are
	// written as true/false.
	if utils.IsBooleanValue(expected) {
		return strings.EqualFold(booleanWord(actual), expected), detail
	}

	if utils.IsNumericValue(actual) && utils.IsNumericValue(expected) {
		a, _ := strconv.ParseFloat(actual, 64)
		b, _ := strconv.ParseFloat(expected, 64)
		var tol float64
		if tolerance != nil {
			tol = *tolerance
		}
		return math.Abs(a-b) <= tol, detail
	}

	return strings.EqualFold(actual, expected), detail
}

// booleanWord expands the single-letter boolean rendering to its word form.
func booleanWord(value string) string {
	switch strings.ToLower(value) {
	case "t":
		return "true"
	case "f":
		return "false"
	}
	return value
}
