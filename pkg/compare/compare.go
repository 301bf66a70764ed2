package compare

// NilCheck performs a nil check on two pointers and returns whether they are
// equal and whether more comparison checks are needed.
//
// Returns (equal, needsMoreChecks) where:
//   - equal: true if both are nil, false if only one is nil
//   - needsMoreChecks: true if both pointers are non-nil and further comparison is needed
//
// Example:
//
//	func (o *DatabaseObject) Equal(other *DatabaseObject) bool {
//	    if eq, needsMoreChecks := compare.NilCheck(o, other); !needsMoreChecks {
//	        return eq
//	    }
//	    // Continue with field comparisons...
//	}
func NilCheck[T any](a, b *T) (equal bool, needsMoreChecks bool) {
	if a == nil && b == nil {
		return true, false
	}
	if a == nil || b == nil {
		return false, false
	}
	return false, true
}

// Pointers compares two pointer values for equality.
// Returns true if both are nil, or both are non-nil with equal values.
//
// Example:
//
//	func (c *ColumnInfo) Equal(other *ColumnInfo) bool {
//	    return compare.Pointers(c.Default, other.Default)
//	}
func Pointers[T comparable](a, b *T) bool {
	if (a != nil) != (b != nil) {
		return false
	}
	if a != nil && *a != *b {
		return false
	}
	return true
}

// SlicesUnordered compares two slices for equality regardless of order.
// Returns true if both slices contain the same elements (by the equality
// function). Dependency lists come back from the catalogs in query order, so
// object equality must not depend on element position.
//
// Example:
//
//	compare.SlicesUnordered(a.Dependencies, b.Dependencies,
//	    func(x, y ObjectKey) bool { return x == y })
func SlicesUnordered[T any](a, b []T, equalFunc func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}

	matched := make([]bool, len(b))

	for _, aElem := range a {
		found := false
		for j, bElem := range b {
			if !matched[j] && equalFunc(aElem, bElem) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
