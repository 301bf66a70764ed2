package schemadiff

// Order applies the coarse safety ordering to a difference list: all Removed
// differences first, then all Added, then all Modified, preserving relative
// input order within each group. Drops run first so they free up name
// conflicts, and creates precede data-dependent alters. Finer ordering within
// a group is the dependency grapher's job when explicit dependency edges
// exist.
//
// The input slice is not modified.
func Order(differences []SchemaDifference) []SchemaDifference {
	ordered := make([]SchemaDifference, 0, len(differences))
	for _, kind := range []DiffKind{KindRemoved, KindAdded, KindModified} {
		for _, d := range differences {
			if d.Kind == kind {
				ordered = append(ordered, d)
			}
		}
	}
	return ordered
}
