package schema

import (
	"fmt"
	"sort"
	"time"

	"github.com/schemaport/schemaport/pkg/compare"
)

// ObjectType identifies the kind of database object a descriptor represents.
type ObjectType string

// The object types the engine knows how to diff, order, and synthesize SQL
// for. Column objects are emitted by the differencer for table-column level
// changes and are named "table.column" within their schema.
const (
	TypeSchema   ObjectType = "schema"
	TypeTable    ObjectType = "table"
	TypeColumn   ObjectType = "column"
	TypeView     ObjectType = "view"
	TypeIndex    ObjectType = "index"
	TypeSequence ObjectType = "sequence"
	TypeFunction ObjectType = "function"
)

type (
	// ObjectKey is the identity of a database object: the (type, schema,
	// name) triple. Two descriptors with equal keys describe the same object,
	// possibly at different points in time.
	ObjectKey struct {
		Type   ObjectType
		Schema string
		Name   string
	}

	// DatabaseObject is an immutable snapshot of one schema element at
	// capture time. Optional catalog attributes are pointers so "unknown" is
	// distinguishable from a zero value.
	DatabaseObject struct {
		Type         ObjectType
		Schema       string
		Name         string
		Owner        *string
		Definition   string
		SizeInBytes  *int64
		Dependencies []ObjectKey
		Dependents   []ObjectKey
	}

	// ColumnInfo describes one table column as reported by the catalogs.
	// It is used during CREATE TABLE synthesis and column-level diffing.
	ColumnInfo struct {
		Name       string
		DataType   string
		IsNullable bool
		Default    *string
		Position   int
	}

	// Snapshot is the captured object set of one database at one point in
	// time, together with relationship metadata embedded in the objects.
	Snapshot struct {
		DatabaseName string
		CapturedAt   time.Time
		Objects      []DatabaseObject
	}
)

// Key returns the object's identity key.
func (o *DatabaseObject) Key() ObjectKey {
	return ObjectKey{Type: o.Type, Schema: o.Schema, Name: o.Name}
}

// QualifiedName returns the schema-qualified object name, or the bare name
// when the object has no schema (e.g. a schema object itself).
func (o *DatabaseObject) QualifiedName() string {
	if o.Schema == "" {
		return o.Name
	}
	return fmt.Sprintf("%s.%s", o.Schema, o.Name)
}

// Equal reports whether two descriptors are identical under strict
// comparison: definition, owner, and size must all match exactly, and the
// dependency sets must contain the same keys (order-insensitively, since the
// catalogs return them in query order).
func (o *DatabaseObject) Equal(other *DatabaseObject) bool {
	if eq, needsMoreChecks := compare.NilCheck(o, other); !needsMoreChecks {
		return eq
	}

	if o.Type != other.Type || o.Schema != other.Schema || o.Name != other.Name {
		return false
	}
	if o.Definition != other.Definition {
		return false
	}
	if !compare.Pointers(o.Owner, other.Owner) {
		return false
	}
	if !compare.Pointers(o.SizeInBytes, other.SizeInBytes) {
		return false
	}

	keysEqual := func(a, b ObjectKey) bool { return a == b }
	return compare.SlicesUnordered(o.Dependencies, other.Dependencies, keysEqual) &&
		compare.SlicesUnordered(o.Dependents, other.Dependents, keysEqual)
}

// String returns the key in "type:schema.name" form, used as the node label
// in dependency graphs and log entries.
func (k ObjectKey) String() string {
	if k.Schema == "" {
		return fmt.Sprintf("%s:%s", k.Type, k.Name)
	}
	return fmt.Sprintf("%s:%s.%s", k.Type, k.Schema, k.Name)
}

// SortObjects orders a slice of objects by identity key in place. Map-driven
// collection makes capture order unstable, so every consumer that needs
// determinism sorts first.
func SortObjects(objects []DatabaseObject) {
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key().String() < objects[j].Key().String()
	})
}
