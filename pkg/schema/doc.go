// Package schema defines the database object model shared by the
// differencer, the dependency grapher, the planner, and the executor.
//
// A DatabaseObject is an immutable descriptor of one schema element captured
// from a live database at one point in time. Objects are identified by the
// (type, schema, name) triple; a Snapshot is the full captured set for one
// database plus a deterministic fingerprint used for change detection between
// runs.
package schema
