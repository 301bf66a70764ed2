// Package postgres provides the PostgreSQL implementations of the engine's
// external collaborators: the schema snapshot provider over the system
// catalogs, the catalog-detail lookups used during CREATE-SQL synthesis, and
// the query execution transport the executor runs statements through.
//
// The Client speaks to one database over database/sql with the lib/pq driver.
// Known system schemas (pg_catalog, information_schema, pg_toast) and
// temporary schemas are skipped during snapshot capture.
package postgres
