// Package compare provides small generic equality helpers used by the schema
// model and the differencer.
//
// Database object descriptors carry optional fields (pointers) and unordered
// collections (dependency lists); these helpers keep the Equal implementations
// short and uniform instead of repeating nil checks and length checks at every
// call site.
package compare
