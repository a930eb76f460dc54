// Package limits holds the fixed size limits a single emulated database
// enforces during schema changes. The values match Cloud Spanner's published
// per-database limits.
package limits

const (
	// MaxTablesPerDatabase is the maximum number of user tables. Index data
	// tables do not count against it.
	MaxTablesPerDatabase = 2560

	// MaxIndexesPerDatabase is the maximum number of secondary indexes.
	MaxIndexesPerDatabase = 4096

	// MaxSchemaNameLength bounds table, index and user-declared constraint
	// names.
	MaxSchemaNameLength = 128
)
