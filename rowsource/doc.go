// Package rowsource defines the tabular data source a pagecursor.Cursor caches.
//
// A Source is a positionable, forward-iterable result set: it knows its row
// count and column names, can be moved to an absolute row or stepped forward,
// and exposes typed getters for the values at the current row.
//
// # Built-in Implementations
//
//   - Memory: rows held in memory, mostly for tests and small fixtures
//   - sqlsource.Source: the result of a database/sql query
//   - arrowsource.Source: an Arrow table, optionally read from Parquet
//
// # Custom Implementations
//
// Getters never return errors. A value that is null reads as the zero value of
// the getter's type, and values of another scalar kind are coerced the way
// SQLite coerces them. Failures while positioning are reported by returning
// false from MoveToPosition or MoveToNext, with the cause available from Err.
package rowsource
