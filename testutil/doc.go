// Package testutil provides testing utilities for pagecursor.
//
// This package is intended for use in tests and benchmarks only.
//
// # Row Fixtures
//
//	rng := testutil.NewRNG(seed)
//	names, rows := testutil.VideoRows(25)
//	names, rows = rng.RandomRows([]rowsource.ColumnType{rowsource.TypeInteger, rowsource.TypeBlob}, 100)
//
// # Instrumented Sources
//
//	src := testutil.NewCountingSource(inner)  // counts positioning and getter calls per row
//	src := testutil.NewFailingSource(inner, 12, errDisk) // cannot step onto row 12
package testutil
