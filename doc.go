// Package pagecursor provides random access to large, sequential query
// results through a small windowed cache.
//
// A Cursor wraps a rowsource.Source (a SQL result, an Arrow table, a Parquet
// file, an in-memory fixture) that can only be positioned and stepped forward.
// It inspects the column types once, stores every loaded value in a dense
// slice native to its type family, and loads a page of rows ahead of the read
// position whenever the reload policy asks for one.
//
// # Quick Start
//
//	src, _ := sqlsource.New(ctx, db, "SELECT id, title, thumbnail FROM videos")
//	cur, _ := pagecursor.New(src)
//	defer cur.Close()
//
//	for cur.MoveToNext() {
//	    id, _ := cur.GetLong(0)
//	    title, _ := cur.GetString(1)
//	    fmt.Println(id, title)
//	}
//
// # Reload Policies
//
// Every move onto a row runs the reload policy:
//
//	pagecursor.ThresholdReload{Threshold: 5} // default: jumps, or steps far below the high-water mark
//	pagecursor.PrefetchReload{Threshold: 0}  // jumps, or steps that leave the window
//
// Rows already cached are never read twice, whatever the policy.
//
// # Resources
//
// The cache store charges its memory to an optional resource.Controller;
// construction and page loads fail with resource.ErrMemoryLimitExceeded when
// the budget is exhausted.
//
// # Concurrency
//
// A Cursor is meant for a single reader. Guard it externally if it must be
// shared.
package pagecursor
