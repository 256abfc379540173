// Package colstore implements the type-partitioned cache store.
//
// Each of the four stored families (blob, float, integer, string) owns one dense
// row-major slice of natively typed values addressed as [row*width + slot]. A
// family with no columns allocates nothing. Rows are written whole through a
// RowBuffer and Commit, so a row is either fully present or absent, and a
// committed row is never overwritten.
//
// Memory for the partition slices is charged to a resource.Controller at
// allocation; bytes held by blob and string values are charged at commit.
package colstore
