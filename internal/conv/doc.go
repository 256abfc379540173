// Package conv provides checked integer conversions.
//
// Cached integers are stored as int64; narrower reads and the uint32 row ids
// used by bitmaps go through these helpers so an out-of-range value surfaces as
// an ErrOverflow instead of silently wrapping.
package conv
