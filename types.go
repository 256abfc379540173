package pagecursor

import "github.com/hupe1980/pagecursor/rowsource"

// ColumnType is the declared scalar type of a column.
type ColumnType = rowsource.ColumnType

// Column types.
const (
	TypeNull    = rowsource.TypeNull
	TypeInteger = rowsource.TypeInteger
	TypeFloat   = rowsource.TypeFloat
	TypeString  = rowsource.TypeString
	TypeBlob    = rowsource.TypeBlob
)

const (
	// DefaultPageSize is the number of rows loaded per page.
	DefaultPageSize = 10
)

// Stats is a snapshot of cursor activity.
type Stats struct {
	// PageLoads counts page sweeps, including the initial one.
	PageLoads int
	// PageLoadErrors counts sweeps that stopped early.
	PageLoadErrors int
	// RowsFetched counts rows read from the source.
	RowsFetched int
	// RowsSkipped counts rows a sweep found already cached.
	RowsSkipped int
	// Moves counts OnMove calls that landed on a row.
	Moves int
	// Reloads counts moves for which the reload policy asked for a page.
	Reloads int
	// DemandLoads counts moves the policy declined although the target row
	// was not cached.
	DemandLoads int
	// CachedRows is the number of rows held by the cache.
	CachedRows int
	// MemoryBytes is the memory charged by the cache store.
	MemoryBytes int64
}
