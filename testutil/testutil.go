package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/pagecursor/rowsource"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// Word returns a pseudo-random lowercase word of length n.
func (r *RNG) Word(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + r.rand.Intn(26))
	}
	return string(b)
}

// Value returns a pseudo-random value of the given type.
func (r *RNG) Value(t rowsource.ColumnType) any {
	switch t {
	case rowsource.TypeInteger:
		return r.Int63() - r.Int63()
	case rowsource.TypeFloat:
		return r.Float64()*2000 - 1000
	case rowsource.TypeString:
		return r.Word(1 + r.Intn(12))
	case rowsource.TypeBlob:
		return r.Bytes(1 + r.Intn(16))
	default:
		return nil
	}
}

// RandomRows returns column names c0..cN and n rows whose values match types.
func (r *RNG) RandomRows(types []rowsource.ColumnType, n int) ([]string, [][]any) {
	names := make([]string, len(types))
	for i := range names {
		names[i] = fmt.Sprintf("c%d", i)
	}

	rows := make([][]any, n)
	for i := range rows {
		row := make([]any, len(types))
		for j, t := range types {
			row[j] = r.Value(t)
		}
		rows[i] = row
	}
	return names, rows
}

// VideoColumns are the column names of VideoRows.
var VideoColumns = []string{"_id", "title", "description", "rating", "year", "thumbnail", "deleted_at"}

// VideoRows returns n deterministic rows shaped like a video catalog query:
// an integer id, two strings, a float, an integer, a blob and an all-null column.
func VideoRows(n int) ([]string, [][]any) {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{
			int64(i + 1),
			fmt.Sprintf("Video %03d", i),
			fmt.Sprintf("Episode %d of the catalog", i),
			float64(i%50) / 10,
			int64(1990 + i%35),
			[]byte{byte(i), byte(i >> 8), 0xFF},
			nil,
		}
	}
	return append([]string(nil), VideoColumns...), rows
}

// NewVideoSource wraps VideoRows(n) in a memory source.
func NewVideoSource(n int) *rowsource.Memory {
	names, rows := VideoRows(n)
	src, err := rowsource.NewMemory(names, rows)
	if err != nil {
		panic(err)
	}
	return src
}
