//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToInt32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := Int64ToInt32(0)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), got)
	})

	t.Run("valid bounds", func(t *testing.T) {
		got, err := Int64ToInt32(math.MaxInt32)
		assert.NoError(t, err)
		assert.Equal(t, int32(math.MaxInt32), got)

		got, err = Int64ToInt32(math.MinInt32)
		assert.NoError(t, err)
		assert.Equal(t, int32(math.MinInt32), got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Int64ToInt32(math.MaxInt32 + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("invalid too small", func(t *testing.T) {
		_, err := Int64ToInt32(math.MinInt32 - 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestInt64ToInt16(t *testing.T) {
	t.Run("valid negative", func(t *testing.T) {
		got, err := Int64ToInt16(-300)
		assert.NoError(t, err)
		assert.Equal(t, int16(-300), got)
	})

	t.Run("valid max int16", func(t *testing.T) {
		got, err := Int64ToInt16(math.MaxInt16)
		assert.NoError(t, err)
		assert.Equal(t, int16(math.MaxInt16), got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Int64ToInt16(math.MaxInt16 + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("invalid too small", func(t *testing.T) {
		_, err := Int64ToInt16(math.MinInt16 - 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestIntToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("valid max uint32", func(t *testing.T) {
		got, err := IntToUint32(math.MaxUint32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := IntToUint32(math.MaxUint32 + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}
