package colstore

import "slices"

// RowBuffer stages the values of one row before Commit.
type RowBuffer struct {
	blobs   [][]byte
	floats  []float64
	ints    []int64
	strings []string
}

// Reset clears every slot.
func (b *RowBuffer) Reset() {
	clear(b.blobs)
	clear(b.floats)
	clear(b.ints)
	clear(b.strings)
}

// SetBlob stores a copy of v in slot.
func (b *RowBuffer) SetBlob(slot int, v []byte) {
	if v == nil {
		b.blobs[slot] = nil
		return
	}
	b.blobs[slot] = slices.Clone(v)
}

// SetFloat stores v in slot.
func (b *RowBuffer) SetFloat(slot int, v float64) { b.floats[slot] = v }

// SetInt stores v in slot.
func (b *RowBuffer) SetInt(slot int, v int64) { b.ints[slot] = v }

// SetString stores v in slot.
func (b *RowBuffer) SetString(slot int, v string) { b.strings[slot] = v }

func (b *RowBuffer) variableBytes() int64 {
	var n int64
	for _, v := range b.blobs {
		n += int64(len(v))
	}
	for _, v := range b.strings {
		n += int64(len(v))
	}
	return n
}
