package pagecursor

// Move describes a cursor repositioning as seen by a ReloadPolicy.
type Move struct {
	// Old is the position before the move; -1 before the first row.
	Old int
	// New is the destination row, always in [0, RowCount).
	New int
	// HighWater is the last row of the most recently loaded window.
	HighWater int
	// RowCount is the number of rows of the source.
	RowCount int
	// PageSize is the number of rows per page.
	PageSize int
}

// Consecutive reports whether the move is a single forward step.
func (m Move) Consecutive() bool { return m.New-m.Old == 1 }

// ReloadPolicy decides whether a move loads a new page starting at the
// destination row.
type ReloadPolicy interface {
	ShouldReload(m Move) bool
}

// ReloadPolicyFunc adapts a function to ReloadPolicy.
type ReloadPolicyFunc func(m Move) bool

// ShouldReload implements ReloadPolicy.
func (f ReloadPolicyFunc) ShouldReload(m Move) bool { return f(m) }

// ThresholdReload reloads on every move that is not a single forward step, and
// on a forward step whose destination is at least Threshold rows below the
// high-water mark.
//
// This is the default policy with Threshold = PageSize/2. Note that the second
// condition fires while the destination is still well inside the window, so
// with page sizes of four or more a sequential walk reloads on every step; the
// skip-cached rule keeps each row fetched only once. See PrefetchReload for the
// edge-triggered variant.
type ThresholdReload struct {
	Threshold int
}

// ShouldReload implements ReloadPolicy.
func (p ThresholdReload) ShouldReload(m Move) bool {
	return !m.Consecutive() || m.New+p.Threshold <= m.HighWater
}

// PrefetchReload reloads on every move that is not a single forward step, and
// on a forward step that comes within Threshold rows of the high-water mark,
// unless the window already reaches the last row.
//
// With Threshold 0 a sequential walk loads exactly ceil(RowCount/PageSize) pages.
type PrefetchReload struct {
	Threshold int
}

// ShouldReload implements ReloadPolicy.
func (p PrefetchReload) ShouldReload(m Move) bool {
	if !m.Consecutive() {
		return true
	}
	if m.HighWater >= m.RowCount-1 {
		return false
	}
	return m.New+p.Threshold > m.HighWater
}
