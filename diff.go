package rendercore

import "github.com/cespare/xxhash/v2"

// Patch is an ordered list of (row, col, Cell) updates, strictly row-major:
// y ascending, and within a row x ascending (spec.md §3 "Patch").
type Patch struct {
	Row, Col int
	Cell     Cell
}

// BufferDiff computes the row-major list of positions (or patches) where two
// equal-dimension buffers differ, in three modes (full, dirty-row, and
// span-dirty), each available as a position list or a patch list. Grounded on the teacher's dirty-cell scan in buffer.go
// plus the row-skip hashing technique from
// _examples/other_examples/5996c8e2_charmbracelet-ultraviolet__terminal_screen.go.go's
// terminalWriter.oldhash/newhash []uint64 fields, reimplemented here with
// xxhash (a direct dependency of the y3owk1n-neru example) instead of the
// FNV-family hash ultraviolet uses internally.
type BufferDiff struct{}

// Compute scans every row of old and next (which must share dimensions),
// using a row-hash fast path to skip unchanged rows before a 4-cell-block
// cell scan, and returns every differing position in row-major order.
func (BufferDiff) Compute(old, next *Buffer) []Position {
	return diffScan(old, next, false)
}

// ComputeDirty is identical to Compute except rows where next is not marked
// dirty are assumed unchanged and skipped outright — callers must uphold the
// invariant that every mutation marks its row dirty (spec.md §4.1).
func (BufferDiff) ComputeDirty(old, next *Buffer) []Position {
	return diffScan(old, next, true)
}

func diffScan(old, next *Buffer, dirtyOnly bool) []Position {
	if old.rows != next.rows || old.cols != next.cols {
		return nil
	}
	var out []Position
	for row := 0; row < next.rows; row++ {
		if dirtyOnly && !next.dirtyRows[row] {
			continue
		}
		if rowHash(old, row) == rowHash(next, row) {
			continue
		}
		scanRowBlocks(old, next, row, func(col int) {
			out = append(out, Position{Row: row, Col: col})
		})
	}
	return out
}

// ComputePatch is Compute's sibling producing mutated Cell values instead of
// bare coordinates, for offscreen mirroring consumers (spec.md §4.2 "Patch
// emission").
func (BufferDiff) ComputePatch(old, next *Buffer) []Patch {
	if old.rows != next.rows || old.cols != next.cols {
		return nil
	}
	var out []Patch
	for row := 0; row < next.rows; row++ {
		if rowHash(old, row) == rowHash(next, row) {
			continue
		}
		scanRowBlocks(old, next, row, func(col int) {
			out = append(out, Patch{Row: row, Col: col, Cell: next.cells[next.idx(row, col)]})
		})
	}
	return out
}

// ComputePatchDirty is ComputePatch's dirty-row-restricted sibling: only
// rows next marks dirty are hashed and scanned, matching DiffModeDirty's
// cost-model assumption that clean rows cost nothing to skip.
func (BufferDiff) ComputePatchDirty(old, next *Buffer) []Patch {
	if old.rows != next.rows || old.cols != next.cols {
		return nil
	}
	var out []Patch
	for row := 0; row < next.rows; row++ {
		if !next.dirtyRows[row] {
			continue
		}
		if rowHash(old, row) == rowHash(next, row) {
			continue
		}
		scanRowBlocks(old, next, row, func(col int) {
			out = append(out, Patch{Row: row, Col: col, Cell: next.cells[next.idx(row, col)]})
		})
	}
	return out
}

// ComputePatchSpanDirty is ComputeSpanDirty's Patch-emitting sibling, used
// for DiffModeSpanDirty: scans only the recorded dirty spans of each dirty
// row, falling back to a full-row scan on span overflow.
func (BufferDiff) ComputePatchSpanDirty(old, next *Buffer) []Patch {
	if old.rows != next.rows || old.cols != next.cols {
		return nil
	}
	var out []Patch
	for row := 0; row < next.rows; row++ {
		if !next.dirtyRows[row] {
			continue
		}
		if next.overflow[row] {
			scanRowBlocks(old, next, row, func(col int) {
				out = append(out, Patch{Row: row, Col: col, Cell: next.cells[next.idx(row, col)]})
			})
			continue
		}
		for _, sp := range next.dirtySpans[row] {
			for col := sp.Start; col < sp.End; col++ {
				if old.cells[old.idx(row, col)].diffKey() != next.cells[next.idx(row, col)].diffKey() {
					out = append(out, Patch{Row: row, Col: col, Cell: next.cells[next.idx(row, col)]})
				}
			}
		}
	}
	return out
}

// ComputeSpanDirty restricts the scan within a dirty row to the union of its
// recorded dirty spans, falling back to a full-row scan on span overflow
// (spec.md §4.2 "Span-dirty (optional refinement)").
func (BufferDiff) ComputeSpanDirty(old, next *Buffer) []Position {
	if old.rows != next.rows || old.cols != next.cols {
		return nil
	}
	var out []Position
	for row := 0; row < next.rows; row++ {
		if !next.dirtyRows[row] {
			continue
		}
		if next.overflow[row] {
			scanRowBlocks(old, next, row, func(col int) {
				out = append(out, Position{Row: row, Col: col})
			})
			continue
		}
		for _, sp := range next.dirtySpans[row] {
			for col := sp.Start; col < sp.End; col++ {
				if old.cells[old.idx(row, col)].diffKey() != next.cells[next.idx(row, col)].diffKey() {
					out = append(out, Position{Row: row, Col: col})
				}
			}
		}
	}
	return out
}

// rowHash hashes a row's raw Cell bytes for the row-equality fast path.
// Content is included via its diffKey fields flattened into a byte buffer;
// two rows with an identical hash are treated as equal without a cell scan.
func rowHash(b *Buffer, row int) uint64 {
	h := xxhash.New()
	start := b.idx(row, 0)
	rowCells := b.cells[start : start+b.cols]
	buf := make([]byte, 0, 32)
	for _, c := range rowCells {
		k := c.diffKey()
		buf = buf[:0]
		buf = appendUint64(buf, k.contentWidthFlags)
		buf = appendUint64(buf, colorBits(k.fg))
		buf = appendUint64(buf, colorBits(k.bg))
		buf = appendUint64(buf, k.linkAttrs)
		buf = appendUint64(buf, colorBits(k.underline))
		buf = appendUint64(buf, uint64(k.marks))
		h.Write(buf)
	}
	return h.Sum64()
}

func colorBits(c Color) uint64 {
	return uint64(c.Kind)<<40 | uint64(c.Index)<<32 | uint64(c.R)<<16 | uint64(c.G)<<8 | uint64(c.B)
}

func appendUint64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// scanRowBlocks compares a row cell-by-cell in 4-cell blocks plus remainder
// (spec.md §4.2 "mismatched rows are scanned cell-by-cell in 4-cell blocks
// plus remainder"), invoking emit(col) for every differing column in
// ascending order.
func scanRowBlocks(old, next *Buffer, row int, emit func(col int)) {
	cols := next.cols
	oldBase := old.idx(row, 0)
	newBase := next.idx(row, 0)
	col := 0
	for ; col+4 <= cols; col += 4 {
		for i := 0; i < 4; i++ {
			c := col + i
			if old.cells[oldBase+c].diffKey() != next.cells[newBase+c].diffKey() {
				emit(c)
			}
		}
	}
	for ; col < cols; col++ {
		if old.cells[oldBase+col].diffKey() != next.cells[newBase+col].diffKey() {
			emit(col)
		}
	}
}
