package rendercore

import "testing"

func TestNewBuffer(t *testing.T) {
	b := NewBuffer(24, 80)
	if b.Rows() != 24 {
		t.Errorf("expected 24 rows, got %d", b.Rows())
	}
	if b.Cols() != 80 {
		t.Errorf("expected 80 cols, got %d", b.Cols())
	}
}

func TestBufferGetSet(t *testing.T) {
	b := NewBuffer(24, 80)

	cell, ok := b.Get(0, 0)
	if !ok {
		t.Fatal("expected cell at (0,0)")
	}
	if cell.Content != ' ' {
		t.Errorf("expected blank cell, got %q", cell.Content)
	}

	b.Set(0, 0, Cell{Content: 'A', Width: 1})
	got, _ := b.Get(0, 0)
	if got.Content != 'A' {
		t.Errorf("expected 'A', got %q", got.Content)
	}
}

func TestBufferGetOutOfBounds(t *testing.T) {
	b := NewBuffer(24, 80)

	cases := [][2]int{{-1, 0}, {0, -1}, {24, 0}, {0, 80}}
	for _, c := range cases {
		if _, ok := b.Get(c[0], c[1]); ok {
			t.Errorf("expected out-of-bounds miss for (%d,%d)", c[0], c[1])
		}
	}
}

func TestBufferClearRow(t *testing.T) {
	b := NewBuffer(24, 80)
	b.Set(0, 0, Cell{Content: 'A', Width: 1})
	b.Set(0, 1, Cell{Content: 'B', Width: 1})

	b.ClearRow(0)

	c0, _ := b.Get(0, 0)
	c1, _ := b.Get(0, 1)
	if c0.Content != ' ' || c1.Content != ' ' {
		t.Error("expected row cleared to blanks")
	}
	if !b.IsRowDirty(0) || !b.RowOverflowed(0) {
		t.Error("expected ClearRow to mark the row fully dirty")
	}
}

func TestBufferScrollUp(t *testing.T) {
	b := NewBuffer(5, 10)
	for row := 0; row < 5; row++ {
		b.Set(row, 0, Cell{Content: rune('0' + row), Width: 1})
	}

	b.ScrollUp(0, 5, 1)

	c, _ := b.Get(0, 0)
	if c.Content != '1' {
		t.Errorf("expected '1', got %q", c.Content)
	}
	last, _ := b.Get(4, 0)
	if last.Content != ' ' {
		t.Errorf("expected blank bottom row, got %q", last.Content)
	}
}

func TestBufferScrollDown(t *testing.T) {
	b := NewBuffer(5, 10)
	for row := 0; row < 5; row++ {
		b.Set(row, 0, Cell{Content: rune('0' + row), Width: 1})
	}

	b.ScrollDown(0, 5, 1)

	c, _ := b.Get(1, 0)
	if c.Content != '0' {
		t.Errorf("expected '0', got %q", c.Content)
	}
	first, _ := b.Get(0, 0)
	if first.Content != ' ' {
		t.Errorf("expected blank top row, got %q", first.Content)
	}
}

func TestBufferLineContent(t *testing.T) {
	b := NewBuffer(24, 80)
	for i, r := range "Hello" {
		b.Set(0, i, Cell{Content: r, Width: 1})
	}

	if got := b.LineContent(0); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}
}

func TestBufferLineContentSkipsWideContinuation(t *testing.T) {
	b := NewBuffer(1, 10)
	leading, cont := WidePair('界', SgrAttrs{})
	b.Set(0, 0, leading)
	b.Set(0, 1, cont)
	b.Set(0, 2, Cell{Content: '!', Width: 1})

	if got := b.LineContent(0); got != "界!" {
		t.Errorf("expected %q, got %q", "界!", got)
	}
}

func TestBufferTabStops(t *testing.T) {
	b := NewBuffer(24, 80)

	if next := b.NextTabStop(0); next != 8 {
		t.Errorf("expected next tab at 8, got %d", next)
	}
	if next := b.NextTabStop(8); next != 16 {
		t.Errorf("expected next tab at 16, got %d", next)
	}
	if prev := b.PrevTabStop(16); prev != 8 {
		t.Errorf("expected prev tab at 8, got %d", prev)
	}
}

func TestBufferResize(t *testing.T) {
	b := NewBuffer(10, 20)
	b.Set(0, 0, Cell{Content: 'A', Width: 1})
	b.Set(5, 10, Cell{Content: 'B', Width: 1})

	b.Resize(20, 40)

	if b.Rows() != 20 || b.Cols() != 40 {
		t.Errorf("expected 20x40, got %dx%d", b.Rows(), b.Cols())
	}
	c0, _ := b.Get(0, 0)
	c1, _ := b.Get(5, 10)
	if c0.Content != 'A' || c1.Content != 'B' {
		t.Error("expected content preserved across resize")
	}
	for row := 0; row < b.Rows(); row++ {
		if !b.IsRowDirty(row) {
			t.Errorf("expected row %d dirty after resize", row)
		}
	}
}

func TestBufferDirtyTrackingAndSpans(t *testing.T) {
	b := NewBuffer(24, 80)
	b.ClearDirty()

	if b.HasDirty() {
		t.Error("expected no dirty rows after ClearDirty")
	}

	b.Set(0, 5, Cell{Content: 'x', Width: 1})

	if !b.HasDirty() || !b.IsRowDirty(0) {
		t.Error("expected row 0 dirty after Set")
	}
	spans := b.DirtySpans(0)
	if len(spans) != 1 || spans[0] != (Span{Start: 5, End: 6}) {
		t.Errorf("expected single span [5,6), got %v", spans)
	}
}

func TestBufferSpanOverflowPromotesFullRowDirty(t *testing.T) {
	b := NewBuffer(1, 80)
	b.ClearDirty()

	// touch maxSpansPerRow+1 disjoint columns, two apart so spans don't merge.
	for i := 0; i <= maxSpansPerRow; i++ {
		b.Set(0, i*2, Cell{Content: 'x', Width: 1})
	}

	if !b.RowOverflowed(0) {
		t.Error("expected row to overflow to fully dirty")
	}
	spans := b.DirtySpans(0)
	if len(spans) != 1 || spans[0] != (Span{Start: 0, End: 80}) {
		t.Errorf("expected overflowed row to report one full-width span, got %v", spans)
	}
}

func TestBufferInsertBlanks(t *testing.T) {
	b := NewBuffer(24, 80)
	b.Set(0, 0, Cell{Content: 'A', Width: 1})
	b.Set(0, 1, Cell{Content: 'B', Width: 1})
	b.Set(0, 2, Cell{Content: 'C', Width: 1})

	b.InsertBlanks(0, 1, 2)

	c0, _ := b.Get(0, 0)
	c1, _ := b.Get(0, 1)
	c2, _ := b.Get(0, 2)
	c3, _ := b.Get(0, 3)
	if c0.Content != 'A' || c1.Content != ' ' || c2.Content != ' ' || c3.Content != 'B' {
		t.Errorf("unexpected row after InsertBlanks: %c %c %c %c", c0.Content, c1.Content, c2.Content, c3.Content)
	}
}

func TestBufferDeleteChars(t *testing.T) {
	b := NewBuffer(24, 80)
	b.Set(0, 0, Cell{Content: 'A', Width: 1})
	b.Set(0, 1, Cell{Content: 'B', Width: 1})
	b.Set(0, 2, Cell{Content: 'C', Width: 1})
	b.Set(0, 3, Cell{Content: 'D', Width: 1})

	b.DeleteChars(0, 1, 2)

	c0, _ := b.Get(0, 0)
	c1, _ := b.Get(0, 1)
	if c0.Content != 'A' || c1.Content != 'D' {
		t.Errorf("expected A,D got %c,%c", c0.Content, c1.Content)
	}
}

func TestBufferWrappedLineTracking(t *testing.T) {
	b := NewBuffer(5, 10)

	if b.IsWrapped(0) {
		t.Error("expected line 0 not wrapped initially")
	}
	b.SetWrapped(0, true)
	if !b.IsWrapped(0) {
		t.Error("expected line 0 wrapped")
	}
	b.SetWrapped(0, false)
	if b.IsWrapped(0) {
		t.Error("expected line 0 not wrapped after clear")
	}

	// out of bounds must not panic
	b.SetWrapped(-1, true)
	b.SetWrapped(100, true)
	if b.IsWrapped(-1) || b.IsWrapped(100) {
		t.Error("expected false for out-of-bounds rows")
	}
}

func TestBufferWrappedLineTrackingWithScroll(t *testing.T) {
	b := NewBuffer(5, 10)
	b.SetWrapped(0, true)
	b.SetWrapped(1, false)
	b.SetWrapped(2, true)

	b.ScrollUp(0, 5, 1)

	if b.IsWrapped(0) {
		t.Error("expected row 0 (was row 1) not wrapped after scroll")
	}
	if !b.IsWrapped(1) {
		t.Error("expected row 1 (was row 2) wrapped after scroll")
	}
	if b.IsWrapped(4) {
		t.Error("expected new bottom row not wrapped")
	}
}
