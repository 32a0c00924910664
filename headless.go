package rendercore

// HeadlessTerm is a terminal engine driven purely by injected bytes, with
// no real pty or display — the round-trip oracle spec.md §4.7 requires:
// "replay a Presenter's output through an independent terminal
// implementation and assert the resulting grid equals the source buffer".
// Grounded on the teacher's whole Terminal type (go-headless-term's
// reason for being), reduced here to just the engine it already wraps
// since TerminalEngine now owns everything Terminal did.
type HeadlessTerm struct {
	engine *TerminalEngine
}

// NewHeadlessTerm creates a headless terminal of the given size.
func NewHeadlessTerm(rows, cols int) *HeadlessTerm {
	return &HeadlessTerm{engine: NewTerminalEngine(rows, cols)}
}

// Feed writes bytes into the terminal, returning any reply bytes the
// engine generated (device status / cursor position / DA replies).
func (h *HeadlessTerm) Feed(data []byte) []byte { return h.engine.Write(data) }

// Buffer returns the headless terminal's current grid.
func (h *HeadlessTerm) Buffer() *Buffer { return h.engine.Buffer() }

// Resize changes the headless terminal's dimensions.
func (h *HeadlessTerm) Resize(rows, cols int) { h.engine.Resize(rows, cols) }

// Lines returns the trimmed text content of every row, for quick
// human-readable comparisons in tests.
func (h *HeadlessTerm) Lines() []string {
	buf := h.Buffer()
	out := make([]string, buf.Rows())
	for r := range out {
		out[r] = buf.LineContent(r)
	}
	return out
}

// MatchesBuffer reports whether this terminal's grid is cell-identical to
// other, returning every differing position (empty, true if they match).
func (h *HeadlessTerm) MatchesBuffer(other *Buffer) (bool, []Position) {
	diffs := BufferDiff{}.Compute(h.Buffer(), other)
	return len(diffs) == 0, diffs
}
