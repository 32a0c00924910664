package rendercore

// CursorStyle determines how the cursor is rendered (DECSCUSR, CSI Ps SP q).
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Charset selects a character-set slot's encoding variant (SCS, ESC ( / ) Pc).
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character-set slots (G0-G3), switched
// between by SI/SO and locking shifts.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
