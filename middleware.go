package rendercore

// Middleware intercepts TerminalEngine.Apply calls per action kind,
// letting callers observe or override behavior before the default handling
// runs. Each field wraps one action kind: receive the original payload and
// a next function that invokes the default engine behavior. Grounded on
// the teacher's middleware.go (one field per ansicode.Handler method,
// wrapping each in a before/next pattern); this repo's Action union is far
// smaller than go-ansicode's Handler interface, so the field set shrinks to
// match while keeping the same wrapping idiom.
type Middleware struct {
	// Print wraps character output.
	Print func(r rune, next func(rune))

	// Bell wraps BEL handling.
	Bell func(next func())

	// Newline wraps line-feed handling.
	Newline func(next func())

	// CarriageReturn wraps CR handling.
	CarriageReturn func(next func())

	// Tab wraps horizontal-tab handling.
	Tab func(next func())

	// CursorPosition wraps absolute cursor placement (CUP/HVP).
	CursorPosition func(row, col int, next func(int, int))

	// CursorMove wraps relative cursor motion (CUU/CUD/CUF/CUB).
	CursorMove func(dir CursorDir, n int, next func(CursorDir, int))

	// SaveCursor wraps DECSC.
	SaveCursor func(next func())

	// RestoreCursor wraps DECRC.
	RestoreCursor func(next func())

	// EraseInDisplay wraps ED.
	EraseInDisplay func(kind int, next func(int))

	// EraseInLine wraps EL.
	EraseInLine func(kind int, next func(int))

	// EraseCharacter wraps ECH.
	EraseCharacter func(n int, next func(int))

	// InsertLine wraps IL.
	InsertLine func(n int, next func(int))

	// DeleteLine wraps DL.
	DeleteLine func(n int, next func(int))

	// InsertCharacter wraps ICH.
	InsertCharacter func(n int, next func(int))

	// DeleteCharacter wraps DCH.
	DeleteCharacter func(n int, next func(int))

	// ScrollUp wraps SU.
	ScrollUp func(n int, next func(int))

	// ScrollDown wraps SD.
	ScrollDown func(n int, next func(int))

	// SetScrollRegion wraps DECSTBM.
	SetScrollRegion func(top, bottom int, next func(int, int))

	// SetGraphicRendition wraps SGR.
	SetGraphicRendition func(ops []SgrOp, next func([]SgrOp))

	// SetMode wraps SM/DECSET.
	SetMode func(private bool, code int, next func(bool, int))

	// ResetMode wraps RM/DECRST.
	ResetMode func(private bool, code int, next func(bool, int))

	// OscHyperlink wraps OSC 8.
	OscHyperlink func(params, uri string, next func(string, string))

	// OscTitle wraps OSC 0/1/2.
	OscTitle func(title string, next func(string))

	// OscClipboard wraps OSC 52.
	OscClipboard func(sel byte, b64 string, next func(byte, string))

	// DcsPassthrough wraps DCS strings.
	DcsPassthrough func(data []byte, next func([]byte))

	// TerminalQuery wraps status/identification queries.
	TerminalQuery func(query TerminalQueryKind, modeCode int, next func(TerminalQueryKind, int))
}

// Merge copies non-nil middleware functions from other into m, overwriting
// existing values — used to layer several middleware sources (e.g. a
// logging layer plus a test-recording layer) onto one engine.
func (m *Middleware) Merge(other *Middleware) {
	if other == nil {
		return
	}
	if other.Print != nil {
		m.Print = other.Print
	}
	if other.Bell != nil {
		m.Bell = other.Bell
	}
	if other.Newline != nil {
		m.Newline = other.Newline
	}
	if other.CarriageReturn != nil {
		m.CarriageReturn = other.CarriageReturn
	}
	if other.Tab != nil {
		m.Tab = other.Tab
	}
	if other.CursorPosition != nil {
		m.CursorPosition = other.CursorPosition
	}
	if other.CursorMove != nil {
		m.CursorMove = other.CursorMove
	}
	if other.SaveCursor != nil {
		m.SaveCursor = other.SaveCursor
	}
	if other.RestoreCursor != nil {
		m.RestoreCursor = other.RestoreCursor
	}
	if other.EraseInDisplay != nil {
		m.EraseInDisplay = other.EraseInDisplay
	}
	if other.EraseInLine != nil {
		m.EraseInLine = other.EraseInLine
	}
	if other.EraseCharacter != nil {
		m.EraseCharacter = other.EraseCharacter
	}
	if other.InsertLine != nil {
		m.InsertLine = other.InsertLine
	}
	if other.DeleteLine != nil {
		m.DeleteLine = other.DeleteLine
	}
	if other.InsertCharacter != nil {
		m.InsertCharacter = other.InsertCharacter
	}
	if other.DeleteCharacter != nil {
		m.DeleteCharacter = other.DeleteCharacter
	}
	if other.ScrollUp != nil {
		m.ScrollUp = other.ScrollUp
	}
	if other.ScrollDown != nil {
		m.ScrollDown = other.ScrollDown
	}
	if other.SetScrollRegion != nil {
		m.SetScrollRegion = other.SetScrollRegion
	}
	if other.SetGraphicRendition != nil {
		m.SetGraphicRendition = other.SetGraphicRendition
	}
	if other.SetMode != nil {
		m.SetMode = other.SetMode
	}
	if other.ResetMode != nil {
		m.ResetMode = other.ResetMode
	}
	if other.OscHyperlink != nil {
		m.OscHyperlink = other.OscHyperlink
	}
	if other.OscTitle != nil {
		m.OscTitle = other.OscTitle
	}
	if other.OscClipboard != nil {
		m.OscClipboard = other.OscClipboard
	}
	if other.DcsPassthrough != nil {
		m.DcsPassthrough = other.DcsPassthrough
	}
	if other.TerminalQuery != nil {
		m.TerminalQuery = other.TerminalQuery
	}
}
