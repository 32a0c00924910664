package rendercore

import "encoding/base64"

// TerminalEngine owns the live terminal state — grid, cursor, pen (current
// SGR attributes for new writes), saved cursor, scroll region, modes, and
// the supporting registries — and applies parsed Actions to it. Grounded on
// the teacher's terminal.go + handler.go (Terminal.feedByte dispatch and
// Handler's CSI/OSC callback methods), generalized from the teacher's
// ScrollbackProvider-backed cell model to this repo's Buffer/Cell/Action
// types (spec.md §4.4 "TerminalEngine").
type TerminalEngine struct {
	buf     *Buffer
	altBuf  *Buffer
	mainBuf *Buffer

	cursorRow, cursorCol int
	pendingWrap          bool

	savedRow, savedCol   int
	savedPen             SgrAttrs
	savedOriginMode      bool
	savedActiveCharset   CharsetIndex
	savedCharsets        [4]Charset

	pen SgrAttrs

	cursorStyle   CursorStyle
	activeCharset CharsetIndex
	charsets      [4]Charset

	scrollTop, scrollBottom int

	modes Modes

	links     *LinkRegistry
	graphemes *GraphemePool
	parser    *Parser
	reply     ReplyEngine
	width     *WidthPolicy

	pendingLinkURI string

	bell      BellProvider
	title     TitleProvider
	clipboard ClipboardProvider
	recorder  RecordingProvider

	mw *Middleware

	evidence *EvidenceSink
}

// SetEvidenceSink attaches a sink that records one JSONL line per reply the
// engine sends back (spec.md §6 "JSONL evidence": "every reply ... gets a
// JSONL event"). Capability-downgrade events are recorded by Presenter
// itself; see Presenter.SetEvidenceSink.
func (e *TerminalEngine) SetEvidenceSink(sink *EvidenceSink) {
	e.evidence = sink
}

// NewTerminalEngine creates an engine over a fresh rows x cols grid with
// power-on default modes and a full-height scroll region.
func NewTerminalEngine(rows, cols int) *TerminalEngine {
	main := NewBuffer(rows, cols)
	e := &TerminalEngine{
		buf:           main,
		mainBuf:       main,
		scrollBottom:  rows - 1,
		modes:         NewModes(),
		links:         NewLinkRegistry(),
		graphemes:     NewGraphemePool(),
		parser:        NewParser(),
		width:         DefaultWidthPolicy(),
		bell:          NoopBell{},
		title:         NoopTitle{},
		clipboard:     NoopClipboard{},
		recorder:      NoopRecording{},
	}
	return e
}

// SetBellProvider installs the hook invoked on BEL (0x07).
func (e *TerminalEngine) SetBellProvider(p BellProvider) { e.bell = p }

// SetTitleProvider installs the hook invoked on OSC 0/1/2.
func (e *TerminalEngine) SetTitleProvider(p TitleProvider) { e.title = p }

// SetClipboardProvider installs the hook invoked on OSC 52.
func (e *TerminalEngine) SetClipboardProvider(p ClipboardProvider) { e.clipboard = p }

// SetRecordingProvider installs a raw-byte recorder invoked on every Write.
func (e *TerminalEngine) SetRecordingProvider(p RecordingProvider) { e.recorder = p }

// Buffer returns the currently active grid (main or alt screen).
func (e *TerminalEngine) Buffer() *Buffer { return e.buf }

// CursorPosition returns the current 0-indexed cursor row and column.
func (e *TerminalEngine) CursorPosition() (int, int) { return e.cursorRow, e.cursorCol }

// Modes returns the engine's current DEC/ANSI mode state.
func (e *TerminalEngine) Modes() Modes { return e.modes }

// Links returns the engine's hyperlink registry.
func (e *TerminalEngine) Links() *LinkRegistry { return e.links }

// CursorStyle returns the cursor rendering style last set via DECSCUSR.
func (e *TerminalEngine) CursorStyle() CursorStyle { return e.cursorStyle }

// ActiveCharset returns which of the four designated charset slots (G0-G3,
// though only G0/G1 are ever designated by this engine) is currently
// selected for character translation.
func (e *TerminalEngine) ActiveCharset() CharsetIndex { return e.activeCharset }

// Charsets returns the charset currently designated into each of the four
// slots.
func (e *TerminalEngine) Charsets() [4]Charset { return e.charsets }

// Graphemes returns the engine's combining-mark interning pool, for
// presenters that need to re-expand Cell.Marks back into full grapheme
// clusters when emitting cell content.
func (e *TerminalEngine) Graphemes() *GraphemePool { return e.graphemes }

// Write feeds raw bytes through the parser and applies every resulting
// action, returning the concatenated reply bytes (if any) that should be
// written back to the application (spec.md §4.4 "Contract").
func (e *TerminalEngine) Write(data []byte) []byte {
	e.recorder.Record(data)
	actions := e.parser.Feed(data)
	var replies []byte
	for _, a := range actions {
		if r := e.Apply(a); r != nil {
			replies = append(replies, r...)
		}
	}
	return replies
}

// SetMiddleware installs an interception layer consulted by Apply before
// each action's default handling runs. Pass nil to remove it.
func (e *TerminalEngine) SetMiddleware(mw *Middleware) { e.mw = mw }

// Apply applies a single action to engine state, returning reply bytes for
// TerminalQuery actions (nil otherwise). When a middleware is installed and
// defines a hook for a.Kind, that hook runs instead of the default handling
// and must call its next function to get the default behavior.
func (e *TerminalEngine) Apply(a Action) []byte {
	if e.mw != nil {
		if out, handled := e.applyMiddleware(a); handled {
			return out
		}
	}
	return e.applyDefault(a)
}

// applyMiddleware dispatches a to the matching Middleware field, if any is
// set; handled reports whether a hook existed (and thus out is final).
func (e *TerminalEngine) applyMiddleware(a Action) (out []byte, handled bool) {
	switch a.Kind {
	case ActPrint:
		if e.mw.Print == nil {
			return nil, false
		}
		e.mw.Print(a.Rune, func(r rune) { e.applyDefault(Action{Kind: ActPrint, Rune: r}) })
	case ActBell:
		if e.mw.Bell == nil {
			return nil, false
		}
		e.mw.Bell(func() { e.applyDefault(a) })
	case ActNewline:
		if e.mw.Newline == nil {
			return nil, false
		}
		e.mw.Newline(func() { e.applyDefault(a) })
	case ActCarriageReturn:
		if e.mw.CarriageReturn == nil {
			return nil, false
		}
		e.mw.CarriageReturn(func() { e.applyDefault(a) })
	case ActTab:
		if e.mw.Tab == nil {
			return nil, false
		}
		e.mw.Tab(func() { e.applyDefault(a) })
	case ActCursorPosition:
		if e.mw.CursorPosition == nil {
			return nil, false
		}
		e.mw.CursorPosition(a.Row, a.Col, func(row, col int) { e.applyDefault(Action{Kind: ActCursorPosition, Row: row, Col: col}) })
	case ActCursorMove:
		if e.mw.CursorMove == nil {
			return nil, false
		}
		e.mw.CursorMove(a.Dir, a.N, func(dir CursorDir, n int) { e.applyDefault(Action{Kind: ActCursorMove, Dir: dir, N: n}) })
	case ActSaveCursor:
		if e.mw.SaveCursor == nil {
			return nil, false
		}
		e.mw.SaveCursor(func() { e.applyDefault(a) })
	case ActRestoreCursor:
		if e.mw.RestoreCursor == nil {
			return nil, false
		}
		e.mw.RestoreCursor(func() { e.applyDefault(a) })
	case ActEraseInDisplay:
		if e.mw.EraseInDisplay == nil {
			return nil, false
		}
		e.mw.EraseInDisplay(a.EraseKind, func(k int) { e.applyDefault(Action{Kind: ActEraseInDisplay, EraseKind: k}) })
	case ActEraseInLine:
		if e.mw.EraseInLine == nil {
			return nil, false
		}
		e.mw.EraseInLine(a.EraseKind, func(k int) { e.applyDefault(Action{Kind: ActEraseInLine, EraseKind: k}) })
	case ActEraseCharacter:
		if e.mw.EraseCharacter == nil {
			return nil, false
		}
		e.mw.EraseCharacter(a.N, func(n int) { e.applyDefault(Action{Kind: ActEraseCharacter, N: n}) })
	case ActInsertLine:
		if e.mw.InsertLine == nil {
			return nil, false
		}
		e.mw.InsertLine(a.N, func(n int) { e.applyDefault(Action{Kind: ActInsertLine, N: n}) })
	case ActDeleteLine:
		if e.mw.DeleteLine == nil {
			return nil, false
		}
		e.mw.DeleteLine(a.N, func(n int) { e.applyDefault(Action{Kind: ActDeleteLine, N: n}) })
	case ActInsertCharacter:
		if e.mw.InsertCharacter == nil {
			return nil, false
		}
		e.mw.InsertCharacter(a.N, func(n int) { e.applyDefault(Action{Kind: ActInsertCharacter, N: n}) })
	case ActDeleteCharacter:
		if e.mw.DeleteCharacter == nil {
			return nil, false
		}
		e.mw.DeleteCharacter(a.N, func(n int) { e.applyDefault(Action{Kind: ActDeleteCharacter, N: n}) })
	case ActScrollUp:
		if e.mw.ScrollUp == nil {
			return nil, false
		}
		e.mw.ScrollUp(a.N, func(n int) { e.applyDefault(Action{Kind: ActScrollUp, N: n}) })
	case ActScrollDown:
		if e.mw.ScrollDown == nil {
			return nil, false
		}
		e.mw.ScrollDown(a.N, func(n int) { e.applyDefault(Action{Kind: ActScrollDown, N: n}) })
	case ActSetScrollRegion:
		if e.mw.SetScrollRegion == nil {
			return nil, false
		}
		e.mw.SetScrollRegion(a.Row, a.Col, func(top, bottom int) { e.applyDefault(Action{Kind: ActSetScrollRegion, Row: top, Col: bottom}) })
	case ActSetGraphicRendition:
		if e.mw.SetGraphicRendition == nil {
			return nil, false
		}
		e.mw.SetGraphicRendition(a.SgrOps, func(ops []SgrOp) { e.applyDefault(Action{Kind: ActSetGraphicRendition, SgrOps: ops}) })
	case ActSetMode:
		if e.mw.SetMode == nil {
			return nil, false
		}
		e.mw.SetMode(a.ModePrivate, a.ModeCode, func(private bool, code int) {
			e.applyDefault(Action{Kind: ActSetMode, ModePrivate: private, ModeCode: code})
		})
	case ActResetMode:
		if e.mw.ResetMode == nil {
			return nil, false
		}
		e.mw.ResetMode(a.ModePrivate, a.ModeCode, func(private bool, code int) {
			e.applyDefault(Action{Kind: ActResetMode, ModePrivate: private, ModeCode: code})
		})
	case ActOscHyperlink:
		if e.mw.OscHyperlink == nil {
			return nil, false
		}
		e.mw.OscHyperlink(a.OscParams, a.OscURI, func(params, uri string) {
			e.applyDefault(Action{Kind: ActOscHyperlink, OscParams: params, OscURI: uri})
		})
	case ActOscTitle:
		if e.mw.OscTitle == nil {
			return nil, false
		}
		e.mw.OscTitle(a.OscText, func(title string) { e.applyDefault(Action{Kind: ActOscTitle, OscText: title}) })
	case ActOscClipboard:
		if e.mw.OscClipboard == nil {
			return nil, false
		}
		e.mw.OscClipboard(a.ClipboardSel, a.ClipboardB64, func(sel byte, b64 string) {
			e.applyDefault(Action{Kind: ActOscClipboard, ClipboardSel: sel, ClipboardB64: b64})
		})
	case ActDcsPassthrough:
		if e.mw.DcsPassthrough == nil {
			return nil, false
		}
		e.mw.DcsPassthrough(a.DcsBytes, func(data []byte) { e.applyDefault(Action{Kind: ActDcsPassthrough, DcsBytes: data}) })
	case ActTerminalQuery:
		if e.mw.TerminalQuery == nil {
			return nil, false
		}
		e.mw.TerminalQuery(a.Query, a.ModeCode, func(q TerminalQueryKind, code int) {
			out = e.applyDefault(Action{Kind: ActTerminalQuery, Query: q, ModeCode: code})
		})
	default:
		return nil, false
	}
	return out, true
}

// applyDefault is the engine's built-in handling for every action kind,
// bypassing any installed middleware.
func (e *TerminalEngine) applyDefault(a Action) []byte {
	switch a.Kind {
	case ActPrint:
		e.applyPrint(a.Rune)
	case ActNewline:
		e.applyNewline()
	case ActCarriageReturn:
		e.cursorCol = 0
		e.pendingWrap = false
	case ActTab:
		e.cursorCol = e.buf.NextTabStop(e.cursorCol)
		e.pendingWrap = false
	case ActBackspace:
		if e.cursorCol > 0 {
			e.cursorCol--
		}
		e.pendingWrap = false
	case ActBell:
		e.bell.Ring()
	case ActCursorPosition:
		e.setCursorPosition(a.Row, a.Col)
	case ActCursorMove:
		e.applyCursorMove(a.Dir, a.N)
	case ActSaveCursor:
		e.savedRow, e.savedCol = e.cursorRow, e.cursorCol
		e.savedPen = e.pen
		e.savedOriginMode = e.modes.OriginMode()
		e.savedActiveCharset = e.activeCharset
		e.savedCharsets = e.charsets
	case ActRestoreCursor:
		e.cursorRow, e.cursorCol = e.savedRow, e.savedCol
		e.pen = e.savedPen
		e.modes.setDecFlag(DecOrigin, e.savedOriginMode)
		e.activeCharset = e.savedActiveCharset
		e.charsets = e.savedCharsets
		e.pendingWrap = false
	case ActEraseInDisplay:
		e.applyEraseInDisplay(a.EraseKind)
	case ActEraseInLine:
		e.applyEraseInLine(a.EraseKind)
	case ActEraseCharacter:
		n := a.N
		if n < 1 {
			n = 1
		}
		e.buf.ClearRowRangeWithBg(e.cursorRow, e.cursorCol, e.cursorCol+n, e.pen.Bg)
	case ActInsertLine:
		e.applyInsertLine(a.N)
	case ActDeleteLine:
		e.applyDeleteLine(a.N)
	case ActInsertCharacter:
		n := a.N
		if n < 1 {
			n = 1
		}
		e.buf.InsertBlanks(e.cursorRow, e.cursorCol, n)
	case ActDeleteCharacter:
		n := a.N
		if n < 1 {
			n = 1
		}
		e.buf.DeleteChars(e.cursorRow, e.cursorCol, n)
	case ActScrollUp:
		n := a.N
		if n < 1 {
			n = 1
		}
		e.buf.ScrollUp(e.scrollTop, e.scrollBottom+1, n)
	case ActScrollDown:
		n := a.N
		if n < 1 {
			n = 1
		}
		e.buf.ScrollDown(e.scrollTop, e.scrollBottom+1, n)
	case ActSetScrollRegion:
		e.applySetScrollRegion(a.Row, a.Col)
	case ActSetGraphicRendition:
		e.applySGR(a.SgrOps)
	case ActSetMode:
		e.applyMode(a.ModePrivate, a.ModeCode, true)
	case ActResetMode:
		e.applyMode(a.ModePrivate, a.ModeCode, false)
	case ActOscHyperlink:
		e.applyOscHyperlink(a.OscURI)
	case ActOscTitle:
		e.title.SetTitle(a.OscText)
	case ActOscClipboard:
		e.applyOscClipboard(a.ClipboardSel, a.ClipboardB64)
	case ActDcsPassthrough:
		// device control strings (e.g. termcap queries) are acknowledged
		// implicitly; this core has no terminfo database to answer from.
	case ActTerminalQuery:
		reply := e.reply.Reply(a.Query, a.ModeCode, ReplyContext{
			CursorRow: e.cursorRow, CursorCol: e.cursorCol, Modes: e.modes,
		})
		if e.evidence != nil && reply != nil {
			e.evidence.Write(EvidenceRecord{DiffMode: "reply", BytesEmitted: len(reply)})
		}
		return reply
	case ActSetCursorStyle:
		e.cursorStyle = a.Style
	case ActDesignateCharset:
		if int(a.CharsetSlot) < len(e.charsets) {
			e.charsets[a.CharsetSlot] = a.CharsetValue
		}
	case ActShiftOut:
		e.activeCharset = CharsetIndexG1
	case ActShiftIn:
		e.activeCharset = CharsetIndexG0
	}
	return nil
}

func (e *TerminalEngine) applyPrint(r rune) {
	if int(e.activeCharset) < len(e.charsets) && e.charsets[e.activeCharset] == CharsetLineDrawing {
		r = translateLineDrawing(r)
	}
	w := e.width.CharWidth(r)
	if w == 0 && e.mergeCombiningMark(r) {
		return
	}
	if e.pendingWrap {
		e.buf.SetWrapped(e.cursorRow, true)
		e.advanceLine()
		e.cursorCol = 0
		e.pendingWrap = false
	}
	if w <= 0 {
		w = 1
	}
	cell := Cell{Content: r, Width: uint8(w), Attrs: e.pen}
	if e.pendingLinkURI != "" {
		cell.Hyperlink = e.links.Register(e.pendingLinkURI)
	}
	if w == 2 {
		if e.cursorCol+1 >= e.buf.Cols() {
			if !e.modes.Autowrap() {
				// Can't fit a wide character at the end of the line with
				// autowrap off: drop it, matching the teacher's
				// inputInternal (`if width == 2 { return }`) rather than
				// padding and wrapping anyway.
				return
			}
			// not enough room for a wide char: pad and wrap first.
			e.buf.Set(e.cursorRow, e.cursorCol, BlankCell())
			e.buf.SetWrapped(e.cursorRow, true)
			e.advanceLine()
			e.cursorCol = 0
		}
		leading, cont := WidePair(r, e.pen)
		leading.Hyperlink, cont.Hyperlink = cell.Hyperlink, cell.Hyperlink
		e.buf.Set(e.cursorRow, e.cursorCol, leading)
		e.buf.Set(e.cursorRow, e.cursorCol+1, cont)
		e.cursorCol += 2
	} else {
		e.buf.Set(e.cursorRow, e.cursorCol, cell)
		e.cursorCol++
	}
	if e.cursorCol >= e.buf.Cols() {
		if e.modes.Autowrap() {
			e.cursorCol = e.buf.Cols() - 1
			e.pendingWrap = true
		} else {
			e.cursorCol = e.buf.Cols() - 1
		}
	}
}

// mergeCombiningMark attaches a zero-width combining mark to the previously
// printed cell instead of occupying its own column, interning the updated
// mark suffix via the engine's GraphemePool. Returns false (no merge
// possible) at the start of a row or on a still-blank cell, in which case
// the caller falls back to printing the mark as an ordinary width-1 cell.
func (e *TerminalEngine) mergeCombiningMark(mark rune) bool {
	row, col := e.cursorRow, e.cursorCol
	if e.pendingWrap {
		col++
	}
	if col <= 0 {
		return false
	}
	col--
	prev, ok := e.buf.Get(row, col)
	if !ok {
		return false
	}
	if prev.IsWideContinuation() {
		if col == 0 {
			return false
		}
		col--
		prev, ok = e.buf.Get(row, col)
		if !ok {
			return false
		}
	}
	if prev.Content == 0 || prev.Content == ' ' {
		return false
	}
	marks := e.graphemes.Lookup(prev.Marks) + string(mark)
	prev.Marks = e.graphemes.Intern(marks)
	e.buf.Set(row, col, prev)
	return true
}

// translateLineDrawing maps an ASCII byte to its DEC Special Graphics glyph
// when the active charset slot is CharsetLineDrawing (ESC ( 0 / ESC ) 0).
// Grounded on the teacher's Terminal.translateLineDrawing table.
func translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

func (e *TerminalEngine) applyNewline() {
	e.advanceLine()
	if e.modes.Ansi&AnsiLinefeedNewline != 0 {
		e.cursorCol = 0
	}
	e.pendingWrap = false
}

// advanceLine moves the cursor down one row, scrolling the active region
// when it is already on the last line of the scroll region.
func (e *TerminalEngine) advanceLine() {
	if e.cursorRow == e.scrollBottom {
		e.buf.ScrollUp(e.scrollTop, e.scrollBottom+1, 1)
		return
	}
	if e.cursorRow < e.buf.Rows()-1 {
		e.cursorRow++
	}
}

func (e *TerminalEngine) setCursorPosition(row, col int) {
	top, bottom := 0, e.buf.Rows()-1
	if e.modes.OriginMode() {
		top, bottom = e.scrollTop, e.scrollBottom
		row += top
	}
	e.cursorRow = clampInt(row, top, bottom)
	e.cursorCol = clampInt(col, 0, e.buf.Cols()-1)
	e.pendingWrap = false
}

func (e *TerminalEngine) applyCursorMove(dir CursorDir, n int) {
	if n < 1 {
		n = 1
	}
	switch dir {
	case DirUp:
		e.cursorRow = clampInt(e.cursorRow-n, 0, e.buf.Rows()-1)
	case DirDown:
		e.cursorRow = clampInt(e.cursorRow+n, 0, e.buf.Rows()-1)
	case DirForward:
		e.cursorCol = clampInt(e.cursorCol+n, 0, e.buf.Cols()-1)
	case DirBack:
		e.cursorCol = clampInt(e.cursorCol-n, 0, e.buf.Cols()-1)
	}
	e.pendingWrap = false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// applyEraseInDisplay implements ED: 0=cursor-to-end, 1=start-to-cursor,
// 2/3=whole screen (scrollback already absent, so 3 behaves like 2).
func (e *TerminalEngine) applyEraseInDisplay(kind int) {
	bg := e.pen.Bg
	switch kind {
	case 0:
		e.buf.ClearRowRangeWithBg(e.cursorRow, e.cursorCol, e.buf.Cols(), bg)
		for r := e.cursorRow + 1; r < e.buf.Rows(); r++ {
			e.buf.ClearRowRangeWithBg(r, 0, e.buf.Cols(), bg)
		}
	case 1:
		e.buf.ClearRowRangeWithBg(e.cursorRow, 0, e.cursorCol+1, bg)
		for r := 0; r < e.cursorRow; r++ {
			e.buf.ClearRowRangeWithBg(r, 0, e.buf.Cols(), bg)
		}
	case 2, 3:
		for r := 0; r < e.buf.Rows(); r++ {
			e.buf.ClearRowRangeWithBg(r, 0, e.buf.Cols(), bg)
		}
	}
}

// applyEraseInLine implements EL: 0=cursor-to-end, 1=start-to-cursor, 2=whole line.
func (e *TerminalEngine) applyEraseInLine(kind int) {
	bg := e.pen.Bg
	switch kind {
	case 0:
		e.buf.ClearRowRangeWithBg(e.cursorRow, e.cursorCol, e.buf.Cols(), bg)
	case 1:
		e.buf.ClearRowRangeWithBg(e.cursorRow, 0, e.cursorCol+1, bg)
	case 2:
		e.buf.ClearRowRangeWithBg(e.cursorRow, 0, e.buf.Cols(), bg)
	}
}

func (e *TerminalEngine) applyInsertLine(n int) {
	if n < 1 {
		n = 1
	}
	if e.cursorRow < e.scrollTop || e.cursorRow > e.scrollBottom {
		return
	}
	e.buf.ScrollDown(e.cursorRow, e.scrollBottom+1, n)
}

func (e *TerminalEngine) applyDeleteLine(n int) {
	if n < 1 {
		n = 1
	}
	if e.cursorRow < e.scrollTop || e.cursorRow > e.scrollBottom {
		return
	}
	e.buf.ScrollUp(e.cursorRow, e.scrollBottom+1, n)
}

func (e *TerminalEngine) applySetScrollRegion(top, bottom int) {
	if bottom <= 0 || bottom > e.buf.Rows()-1 {
		bottom = e.buf.Rows() - 1
	}
	if top < 0 {
		top = 0
	}
	if top >= bottom {
		top, bottom = 0, e.buf.Rows()-1
	}
	e.scrollTop, e.scrollBottom = top, bottom
	e.cursorRow, e.cursorCol = top, 0
	if e.modes.OriginMode() {
		e.cursorRow = top
	}
	e.pendingWrap = false
}

// applySGR folds a list of SgrOp values into the current pen, matching
// ECMA-48 SGR semantics (spec.md §4.4 "SGR application").
func (e *TerminalEngine) applySGR(ops []SgrOp) {
	for _, op := range ops {
		switch op.Code {
		case 0:
			e.pen.Reset()
		case 1:
			e.pen.Flags |= SgrBold
		case 2:
			e.pen.Flags |= SgrDim
		case 3:
			e.pen.Flags |= SgrItalic
		case 4:
			e.pen.Flags |= SgrUnderline
		case 5, 6:
			e.pen.Flags |= SgrBlink
		case 7:
			e.pen.Flags |= SgrInverse
		case 8:
			e.pen.Flags |= SgrHidden
		case 9:
			e.pen.Flags |= SgrStrikethrough
		case 21:
			e.pen.Flags |= SgrDoubleUnderline
		case 22:
			e.pen.Flags &^= SgrBold | SgrDim
		case 23:
			e.pen.Flags &^= SgrItalic
		case 24:
			e.pen.Flags &^= SgrUnderline | SgrDoubleUnderline | SgrCurlyUnderline | SgrDottedUnderline | SgrDashedUnderline
		case 25:
			e.pen.Flags &^= SgrBlink
		case 27:
			e.pen.Flags &^= SgrInverse
		case 28:
			e.pen.Flags &^= SgrHidden
		case 29:
			e.pen.Flags &^= SgrStrikethrough
		case 30, 31, 32, 33, 34, 35, 36, 37:
			e.pen.Fg = NamedColor(uint8(op.Code - 30))
		case 39:
			e.pen.Fg = DefaultColor
		case 40, 41, 42, 43, 44, 45, 46, 47:
			e.pen.Bg = NamedColor(uint8(op.Code - 40))
		case 49:
			e.pen.Bg = DefaultColor
		case 53:
			e.pen.Flags |= SgrOverline
		case 55:
			e.pen.Flags &^= SgrOverline
		case 90, 91, 92, 93, 94, 95, 96, 97:
			e.pen.Fg = NamedColor(uint8(op.Code-90) + 8)
		case 100, 101, 102, 103, 104, 105, 106, 107:
			e.pen.Bg = NamedColor(uint8(op.Code-100) + 8)
		case sgrSetFgMarker:
			e.pen.Fg = op.Color
		case sgrSetBgMarker:
			e.pen.Bg = op.Color
		case sgrSetUnderlineMarker:
			e.pen.UnderlineColor = op.Color
			e.pen.HasUnderlineClr = true
		}
	}
}

func (e *TerminalEngine) applyMode(private bool, code int, on bool) {
	if private {
		if code == 1049 {
			e.swapAltScreen(on)
			return
		}
		e.modes.SetDecMode(code, on)
		return
	}
	e.modes.SetAnsiMode(code, on)
}

// swapAltScreen switches between the main and alternate screen buffers
// (DECSET/DECRST 1049), allocating the alt buffer lazily and clearing it on
// entry per xterm convention.
func (e *TerminalEngine) swapAltScreen(on bool) {
	if on {
		if e.modes.AltScreen() {
			return
		}
		if e.altBuf == nil || e.altBuf.Rows() != e.mainBuf.Rows() || e.altBuf.Cols() != e.mainBuf.Cols() {
			e.altBuf = NewBuffer(e.mainBuf.Rows(), e.mainBuf.Cols())
		} else {
			e.altBuf.ClearAll()
		}
		e.buf = e.altBuf
		e.modes.setDecFlag(DecAltScreen, true)
		e.cursorRow, e.cursorCol = 0, 0
	} else {
		if !e.modes.AltScreen() {
			return
		}
		e.buf = e.mainBuf
		e.modes.setDecFlag(DecAltScreen, false)
	}
	e.pendingWrap = false
}

func (e *TerminalEngine) applyOscHyperlink(uri string) {
	e.pendingLinkURI = uri
}

// applyOscClipboard implements OSC 52: "?" requests a read (answered
// through the reply path is not modeled here since ReplyEngine only covers
// device/cursor queries; callers needing the read value should call
// ClipboardProvider.Read directly), anything else is a base64-encoded
// write.
func (e *TerminalEngine) applyOscClipboard(sel byte, b64 string) {
	if b64 == "?" || b64 == "" {
		return
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return
	}
	e.clipboard.Write(sel, data)
}

// Resize grows or shrinks both the main and (if allocated) alt buffers,
// clamping the cursor to the new dimensions and resetting the scroll region
// to the full screen.
func (e *TerminalEngine) Resize(rows, cols int) {
	e.mainBuf.Resize(rows, cols)
	if e.altBuf != nil {
		e.altBuf.Resize(rows, cols)
	}
	e.scrollTop = 0
	e.scrollBottom = rows - 1
	e.cursorRow = clampInt(e.cursorRow, 0, rows-1)
	e.cursorCol = clampInt(e.cursorCol, 0, cols-1)
}
