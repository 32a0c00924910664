package rendercore

// ActionKind discriminates the Action tagged union the Parser emits
// (spec.md §4.3 "Contract"). Modelled as a sum type with known cases per
// spec.md §9 "Dynamic dispatch" — no virtual dispatch, a plain switch in
// TerminalEngine.Apply.
type ActionKind uint8

const (
	ActPrint ActionKind = iota
	ActNewline
	ActCarriageReturn
	ActTab
	ActBackspace
	ActBell
	ActCursorPosition
	ActCursorMove
	ActSaveCursor
	ActRestoreCursor
	ActEraseInDisplay
	ActEraseInLine
	ActEraseCharacter
	ActInsertLine
	ActDeleteLine
	ActInsertCharacter
	ActDeleteCharacter
	ActScrollUp
	ActScrollDown
	ActSetScrollRegion
	ActSetGraphicRendition
	ActSetMode
	ActResetMode
	ActOscHyperlink
	ActOscTitle
	ActOscClipboard
	ActDcsPassthrough
	ActTerminalQuery
	ActSetCursorStyle
	ActDesignateCharset
	ActShiftOut
	ActShiftIn
)

// CursorDir is the direction for a CursorMove action (CUU/CUD/CUF/CUB).
type CursorDir uint8

const (
	DirUp CursorDir = iota
	DirDown
	DirForward
	DirBack
)

// SgrOp is one numeric SGR operation (e.g. `1` for bold, or the whole
// `38;2;r;g;b` run collapsed into a single Indexed/RGB op by the parser).
type SgrOp struct {
	Code    int // raw SGR parameter, or a synthetic sgrSetFgMarker/sgrSetBgMarker/sgrSetUnderlineMarker
	Color   Color
	IsColor bool
}

const (
	sgrSetFgMarker        = 1000 // synthetic: Color holds the resolved fg
	sgrSetBgMarker        = 1001 // synthetic: Color holds the resolved bg
	sgrSetUnderlineMarker = 1002 // synthetic: Color holds the underline color
)

// TerminalQueryKind discriminates the terminal status/identification queries
// the ReplyEngine understands (spec.md §4.3 "Query/reply engine").
type TerminalQueryKind uint8

const (
	QueryDeviceStatus    TerminalQueryKind = iota // CSI 5 n
	QueryCursorPosition                           // CSI 6 n
	QueryExtCursorPos                             // CSI ? 6 n
	QueryDA1                                      // CSI c / CSI 0 c
	QueryDA2                                      // CSI > c / CSI > 0 c
	QueryDecRPM                                   // CSI ? mode $ p
)

// Action is the tagged union of parser outputs. Only the fields relevant to
// Kind are populated; this mirrors the Rust source's enum-with-payload more
// directly than N separate structs would, while staying a single flat
// struct per spec.md §9 "implementations should keep the engine as a flat
// record".
type Action struct {
	Kind ActionKind

	Rune rune // Print

	Row, Col int // CursorPosition (0-indexed), SetScrollRegion (Row=top, Col=bottom)

	Dir CursorDir // CursorMove
	N   int        // CursorMove / EraseCharacter / Insert*/Delete*/ScrollUp/ScrollDown count

	EraseKind int // EraseInDisplay / EraseInLine: 0=to-end, 1=to-start, 2=all

	SgrOps []SgrOp // SetGraphicRendition

	ModePrivate bool // SetMode / ResetMode
	ModeCode    int

	OscParams string // OscHyperlink
	OscURI    string // OscHyperlink
	OscText   string // OscTitle

	ClipboardSel byte   // OscClipboard: 'c' (clipboard) or 'p' (primary selection)
	ClipboardB64 string // OscClipboard: raw base64 payload ("?" means a read request)

	DcsBytes []byte // DcsPassthrough

	Query TerminalQueryKind // TerminalQuery

	Style CursorStyle // SetCursorStyle

	CharsetSlot  CharsetIndex // DesignateCharset
	CharsetValue Charset      // DesignateCharset
}
