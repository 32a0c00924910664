package rendercore

// parserState enumerates the VT/ANSI state machine's ground states
// (spec.md §4.3 "State machine"). Grounded on the hand-rolled state machine
// in _examples/other_examples/a54d083b_phroun-purfecterm__parser.go.go
// (parserState enum, handleGround/handleEscape/handleCSI/executeSGR) — the
// teacher itself has no parser of its own; it depends on the external
// go-ansicode package, which is unavailable in this pack (its `replace`
// directive points at a sibling directory that does not exist here), so
// this state machine is authored from scratch in the purfecterm idiom
// rather than left as an unfetchable dependency.
type parserState uint8

const (
	stGround parserState = iota
	stEscape
	stCSIEntry
	stCSIParam
	stOSCString
	stDCS
	stCharsetDesignate
)

// maxCSIParams bounds the number of numeric parameters collected for a
// single CSI sequence (spec.md §4.3 "Parameters exceeding a fixed cap ...
// are either clamped or cause the sequence to be dropped"). This parser
// clamps: params beyond the cap are dropped, the last accepted param keeps
// accumulating digits.
const maxCSIParams = 16

// Parser is an incremental VT/ANSI state machine: byte in, Action out.
// State persists across Feed/Advance calls so a CSI sequence split across
// two writes parses correctly.
type Parser struct {
	state parserState

	params       []int
	paramSeen    []bool // whether a digit was seen for the current param (vs. default)
	private      byte   // '?' | '<' | '>' | 0
	intermediate byte   // last 0x20-0x2F intermediate byte seen in the current CSI, 0 if none

	oscBuf   []byte
	oscEsc   bool // saw ESC while collecting OSC, awaiting '\' for ST
	dcsBuf   []byte
	escLead  byte // the byte following ESC before we know CSI/OSC/DCS/other

	utf8Need int
	utf8Rune rune
	utf8Buf  [4]byte
	utf8Len  int
}

// NewParser creates a parser in the ground state.
func NewParser() *Parser {
	return &Parser{}
}

// Feed processes every byte in data and returns all resulting actions in
// order.
func (p *Parser) Feed(data []byte) []Action {
	var out []Action
	for _, b := range data {
		if a, ok := p.Advance(b); ok {
			out = append(out, a)
		}
	}
	return out
}

// Advance processes a single byte and returns at most one Action.
func (p *Parser) Advance(b byte) (Action, bool) {
	if p.utf8Need > 0 && p.state == stGround {
		return p.continueUTF8(b)
	}
	switch p.state {
	case stGround:
		return p.handleGround(b)
	case stEscape:
		return p.handleEscape(b)
	case stCSIEntry, stCSIParam:
		return p.handleCSI(b)
	case stOSCString:
		return p.handleOSC(b)
	case stDCS:
		return p.handleDCS(b)
	case stCharsetDesignate:
		return p.handleCharsetDesignate(b)
	default:
		p.state = stGround
		return Action{}, false
	}
}

func (p *Parser) handleGround(b byte) (Action, bool) {
	switch {
	case b == 0x1B:
		p.state = stEscape
		return Action{}, false
	case b == '\n':
		return Action{Kind: ActNewline}, true
	case b == '\r':
		return Action{Kind: ActCarriageReturn}, true
	case b == '\t':
		return Action{Kind: ActTab}, true
	case b == 0x08:
		return Action{Kind: ActBackspace}, true
	case b == 0x07:
		return Action{Kind: ActBell}, true
	case b == 0x0E:
		return Action{Kind: ActShiftOut}, true
	case b == 0x0F:
		return Action{Kind: ActShiftIn}, true
	case b < 0x20:
		return Action{}, false // other C0 controls: no action
	case b < 0x80:
		return Action{Kind: ActPrint, Rune: rune(b)}, true
	default:
		return p.beginUTF8(b)
	}
}

// beginUTF8 starts decoding a multi-byte UTF-8 sequence from its lead byte.
func (p *Parser) beginUTF8(b byte) (Action, bool) {
	var need int
	var r rune
	switch {
	case b&0xE0 == 0xC0:
		need, r = 1, rune(b&0x1F)
	case b&0xF0 == 0xE0:
		need, r = 2, rune(b&0x0F)
	case b&0xF8 == 0xF0:
		need, r = 3, rune(b&0x07)
	default:
		return Action{Kind: ActPrint, Rune: 0xFFFD}, true
	}
	p.utf8Need, p.utf8Rune = need, r
	return Action{}, false
}

func (p *Parser) continueUTF8(b byte) (Action, bool) {
	if b&0xC0 != 0x80 {
		// malformed continuation: drop what we had, reprocess b in ground
		p.utf8Need = 0
		return p.handleGround(b)
	}
	p.utf8Rune = p.utf8Rune<<6 | rune(b&0x3F)
	p.utf8Need--
	if p.utf8Need == 0 {
		r := p.utf8Rune
		p.utf8Rune = 0
		return Action{Kind: ActPrint, Rune: r}, true
	}
	return Action{}, false
}

func (p *Parser) handleEscape(b byte) (Action, bool) {
	switch b {
	case '[':
		p.resetCSI()
		p.state = stCSIEntry
		return Action{}, false
	case ']':
		p.oscBuf = p.oscBuf[:0]
		p.oscEsc = false
		p.state = stOSCString
		return Action{}, false
	case 'P':
		p.dcsBuf = p.dcsBuf[:0]
		p.state = stDCS
		return Action{}, false
	case '(', ')':
		p.escLead = b
		p.state = stCharsetDesignate
		return Action{}, false
	case '7':
		p.state = stGround
		return Action{Kind: ActSaveCursor}, true
	case '8':
		p.state = stGround
		return Action{Kind: ActRestoreCursor}, true
	default:
		// Unknown/unsupported escape: no action.
		p.state = stGround
		return Action{}, false
	}
}

func (p *Parser) resetCSI() {
	p.params = p.params[:0]
	p.paramSeen = p.paramSeen[:0]
	p.private = 0
	p.intermediate = 0
}

func (p *Parser) handleCSI(b byte) (Action, bool) {
	switch {
	case b >= '0' && b <= '9':
		p.state = stCSIParam
		p.ensureCurrentParam()
		i := len(p.params) - 1
		p.params[i] = p.params[i]*10 + int(b-'0')
		p.paramSeen[i] = true
		return Action{}, false
	case b == ';':
		if len(p.params) < maxCSIParams {
			p.params = append(p.params, 0)
			p.paramSeen = append(p.paramSeen, false)
		}
		return Action{}, false
	case b == '?' || b == '<' || b == '>' || b == '=':
		if p.state == stCSIEntry {
			p.private = b
		}
		return Action{}, false
	case b >= 0x40 && b <= 0x7E:
		p.state = stGround
		return p.dispatchCSI(b)
	case b >= 0x20 && b <= 0x2F:
		p.intermediate = b
		return Action{}, false
	default:
		return Action{}, false
	}
}

func (p *Parser) ensureCurrentParam() {
	if len(p.params) == 0 {
		p.params = append(p.params, 0)
		p.paramSeen = append(p.paramSeen, false)
	}
}

// param returns the i-th parameter, defaulting to def when absent or not
// supplied (spec.md §4.3 "missing params default to 1 for motion commands,
// 0 for SGR").
func (p *Parser) param(i, def int) int {
	if i >= len(p.params) || !p.paramSeen[i] {
		return def
	}
	return p.params[i]
}

func (p *Parser) paramCount() int { return len(p.params) }

func (p *Parser) dispatchCSI(final byte) (Action, bool) {
	if p.private != 0 {
		return p.dispatchPrivateCSI(final)
	}
	switch final {
	case 'A':
		return Action{Kind: ActCursorMove, Dir: DirUp, N: p.param(0, 1)}, true
	case 'B':
		return Action{Kind: ActCursorMove, Dir: DirDown, N: p.param(0, 1)}, true
	case 'C':
		return Action{Kind: ActCursorMove, Dir: DirForward, N: p.param(0, 1)}, true
	case 'D':
		return Action{Kind: ActCursorMove, Dir: DirBack, N: p.param(0, 1)}, true
	case 'H', 'f':
		return Action{Kind: ActCursorPosition, Row: p.param(0, 1) - 1, Col: p.param(1, 1) - 1}, true
	case 'J':
		return Action{Kind: ActEraseInDisplay, EraseKind: p.param(0, 0)}, true
	case 'K':
		return Action{Kind: ActEraseInLine, EraseKind: p.param(0, 0)}, true
	case 'X':
		return Action{Kind: ActEraseCharacter, N: p.param(0, 1)}, true
	case 'L':
		return Action{Kind: ActInsertLine, N: p.param(0, 1)}, true
	case 'M':
		return Action{Kind: ActDeleteLine, N: p.param(0, 1)}, true
	case '@':
		return Action{Kind: ActInsertCharacter, N: p.param(0, 1)}, true
	case 'P':
		return Action{Kind: ActDeleteCharacter, N: p.param(0, 1)}, true
	case 'S':
		return Action{Kind: ActScrollUp, N: p.param(0, 1)}, true
	case 'T':
		return Action{Kind: ActScrollDown, N: p.param(0, 1)}, true
	case 'r':
		return Action{Kind: ActSetScrollRegion, Row: p.param(0, 1) - 1, Col: p.param(1, 0) - 1}, true
	case 'm':
		return Action{Kind: ActSetGraphicRendition, SgrOps: p.parseSGR()}, true
	case 'h':
		return Action{Kind: ActSetMode, ModePrivate: false, ModeCode: p.param(0, 0)}, true
	case 'l':
		return Action{Kind: ActResetMode, ModePrivate: false, ModeCode: p.param(0, 0)}, true
	case 'n':
		if p.param(0, 0) == 5 {
			return Action{Kind: ActTerminalQuery, Query: QueryDeviceStatus}, true
		}
		if p.param(0, 0) == 6 {
			return Action{Kind: ActTerminalQuery, Query: QueryCursorPosition}, true
		}
		return Action{}, false
	case 'c':
		return Action{Kind: ActTerminalQuery, Query: QueryDA1}, true
	case 'q':
		if p.intermediate == ' ' {
			return Action{Kind: ActSetCursorStyle, Style: decscusrStyle(p.param(0, 0))}, true
		}
		return Action{}, false
	default:
		return Action{}, false
	}
}

// decscusrStyle maps a DECSCUSR (CSI Ps SP q) parameter to a CursorStyle; 0
// and 1 both mean blinking block per the xterm convention.
func decscusrStyle(ps int) CursorStyle {
	switch ps {
	case 0, 1:
		return CursorStyleBlinkingBlock
	case 2:
		return CursorStyleSteadyBlock
	case 3:
		return CursorStyleBlinkingUnderline
	case 4:
		return CursorStyleSteadyUnderline
	case 5:
		return CursorStyleBlinkingBar
	case 6:
		return CursorStyleSteadyBar
	default:
		return CursorStyleBlinkingBlock
	}
}

func (p *Parser) dispatchPrivateCSI(final byte) (Action, bool) {
	switch p.private {
	case '?':
		switch final {
		case 'h':
			return Action{Kind: ActSetMode, ModePrivate: true, ModeCode: p.param(0, 0)}, true
		case 'l':
			return Action{Kind: ActResetMode, ModePrivate: true, ModeCode: p.param(0, 0)}, true
		case 'n':
			if p.param(0, 0) == 6 {
				return Action{Kind: ActTerminalQuery, Query: QueryExtCursorPos}, true
			}
			return Action{}, false
		case 'c':
			return Action{Kind: ActTerminalQuery, Query: QueryDA1}, true
		case '$': // part of "CSI ? mode $ p", final byte is actually 'p' with intermediate '$'
			return Action{}, false
		case 'p':
			return Action{Kind: ActTerminalQuery, Query: QueryDecRPM, ModeCode: p.param(0, 0)}, true
		default:
			return Action{}, false
		}
	case '>':
		if final == 'c' {
			return Action{Kind: ActTerminalQuery, Query: QueryDA2}, true
		}
		return Action{}, false
	default:
		return Action{}, false
	}
}

// parseSGR interprets collected CSI params as a list of SGR ops, expanding
// 256-color (`38;5;n`) and truecolor (`38;2;r;g;b`) forms into a single
// synthetic color op (spec.md §4.4 "SGR application").
func (p *Parser) parseSGR() []SgrOp {
	if p.paramCount() == 0 {
		return []SgrOp{{Code: 0}}
	}
	var ops []SgrOp
	i := 0
	for i < p.paramCount() {
		code := p.param(i, 0)
		switch code {
		case 38, 48, 58:
			op, consumed := p.parseExtendedColor(i, code)
			ops = append(ops, op)
			i += consumed
		default:
			ops = append(ops, SgrOp{Code: code})
			i++
		}
	}
	return ops
}

func (p *Parser) parseExtendedColor(i, code int) (SgrOp, int) {
	marker := sgrSetFgMarker
	if code == 48 {
		marker = sgrSetBgMarker
	} else if code == 58 {
		marker = sgrSetUnderlineMarker
	}
	mode := p.param(i+1, 0)
	switch mode {
	case 5:
		idx := p.param(i+2, 0)
		return SgrOp{Code: marker, Color: IndexedColor(uint8(idx)), IsColor: true}, 3
	case 2:
		r := p.param(i+2, 0)
		g := p.param(i+3, 0)
		b := p.param(i+4, 0)
		return SgrOp{Code: marker, Color: RGBColor(uint8(r), uint8(g), uint8(b)), IsColor: true}, 5
	default:
		return SgrOp{Code: code}, 1
	}
}

func (p *Parser) handleOSC(b byte) (Action, bool) {
	if p.oscEsc {
		p.oscEsc = false
		if b == '\\' {
			p.state = stGround
			return p.dispatchOSC()
		}
		p.oscBuf = append(p.oscBuf, 0x1B, b)
		return Action{}, false
	}
	switch b {
	case 0x07:
		p.state = stGround
		return p.dispatchOSC()
	case 0x1B:
		p.oscEsc = true
		return Action{}, false
	default:
		p.oscBuf = append(p.oscBuf, b)
		return Action{}, false
	}
}

func (p *Parser) dispatchOSC() (Action, bool) {
	s := string(p.oscBuf)
	// Expect "<code>;<payload>"
	semi := -1
	for i, c := range s {
		if c == ';' {
			semi = i
			break
		}
	}
	if semi < 0 {
		return Action{}, false
	}
	code := s[:semi]
	payload := s[semi+1:]
	switch code {
	case "0", "1", "2":
		return Action{Kind: ActOscTitle, OscText: payload}, true
	case "8":
		semi2 := -1
		for i, c := range payload {
			if c == ';' {
				semi2 = i
				break
			}
		}
		if semi2 < 0 {
			return Action{Kind: ActOscHyperlink, OscParams: "", OscURI: ""}, true
		}
		return Action{Kind: ActOscHyperlink, OscParams: payload[:semi2], OscURI: payload[semi2+1:]}, true
	case "52":
		semi2 := -1
		for i, c := range payload {
			if c == ';' {
				semi2 = i
				break
			}
		}
		if semi2 < 0 {
			return Action{}, false
		}
		sels := payload[:semi2]
		sel := byte('c')
		if len(sels) > 0 {
			sel = sels[0]
		}
		return Action{Kind: ActOscClipboard, ClipboardSel: sel, ClipboardB64: payload[semi2+1:]}, true
	default:
		return Action{}, false
	}
}

func (p *Parser) handleDCS(b byte) (Action, bool) {
	if len(p.dcsBuf) > 0 && p.dcsBuf[len(p.dcsBuf)-1] == 0x1B {
		if b == '\\' {
			bytes := p.dcsBuf[:len(p.dcsBuf)-1]
			p.state = stGround
			out := make([]byte, len(bytes))
			copy(out, bytes)
			return Action{Kind: ActDcsPassthrough, DcsBytes: out}, true
		}
		p.dcsBuf = p.dcsBuf[:len(p.dcsBuf)-1]
	}
	p.dcsBuf = append(p.dcsBuf, b)
	return Action{}, false
}

// handleCharsetDesignate consumes the single byte following ESC ( or ESC )
// (SCS: select character set into G0 or G1), recognizing "0" (DEC Special
// Graphics, used for line drawing) and treating everything else as ASCII.
func (p *Parser) handleCharsetDesignate(b byte) (Action, bool) {
	p.state = stGround
	slot := CharsetIndexG0
	if p.escLead == ')' {
		slot = CharsetIndexG1
	}
	cs := CharsetASCII
	if b == '0' {
		cs = CharsetLineDrawing
	}
	return Action{Kind: ActDesignateCharset, CharsetSlot: slot, CharsetValue: cs}, true
}

// ParseTerminalQuery recognizes a complete query byte sequence and returns
// its kind plus (for DECRPM) the mode being queried. It rejects any input
// not starting with ESC [ (spec.md §8 invariant 8).
func ParseTerminalQuery(data []byte) (TerminalQueryKind, int, bool) {
	if len(data) < 3 || data[0] != 0x1B || data[1] != '[' {
		return 0, 0, false
	}
	body := data[2:]
	private := byte(0)
	if len(body) > 0 && (body[0] == '?' || body[0] == '>') {
		private = body[0]
		body = body[1:]
	}
	// strip trailing '$' intermediate for DECRPM queries ("mode $ p")
	hasDollar := len(body) >= 2 && body[len(body)-2] == '$'
	var final byte
	var numPart string
	if hasDollar {
		final = body[len(body)-1]
		numPart = string(body[:len(body)-2])
	} else if len(body) > 0 {
		final = body[len(body)-1]
		numPart = string(body[:len(body)-1])
	} else {
		return 0, 0, false
	}
	num := parseIntOr(numPart, 0)
	switch {
	case private == '?' && hasDollar && final == 'p':
		return QueryDecRPM, num, true
	case private == 0 && final == 'n' && num == 5:
		return QueryDeviceStatus, 0, true
	case private == 0 && final == 'n' && num == 6:
		return QueryCursorPosition, 0, true
	case private == '?' && final == 'n' && num == 6:
		return QueryExtCursorPos, 0, true
	case private == 0 && final == 'c':
		return QueryDA1, 0, true
	case private == '>' && final == 'c':
		return QueryDA2, 0, true
	default:
		return 0, 0, false
	}
}

func parseIntOr(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}
