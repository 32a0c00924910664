package rendercore

// DecMode is a bitmask of DEC private mode flags (DECSET/DECRST,
// CSI ? Pm h / CSI ? Pm l). Bit layout and mode numbers are grounded on
// _examples/original_source/crates/frankenterm-core/src/modes.rs, the
// authoritative resolution of spec.md §3's "DEC private ... numeric code"
// requirement.
type DecMode uint32

const (
	DecApplicationCursor DecMode = 1 << iota // DECCKM, mode 1
	DecOrigin                                // DECOM, mode 6
	DecAutowrap                              // DECAWM, mode 7
	DecCursorVisible                         // DECTCEM, mode 25
	DecMouseButton                           // mode 1000
	DecMouseCellMotion                       // mode 1002
	DecMouseAllMotion                        // mode 1003
	DecFocusEvents                           // mode 1004
	DecMouseSGR                              // mode 1006
	DecAltScreen                             // mode 1049
	DecBracketedPaste                        // mode 2004
	DecSyncOutput                            // mode 2026
)

// AnsiMode is a bitmask of ANSI standard mode flags (SM/RM, CSI Pm h / l).
type AnsiMode uint8

const (
	AnsiInsert           AnsiMode = 1 << iota // IRM, mode 4
	AnsiLinefeedNewline                       // LNM, mode 20
)

// Modes holds the combined DEC + ANSI mode state for a TerminalEngine.
type Modes struct {
	Dec  DecMode
	Ansi AnsiMode
}

// NewModes returns power-on default modes: DECAWM and DECTCEM on, everything
// else off.
func NewModes() Modes {
	return Modes{Dec: DecAutowrap | DecCursorVisible}
}

// Reset restores power-on defaults.
func (m *Modes) Reset() {
	*m = NewModes()
}

func (m Modes) Autowrap() bool        { return m.Dec&DecAutowrap != 0 }
func (m Modes) OriginMode() bool      { return m.Dec&DecOrigin != 0 }
func (m Modes) CursorVisible() bool   { return m.Dec&DecCursorVisible != 0 }
func (m Modes) AltScreen() bool       { return m.Dec&DecAltScreen != 0 }
func (m Modes) BracketedPaste() bool  { return m.Dec&DecBracketedPaste != 0 }
func (m Modes) SyncOutput() bool      { return m.Dec&DecSyncOutput != 0 }
func (m Modes) FocusEvents() bool     { return m.Dec&DecFocusEvents != 0 }
func (m Modes) InsertMode() bool      { return m.Ansi&AnsiInsert != 0 }

func (m *Modes) setDecFlag(flag DecMode, on bool) {
	if on {
		m.Dec |= flag
	} else {
		m.Dec &^= flag
	}
}

func (m *Modes) setAnsiFlag(flag AnsiMode, on bool) {
	if on {
		m.Ansi |= flag
	} else {
		m.Ansi &^= flag
	}
}

// decModeForNumber maps an ECMA-48/DEC numeric mode code to its flag bit.
func decModeForNumber(n int) (DecMode, bool) {
	switch n {
	case 1:
		return DecApplicationCursor, true
	case 6:
		return DecOrigin, true
	case 7:
		return DecAutowrap, true
	case 25:
		return DecCursorVisible, true
	case 1000:
		return DecMouseButton, true
	case 1002:
		return DecMouseCellMotion, true
	case 1003:
		return DecMouseAllMotion, true
	case 1004:
		return DecFocusEvents, true
	case 1006:
		return DecMouseSGR, true
	case 1049:
		return DecAltScreen, true
	case 2004:
		return DecBracketedPaste, true
	case 2026:
		return DecSyncOutput, true
	default:
		return 0, false
	}
}

func ansiModeForNumber(n int) (AnsiMode, bool) {
	switch n {
	case 4:
		return AnsiInsert, true
	case 20:
		return AnsiLinefeedNewline, true
	default:
		return 0, false
	}
}

// SetDecMode sets or resets a DEC private mode by its numeric code. Returns
// false if the mode number is unrecognized, in which case state is
// unchanged (spec.md §4.4 "Modes").
func (m *Modes) SetDecMode(code int, on bool) bool {
	flag, ok := decModeForNumber(code)
	if !ok {
		return false
	}
	m.setDecFlag(flag, on)
	return true
}

// DecModeStatus reports a DECRPM-style status for a DEC mode number:
// 0 = not recognized, 1 = set, 2 = reset.
func (m Modes) DecModeStatus(code int) int {
	flag, ok := decModeForNumber(code)
	if !ok {
		return 0
	}
	if m.Dec&flag != 0 {
		return 1
	}
	return 2
}

// SetAnsiMode sets or resets an ANSI standard mode by its numeric code.
func (m *Modes) SetAnsiMode(code int, on bool) bool {
	flag, ok := ansiModeForNumber(code)
	if !ok {
		return false
	}
	m.setAnsiFlag(flag, on)
	return true
}
