package rendercore

import "strconv"

// ReplyContext carries the state ReplyEngine needs to answer a query: the
// current cursor position and the mode registry to consult for DECRPM
// (spec.md §4.4 "Query/reply engine").
type ReplyContext struct {
	CursorRow, CursorCol int
	Modes                Modes
}

// termID/termVersion/termROM identify this engine in DA2 replies. Values
// are placeholders distinct from any real terminal emulator's identity,
// matching the convention in frankenterm-core's reply module (see
// crates/frankenterm-core/tests/proptest_reply_invariants.rs for the
// exact byte sequences these constants feed).
const (
	termID      = 1
	termVersion = 100
	termROM     = 0
)

// ReplyEngine turns a parsed TerminalQuery into the exact reply byte
// sequence an application expects on stdin (spec.md §6 "Reply sequences").
type ReplyEngine struct{}

// Reply returns the byte sequence to send back for the given query, or nil
// if the query kind is unrecognized.
func (ReplyEngine) Reply(query TerminalQueryKind, modeCode int, ctx ReplyContext) []byte {
	switch query {
	case QueryDeviceStatus:
		return []byte("\x1b[0n")
	case QueryCursorPosition:
		return []byte("\x1b[" + itoa(ctx.CursorRow+1) + ";" + itoa(ctx.CursorCol+1) + "R")
	case QueryExtCursorPos:
		return []byte("\x1b[?" + itoa(ctx.CursorRow+1) + ";" + itoa(ctx.CursorCol+1) + "R")
	case QueryDA1:
		return []byte("\x1b[?64;1;2;4;6;9;15;18;21;22c")
	case QueryDA2:
		return []byte("\x1b[>" + itoa(termID) + ";" + itoa(termVersion) + ";" + itoa(termROM) + "c")
	case QueryDecRPM:
		status := ctx.Modes.DecModeStatus(modeCode)
		return []byte("\x1b[?" + itoa(modeCode) + ";" + itoa(status) + "$y")
	default:
		return nil
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
