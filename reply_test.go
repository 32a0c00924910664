package rendercore

import (
	"strings"
	"testing"
)

// These mirror the invariants enumerated in
// original_source/crates/frankenterm-core/tests/proptest_reply_invariants.rs,
// translated from proptest property checks into table-driven Go cases.

func TestReplyDeviceStatusConstant(t *testing.T) {
	var e ReplyEngine
	got := e.Reply(QueryDeviceStatus, 0, ReplyContext{CursorRow: 12, CursorCol: 34})
	if string(got) != "\x1b[0n" {
		t.Errorf("expected ESC[0n, got %q", got)
	}
}

func TestReplyCursorPositionOneIndexed(t *testing.T) {
	var e ReplyEngine
	cases := []struct{ row, col int }{{0, 0}, {5, 10}, {23, 79}}
	for _, c := range cases {
		got := e.Reply(QueryCursorPosition, 0, ReplyContext{CursorRow: c.row, CursorCol: c.col})
		want := "\x1b[" + itoa(c.row+1) + ";" + itoa(c.col+1) + "R"
		if string(got) != want {
			t.Errorf("row=%d col=%d: expected %q, got %q", c.row, c.col, want, got)
		}
	}
}

func TestReplyExtendedCursorPositionHasMarker(t *testing.T) {
	var e ReplyEngine
	got := string(e.Reply(QueryExtCursorPos, 0, ReplyContext{CursorRow: 3, CursorCol: 4}))
	if !strings.HasPrefix(got, "\x1b[?") || !strings.HasSuffix(got, "R") {
		t.Errorf("expected DECXCPR to be wrapped in ESC[?...R, got %q", got)
	}
}

func TestReplyDA1Constant(t *testing.T) {
	var e ReplyEngine
	for _, ctx := range []ReplyContext{{}, {CursorRow: 99, CursorCol: 99}} {
		got := string(e.Reply(QueryDA1, 0, ctx))
		if got != "\x1b[?64;1;2;4;6;9;15;18;21;22c" {
			t.Errorf("expected constant DA1 reply, got %q", got)
		}
	}
}

func TestReplyDA2UsesConfiguredIdentity(t *testing.T) {
	var e ReplyEngine
	got := string(e.Reply(QueryDA2, 0, ReplyContext{}))
	want := "\x1b[>" + itoa(termID) + ";" + itoa(termVersion) + ";" + itoa(termROM) + "c"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReplyDecRPMStatusInRange(t *testing.T) {
	var e ReplyEngine
	modes := NewModes()
	for _, mode := range []int{1, 7, 25, 1049, 2026, 99999} {
		got := string(e.Reply(QueryDecRPM, mode, ReplyContext{Modes: modes}))
		inner := strings.TrimSuffix(strings.TrimPrefix(got, "\x1b[?"), "$y")
		parts := strings.Split(inner, ";")
		if len(parts) != 2 {
			t.Fatalf("mode %d: bad format %q", mode, got)
		}
		if parts[1] != "0" && parts[1] != "1" && parts[1] != "2" {
			t.Errorf("mode %d: status %q not in {0,1,2}", mode, parts[1])
		}
	}
}

func TestReplyDeterministic(t *testing.T) {
	var e ReplyEngine
	modes := NewModes()
	ctx := ReplyContext{CursorRow: 7, CursorCol: 11, Modes: modes}
	queries := []TerminalQueryKind{QueryDeviceStatus, QueryCursorPosition, QueryExtCursorPos, QueryDA1, QueryDA2, QueryDecRPM}
	for _, q := range queries {
		r1 := e.Reply(q, 7, ctx)
		r2 := e.Reply(q, 7, ctx)
		if string(r1) != string(r2) {
			t.Errorf("query %v: non-deterministic reply %q vs %q", q, r1, r2)
		}
	}
}

func TestReplyAllStartWithEsc(t *testing.T) {
	var e ReplyEngine
	modes := NewModes()
	ctx := ReplyContext{CursorRow: 1, CursorCol: 1, Modes: modes}
	queries := []TerminalQueryKind{QueryDeviceStatus, QueryCursorPosition, QueryExtCursorPos, QueryDA1, QueryDA2, QueryDecRPM}
	for _, q := range queries {
		got := e.Reply(q, 7, ctx)
		if len(got) < 3 || got[0] != 0x1b || got[1] != '[' {
			t.Errorf("query %v: reply %q does not start with ESC[", q, got)
		}
	}
}

func TestParseTerminalQueryKnownSequences(t *testing.T) {
	cases := []struct {
		bytes string
		kind  TerminalQueryKind
	}{
		{"\x1b[5n", QueryDeviceStatus},
		{"\x1b[6n", QueryCursorPosition},
		{"\x1b[?6n", QueryExtCursorPos},
		{"\x1b[c", QueryDA1},
		{"\x1b[0c", QueryDA1},
		{"\x1b[>c", QueryDA2},
		{"\x1b[>0c", QueryDA2},
	}
	for _, c := range cases {
		kind, _, ok := ParseTerminalQuery([]byte(c.bytes))
		if !ok {
			t.Errorf("%q: expected to parse", c.bytes)
			continue
		}
		if kind != c.kind {
			t.Errorf("%q: expected kind %v, got %v", c.bytes, c.kind, kind)
		}
	}
}

func TestParseTerminalQueryRejectsNonCSI(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x1b},
		{'a', 'b'},
		[]byte("[6n"),
		[]byte("\x1ba6n"),
	}
	for _, b := range cases {
		if _, _, ok := ParseTerminalQuery(b); ok {
			t.Errorf("%v: expected rejection of non-CSI bytes", b)
		}
	}
}
