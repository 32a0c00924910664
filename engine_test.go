package rendercore

import (
	"bytes"
	"os"
	"testing"
)

func TestEngineWritePrintsCells(t *testing.T) {
	e := NewTerminalEngine(3, 10)
	e.Write([]byte("Hi"))

	c0, _ := e.Buffer().Get(0, 0)
	c1, _ := e.Buffer().Get(0, 1)
	if c0.Content != 'H' || c1.Content != 'i' {
		t.Errorf("expected H,i got %c,%c", c0.Content, c1.Content)
	}
	row, col := e.CursorPosition()
	if row != 0 || col != 2 {
		t.Errorf("expected cursor at (0,2), got (%d,%d)", row, col)
	}
}

func TestEngineAutowrapAtLineEnd(t *testing.T) {
	e := NewTerminalEngine(3, 5)
	e.Write([]byte("ABCDE"))
	if row, col := e.CursorPosition(); row != 0 || col != 4 {
		t.Fatalf("expected pending-wrap cursor at (0,4), got (%d,%d)", row, col)
	}
	e.Write([]byte("F"))
	row, col := e.CursorPosition()
	if row != 1 || col != 1 {
		t.Errorf("expected wrap to row 1 after the 6th char, got (%d,%d)", row, col)
	}
	if !e.Buffer().IsWrapped(0) {
		t.Error("expected row 0 marked wrapped")
	}
}

func TestEngineWideCharAtMarginPadsAndWrapsWithAutowrapOn(t *testing.T) {
	e := NewTerminalEngine(2, 5)
	e.Write([]byte("ABCD"))
	e.Write([]byte("日")) // wide char, only 1 column left on row 0

	c, _ := e.Buffer().Get(0, 4)
	if c.Content != ' ' {
		t.Errorf("expected col 4 padded blank before wrap, got %q", c.Content)
	}
	if !e.Buffer().IsWrapped(0) {
		t.Error("expected row 0 marked wrapped")
	}
	lead, _ := e.Buffer().Get(1, 0)
	if lead.Content != '日' {
		t.Errorf("expected wide char to land on row 1 col 0, got %q", lead.Content)
	}
}

func TestEngineWideCharAtMarginDroppedWithAutowrapOff(t *testing.T) {
	e := NewTerminalEngine(2, 5)
	e.Write([]byte("\x1b[?7l")) // DECRST 7: disable autowrap
	e.Write([]byte("ABCD"))
	e.Write([]byte("日")) // wide char, only 1 column left, no room and no wrap

	c, _ := e.Buffer().Get(0, 4)
	if c.Content != ' ' {
		t.Errorf("expected col 4 to stay blank since the wide char was dropped, got %q", c.Content)
	}
	if e.Buffer().IsWrapped(0) {
		t.Error("expected row 0 NOT marked wrapped when autowrap is off")
	}
	row, col := e.CursorPosition()
	if row != 0 || col != 4 {
		t.Errorf("expected cursor to stay at (0,4), got (%d,%d)", row, col)
	}
	next, _ := e.Buffer().Get(1, 0)
	if next.Content != ' ' {
		t.Errorf("expected row 1 untouched, got %q", next.Content)
	}
}

func TestEngineWritesEvidenceRecordOnReply(t *testing.T) {
	path := t.TempDir() + "/evidence.jsonl"
	sink, err := NewEvidenceSink(EvidenceSinkConfig{
		Enabled: true, Destination: EvidenceFile, FilePath: path, FlushOnWrite: true,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error building sink: %v", err)
	}

	e := NewTerminalEngine(5, 5)
	e.SetEvidenceSink(sink)
	reply := e.Write([]byte("\x1b[5n"))
	if len(reply) == 0 {
		t.Fatal("expected a device-status reply")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected evidence file to exist: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		t.Error("expected an evidence record to be written for the reply")
	}
}

func TestEngineSGRAppliesAttributes(t *testing.T) {
	e := NewTerminalEngine(1, 10)
	e.Write([]byte("\x1b[1mX"))

	c, _ := e.Buffer().Get(0, 0)
	if c.Attrs.Flags&SgrBold == 0 {
		t.Error("expected bold flag set on written cell")
	}
}

func TestEngineSGRResetClearsAttributes(t *testing.T) {
	e := NewTerminalEngine(1, 10)
	e.Write([]byte("\x1b[1mX\x1b[0mY"))

	bold, _ := e.Buffer().Get(0, 0)
	plain, _ := e.Buffer().Get(0, 1)
	if bold.Attrs.Flags&SgrBold == 0 {
		t.Error("expected first cell bold")
	}
	if plain.Attrs.Flags&SgrBold != 0 {
		t.Error("expected SGR 0 to clear bold for the following cell")
	}
}

func TestEngineCursorPositionAbsolute(t *testing.T) {
	e := NewTerminalEngine(10, 10)
	e.Write([]byte("\x1b[5;5H"))
	row, col := e.CursorPosition()
	if row != 4 || col != 4 {
		t.Errorf("expected 0-indexed (4,4), got (%d,%d)", row, col)
	}
}

func TestEngineEraseInDisplayAll(t *testing.T) {
	e := NewTerminalEngine(2, 5)
	e.Write([]byte("ABCDE\x1b[2J"))
	for row := 0; row < 2; row++ {
		line := e.Buffer().LineContent(row)
		if line != "" {
			t.Errorf("expected row %d blank after ED 2, got %q", row, line)
		}
	}
}

func TestEngineAltScreenSwap(t *testing.T) {
	e := NewTerminalEngine(3, 10)
	e.Write([]byte("main"))
	e.Write([]byte("\x1b[?1049h"))
	if !e.Modes().AltScreen() {
		t.Fatal("expected alt screen mode set")
	}
	if e.Buffer().LineContent(0) == "main" {
		t.Error("expected alt buffer to start blank, independent of main buffer")
	}
	e.Write([]byte("alt"))
	e.Write([]byte("\x1b[?1049l"))
	if e.Modes().AltScreen() {
		t.Error("expected alt screen mode cleared")
	}
	if got := e.Buffer().LineContent(0); got != "main" {
		t.Errorf("expected main buffer content restored, got %q", got)
	}
}

func TestEngineHyperlinkRegistration(t *testing.T) {
	e := NewTerminalEngine(1, 10)
	e.Write([]byte("\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\"))

	c, _ := e.Buffer().Get(0, 0)
	if c.Hyperlink == 0 {
		t.Fatal("expected printed cell to carry a hyperlink id")
	}
	uri, ok := e.Links().URI(c.Hyperlink)
	if !ok || uri != "https://example.com" {
		t.Errorf("expected link uri https://example.com, got %q ok=%v", uri, ok)
	}
}

func TestEngineClipboardWriteDecodesBase64(t *testing.T) {
	var captured []byte
	e := NewTerminalEngine(1, 10)
	e.SetClipboardProvider(clipboardRecorder{write: func(sel byte, data []byte) { captured = data }})

	e.Write([]byte("\x1b]52;c;aGVsbG8=\x07")) // base64("hello")

	if string(captured) != "hello" {
		t.Errorf("expected decoded clipboard payload %q, got %q", "hello", captured)
	}
}

type clipboardRecorder struct {
	write func(sel byte, data []byte)
}

func (c clipboardRecorder) Read(sel byte) string { return "" }
func (c clipboardRecorder) Write(sel byte, data []byte) {
	c.write(sel, data)
}

func TestEngineDeviceStatusReplyBytes(t *testing.T) {
	e := NewTerminalEngine(5, 5)
	reply := e.Write([]byte("\x1b[5n"))
	if string(reply) != "\x1b[0n" {
		t.Errorf("expected ESC[0n reply, got %q", reply)
	}
}

func TestEngineScrollRegionConfinesScroll(t *testing.T) {
	e := NewTerminalEngine(5, 5)
	e.Write([]byte("\x1b[2;4r")) // scroll region rows 2-4 (1-indexed)
	for r := 0; r < 5; r++ {
		e.Write([]byte{byte('0' + r)})
		e.Write([]byte("\r\n"))
	}
	// Row 0 (outside the region) should be untouched by in-region scrolling.
	if line := e.Buffer().LineContent(0); line != "" {
		t.Errorf("expected row 0 outside the scroll region to stay blank, got %q", line)
	}
}

func TestEngineResizePreservesTopLeft(t *testing.T) {
	e := NewTerminalEngine(5, 5)
	e.Write([]byte("Hi"))
	e.Resize(10, 10)
	if e.Buffer().Rows() != 10 || e.Buffer().Cols() != 10 {
		t.Fatalf("expected 10x10 after resize, got %dx%d", e.Buffer().Rows(), e.Buffer().Cols())
	}
	c0, _ := e.Buffer().Get(0, 0)
	if c0.Content != 'H' {
		t.Errorf("expected content preserved after resize, got %q", c0.Content)
	}
}

func TestEngineMiddlewareInterceptsPrint(t *testing.T) {
	e := NewTerminalEngine(1, 10)
	var seen []rune
	mw := &Middleware{
		Print: func(r rune, next func(rune)) {
			seen = append(seen, r)
			next(r)
		},
	}
	e.SetMiddleware(mw)
	e.Write([]byte("Hi"))

	if len(seen) != 2 || seen[0] != 'H' || seen[1] != 'i' {
		t.Errorf("expected middleware to observe both printed runes, got %v", seen)
	}
	c0, _ := e.Buffer().Get(0, 0)
	if c0.Content != 'H' {
		t.Error("expected middleware's next() to still apply the default behavior")
	}
}

func TestEngineMiddlewareCanSuppressBell(t *testing.T) {
	e := NewTerminalEngine(1, 10)
	rang := false
	e.SetBellProvider(bellRecorder{func() { rang = true }})
	mw := &Middleware{
		Bell: func(next func()) {
			// deliberately does not call next: suppresses the bell.
		},
	}
	e.SetMiddleware(mw)
	e.Write([]byte("\x07"))

	if rang {
		t.Error("expected middleware to suppress the bell")
	}
}

type bellRecorder struct{ ring func() }

func (b bellRecorder) Ring() { b.ring() }

func TestEngineCombiningMarkMergesIntoPreviousCell(t *testing.T) {
	e := NewTerminalEngine(1, 10)
	e.Write([]byte("é")) // "e" + COMBINING ACUTE ACCENT

	row, col := e.CursorPosition()
	if row != 0 || col != 1 {
		t.Fatalf("expected the combining mark to not advance the cursor, got (%d,%d)", row, col)
	}
	c, _ := e.Buffer().Get(0, 0)
	if c.Content != 'e' {
		t.Fatalf("expected base rune 'e' to remain the cell content, got %q", c.Content)
	}
	if c.Marks == 0 {
		t.Fatal("expected the combining mark to be interned onto the cell")
	}
	if got := e.Graphemes().Lookup(c.Marks); got != "́" {
		t.Errorf("expected interned marks %q, got %q", "́", got)
	}
}
