package rendercore

import "testing"

func TestNewModesDefaults(t *testing.T) {
	m := NewModes()
	if !m.Autowrap() {
		t.Error("expected DECAWM on by default")
	}
	if !m.CursorVisible() {
		t.Error("expected DECTCEM on by default")
	}
	if m.AltScreen() || m.OriginMode() || m.BracketedPaste() || m.SyncOutput() || m.FocusEvents() || m.InsertMode() {
		t.Error("expected every other mode off by default")
	}
}

func TestModesSetDecModeRecognized(t *testing.T) {
	var m Modes
	if ok := m.SetDecMode(1049, true); !ok {
		t.Fatal("expected mode 1049 to be recognized")
	}
	if !m.AltScreen() {
		t.Error("expected alt screen mode set")
	}
	if ok := m.SetDecMode(1049, false); !ok {
		t.Fatal("expected mode 1049 reset to be recognized")
	}
	if m.AltScreen() {
		t.Error("expected alt screen mode reset")
	}
}

func TestModesSetDecModeUnrecognizedLeavesStateUnchanged(t *testing.T) {
	m := NewModes()
	before := m
	if ok := m.SetDecMode(99999, true); ok {
		t.Error("expected unrecognized mode code to report false")
	}
	if m != before {
		t.Error("expected state unchanged for unrecognized mode code")
	}
}

func TestModesDecModeStatus(t *testing.T) {
	var m Modes
	if s := m.DecModeStatus(25); s != 2 {
		t.Errorf("expected status 2 (reset) for an unset recognized mode, got %d", s)
	}
	m.SetDecMode(25, true)
	if s := m.DecModeStatus(25); s != 1 {
		t.Errorf("expected status 1 (set), got %d", s)
	}
	if s := m.DecModeStatus(424242); s != 0 {
		t.Errorf("expected status 0 for unrecognized mode, got %d", s)
	}
}

func TestModesSetAnsiMode(t *testing.T) {
	var m Modes
	if ok := m.SetAnsiMode(4, true); !ok {
		t.Fatal("expected mode 4 (IRM) to be recognized")
	}
	if !m.InsertMode() {
		t.Error("expected insert mode set")
	}
	if ok := m.SetAnsiMode(123, true); ok {
		t.Error("expected unrecognized ANSI mode to report false")
	}
}

func TestModesReset(t *testing.T) {
	m := NewModes()
	m.SetDecMode(1049, true)
	m.SetAnsiMode(4, true)
	m.Reset()
	if m != NewModes() {
		t.Error("expected Reset to restore power-on defaults")
	}
}
