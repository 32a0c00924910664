package rendercore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Fixture is the JSON test-fixture format: feed input_bytes_hex into a fresh
// TerminalEngine of the given size and assert cursor position plus per-cell
// content/attrs. Grounded on conformance_fixtures.rs's Fixture/Expected/
// CellExpectation/ColorExpectation deserialization shape, reimplemented with
// encoding/json instead of serde.
type Fixture struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	InitialSize   [2]int          `json:"initial_size"` // [cols, rows]
	InputBytesHex string          `json:"input_bytes_hex"`
	Expected      FixtureExpected `json:"expected"`
}

// FixtureExpected is the set of assertions a fixture makes after replay.
type FixtureExpected struct {
	Cursor FixtureCursor `json:"cursor"`
	Cells  []FixtureCell `json:"cells"`
}

// FixtureCursor is the expected cursor position, 0-indexed.
type FixtureCursor struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// FixtureCell is one expected cell: content rune, and optionally its attrs.
type FixtureCell struct {
	Row   int           `json:"row"`
	Col   int           `json:"col"`
	Char  string        `json:"char"`
	Attrs *FixtureAttrs `json:"attrs,omitempty"`
}

// FixtureAttrs mirrors AttrExpectation: every SGR flag defaults false, and
// fg/bg are only checked when present.
type FixtureAttrs struct {
	Bold          bool          `json:"bold,omitempty"`
	Dim           bool          `json:"dim,omitempty"`
	Italic        bool          `json:"italic,omitempty"`
	Underline     bool          `json:"underline,omitempty"`
	Blink         bool          `json:"blink,omitempty"`
	Inverse       bool          `json:"inverse,omitempty"`
	Hidden        bool          `json:"hidden,omitempty"`
	Strikethrough bool          `json:"strikethrough,omitempty"`
	Overline      bool          `json:"overline,omitempty"`
	FgColor       *FixtureColor `json:"fg_color,omitempty"`
	BgColor       *FixtureColor `json:"bg_color,omitempty"`
}

// FixtureColor decodes the tagged color form spec.md §6 names:
// "default" | {"named": n} | {"indexed": n} | {"rgb": [r,g,b]} — the same
// externally-tagged shape serde gives ColorExpectation in the Rust source.
type FixtureColor struct {
	color Color
}

func (fc *FixtureColor) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != "default" {
			return fmt.Errorf("unknown bare color tag %q", tag)
		}
		fc.color = DefaultColor
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid color expectation: %w", err)
	}
	switch {
	case obj["named"] != nil:
		var n uint8
		if err := json.Unmarshal(obj["named"], &n); err != nil {
			return fmt.Errorf("invalid named color: %w", err)
		}
		fc.color = NamedColor(n)
	case obj["indexed"] != nil:
		var n uint8
		if err := json.Unmarshal(obj["indexed"], &n); err != nil {
			return fmt.Errorf("invalid indexed color: %w", err)
		}
		fc.color = IndexedColor(n)
	case obj["rgb"] != nil:
		var rgb [3]uint8
		if err := json.Unmarshal(obj["rgb"], &rgb); err != nil {
			return fmt.Errorf("invalid rgb color: %w", err)
		}
		fc.color = RGBColor(rgb[0], rgb[1], rgb[2])
	default:
		return fmt.Errorf("unrecognized color expectation: %s", data)
	}
	return nil
}

// ParseFixture decodes a single fixture JSON document.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads and parses one fixture from disk.
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadFixtureDir collects every *.json fixture found directly under root or
// one level of subdirectory, mirroring collect_fixture_paths's two-level
// walk (fixtures grouped into category subdirectories).
func LoadFixtureDir(root string) ([]*Fixture, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read fixture root %s: %w", root, err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			if filepath.Ext(entry.Name()) == ".json" {
				paths = append(paths, filepath.Join(root, entry.Name()))
			}
			continue
		}
		sub := filepath.Join(root, entry.Name())
		subEntries, err := os.ReadDir(sub)
		if err != nil {
			return nil, fmt.Errorf("read fixture dir %s: %w", sub, err)
		}
		for _, subEntry := range subEntries {
			if filepath.Ext(subEntry.Name()) == ".json" {
				paths = append(paths, filepath.Join(sub, subEntry.Name()))
			}
		}
	}

	fixtures := make([]*Fixture, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFixtureFile(p)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// FixtureFailure describes one assertion that did not hold after replay.
type FixtureFailure struct {
	Reason string
}

func (f FixtureFailure) Error() string { return f.Reason }

// Run replays the fixture's input against a fresh TerminalEngine sized
// initial_size = [cols, rows], then checks cursor position and every
// expected cell. Returns every mismatch found (not just the first), so a
// caller can report a complete picture of what diverged.
func (fx *Fixture) Run() ([]FixtureFailure, error) {
	raw, err := hex.DecodeString(fx.InputBytesHex)
	if err != nil {
		return nil, fmt.Errorf("fixture %q: bad input_bytes_hex: %w", fx.Name, err)
	}

	cols, rows := fx.InitialSize[0], fx.InitialSize[1]
	e := NewTerminalEngine(rows, cols)
	e.Write(raw)

	var failures []FixtureFailure

	row, col := e.CursorPosition()
	if row != fx.Expected.Cursor.Row || col != fx.Expected.Cursor.Col {
		failures = append(failures, FixtureFailure{Reason: fmt.Sprintf(
			"cursor mismatch: got (%d,%d), expected (%d,%d)",
			row, col, fx.Expected.Cursor.Row, fx.Expected.Cursor.Col)})
	}

	for _, want := range fx.Expected.Cells {
		got, ok := e.Buffer().Get(want.Row, want.Col)
		if !ok {
			failures = append(failures, FixtureFailure{Reason: fmt.Sprintf(
				"cell out of bounds (%d,%d)", want.Row, want.Col)})
			continue
		}

		wantRunes := []rune(want.Char)
		if len(wantRunes) != 1 {
			failures = append(failures, FixtureFailure{Reason: fmt.Sprintf(
				"expected char string at (%d,%d) must be exactly 1 rune, got %q",
				want.Row, want.Col, want.Char)})
			continue
		}
		if got.Content != wantRunes[0] {
			failures = append(failures, FixtureFailure{Reason: fmt.Sprintf(
				"char mismatch at (%d,%d): got %q, expected %q",
				want.Row, want.Col, got.Content, wantRunes[0])})
		}

		if want.Attrs != nil {
			failures = append(failures, checkFixtureAttrs(want.Row, want.Col, *want.Attrs, got.Attrs)...)
		}
	}

	return failures, nil
}

func checkFixtureAttrs(row, col int, want FixtureAttrs, got SgrAttrs) []FixtureFailure {
	var failures []FixtureFailure
	assertFlag := func(name string, flag SgrFlags, wantSet bool) {
		if gotSet := got.Flags&flag != 0; gotSet != wantSet {
			failures = append(failures, FixtureFailure{Reason: fmt.Sprintf(
				"%s mismatch at (%d,%d): got %v, expected %v", name, row, col, gotSet, wantSet)})
		}
	}
	assertFlag("bold", SgrBold, want.Bold)
	assertFlag("dim", SgrDim, want.Dim)
	assertFlag("italic", SgrItalic, want.Italic)
	assertFlag("underline", SgrUnderline, want.Underline)
	assertFlag("blink", SgrBlink, want.Blink)
	assertFlag("inverse", SgrInverse, want.Inverse)
	assertFlag("hidden", SgrHidden, want.Hidden)
	assertFlag("strikethrough", SgrStrikethrough, want.Strikethrough)
	assertFlag("overline", SgrOverline, want.Overline)

	if want.FgColor != nil && !want.FgColor.color.Equal(got.Fg) {
		failures = append(failures, FixtureFailure{Reason: fmt.Sprintf(
			"fg_color mismatch at (%d,%d): got %s, expected %s", row, col, got.Fg, want.FgColor.color)})
	}
	if want.BgColor != nil && !want.BgColor.color.Equal(got.Bg) {
		failures = append(failures, FixtureFailure{Reason: fmt.Sprintf(
			"bg_color mismatch at (%d,%d): got %s, expected %s", row, col, got.Bg, want.BgColor.color)})
	}
	return failures
}
