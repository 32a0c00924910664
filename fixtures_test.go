package rendercore

import "testing"

func TestParseFixtureDecodesSimplePrint(t *testing.T) {
	doc := []byte(`{
		"name": "plain-print",
		"description": "prints two ASCII characters",
		"initial_size": [10, 1],
		"input_bytes_hex": "4869",
		"expected": {
			"cursor": {"row": 0, "col": 2},
			"cells": [
				{"row": 0, "col": 0, "char": "H"},
				{"row": 0, "col": 1, "char": "i"}
			]
		}
	}`)

	fx, err := ParseFixture(doc)
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	failures, err := fx.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range failures {
		t.Errorf("fixture %q: %s", fx.Name, f.Reason)
	}
}

func TestParseFixtureChecksBoldAttrAndNamedFg(t *testing.T) {
	doc := []byte(`{
		"name": "bold-named-fg",
		"description": "sets bold and a named foreground before printing",
		"initial_size": [10, 1],
		"input_bytes_hex": "1b5b313b33316d4869",
		"expected": {
			"cursor": {"row": 0, "col": 2},
			"cells": [
				{"row": 0, "col": 0, "char": "H", "attrs": {"bold": true, "fg_color": {"named": 1}}},
				{"row": 0, "col": 1, "char": "i", "attrs": {"bold": true, "fg_color": {"named": 1}}}
			]
		}
	}`)

	fx, err := ParseFixture(doc)
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	failures, err := fx.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range failures {
		t.Errorf("fixture %q: %s", fx.Name, f.Reason)
	}
}

func TestFixtureRunReportsCursorMismatch(t *testing.T) {
	doc := []byte(`{
		"name": "wrong-cursor",
		"description": "deliberately wrong expected cursor",
		"initial_size": [10, 1],
		"input_bytes_hex": "4869",
		"expected": {
			"cursor": {"row": 0, "col": 5},
			"cells": []
		}
	}`)

	fx, err := ParseFixture(doc)
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	failures, err := fx.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("expected exactly one failure, got %d: %+v", len(failures), failures)
	}
}

func TestFixtureRunReportsCellCharMismatch(t *testing.T) {
	doc := []byte(`{
		"name": "wrong-char",
		"description": "deliberately wrong expected char",
		"initial_size": [10, 1],
		"input_bytes_hex": "4869",
		"expected": {
			"cursor": {"row": 0, "col": 2},
			"cells": [{"row": 0, "col": 0, "char": "X"}]
		}
	}`)

	fx, err := ParseFixture(doc)
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	failures, err := fx.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("expected exactly one failure, got %d: %+v", len(failures), failures)
	}
}

func TestFixtureColorUnmarshalsAllTaggedForms(t *testing.T) {
	cases := []struct {
		json string
		want Color
	}{
		{`"default"`, DefaultColor},
		{`{"named": 3}`, NamedColor(3)},
		{`{"indexed": 200}`, IndexedColor(200)},
		{`{"rgb": [10, 20, 30]}`, RGBColor(10, 20, 30)},
	}
	for _, c := range cases {
		var fc FixtureColor
		if err := fc.UnmarshalJSON([]byte(c.json)); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", c.json, err)
		}
		if !fc.color.Equal(c.want) {
			t.Errorf("UnmarshalJSON(%s) = %s, want %s", c.json, fc.color, c.want)
		}
	}
}

func TestFixtureColorUnmarshalRejectsUnknownTag(t *testing.T) {
	var fc FixtureColor
	if err := fc.UnmarshalJSON([]byte(`"not-a-color"`)); err == nil {
		t.Error("expected an error for an unrecognized bare color tag")
	}
}
