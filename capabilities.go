package rendercore

import "os"

// TerminalCapabilities records which presentation features the output
// target supports, driving Presenter's degradation path (spec.md §4.5
// "Capability-gated degradation"). Grounded on
// _examples/original_source/crates/ftui-core/src/capability_override.rs,
// which distinguishes detected-from-environment capabilities from an
// explicit test override.
type TerminalCapabilities struct {
	Truecolor       bool
	Ansi256         bool
	BasicStyling    bool
	SyncOutput      bool
	MouseSGR        bool
	BracketedPaste  bool
	FocusEvents     bool
	Hyperlinks      bool
}

// FullCapabilities is the maximal capability set, used by HeadlessTerm and
// other in-process consumers that do not go through a real tty.
func FullCapabilities() TerminalCapabilities {
	return TerminalCapabilities{
		Truecolor:      true,
		Ansi256:        true,
		BasicStyling:   true,
		SyncOutput:     true,
		MouseSGR:       true,
		BracketedPaste: true,
		FocusEvents:    true,
		Hyperlinks:     true,
	}
}

// DetectCapabilities inspects COLORTERM/TERM (and the FTUI_FORCE_CAPS
// override) to approximate what a real terminal on the other end of the
// pipe supports. Supplemented feature: the FTUI_FORCE_CAPS environment
// variable (see applyOverrides) lets tests force a degraded terminal
// profile regardless of TERM/COLORTERM (spec.md SPEC_FULL.md §11).
func DetectCapabilities() TerminalCapabilities {
	caps := TerminalCapabilities{BasicStyling: true}

	term := os.Getenv("TERM")
	colorterm := os.Getenv("COLORTERM")

	caps.Truecolor = colorterm == "truecolor" || colorterm == "24bit"
	caps.Ansi256 = caps.Truecolor || containsSuffix(term, "256color")
	caps.SyncOutput = true
	caps.MouseSGR = term != "" && term != "dumb"
	caps.BracketedPaste = term != "" && term != "dumb"
	caps.FocusEvents = term != "" && term != "dumb"
	caps.Hyperlinks = term != "" && term != "dumb"

	return applyOverrides(caps)
}

func containsSuffix(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return s[len(s)-len(suffix):] == suffix
}

// applyOverrides lets FTUI_FORCE_CAPS pin a capability profile regardless
// of the detected environment: "none" degrades to basic styling only,
// "256" caps at indexed color, "truecolor" forces the maximal profile.
// Used by tests and by the showcase harness to exercise every degradation
// tier deterministically.
func applyOverrides(caps TerminalCapabilities) TerminalCapabilities {
	switch os.Getenv("FTUI_FORCE_CAPS") {
	case "none":
		return TerminalCapabilities{BasicStyling: true}
	case "256":
		caps.Truecolor = false
		caps.Ansi256 = true
		return caps
	case "truecolor":
		return FullCapabilities()
	default:
		return caps
	}
}
