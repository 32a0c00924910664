// Package rendercore is a deterministic, flicker-free render core for
// terminal UIs: an incremental VT/ANSI parser, a span-dirty cell grid, a
// Bayesian diff-strategy selector, and a minimal-byte ANSI presenter, wired
// together behind a headless round-trip oracle for testing.
//
// # Quick Start
//
//	engine := rendercore.NewTerminalEngine(24, 80)
//	engine.Write([]byte("\x1b[31mHello \x1b[32mWorld\x1b[0m!"))
//	for _, line := range engine.Buffer().LineContent(0) {
//	    _ = line
//	}
//
// # Architecture
//
//   - [Parser]: incremental VT/ANSI state machine, bytes in, [Action] out
//   - [TerminalEngine]: applies Actions to a [Buffer], owns cursor/pen/modes
//   - [Buffer]: a fixed-size cell grid with span-based dirty tracking
//   - [BufferDiff]: computes minimal [Patch] sets between two buffers
//   - [DiffStrategy]: chooses full/dirty/span/redraw diff mode from observed
//     change rates, using a decayed Beta-Bernoulli posterior
//   - [Presenter]: turns a Patch list into minimal ANSI output bytes
//   - [OutputActor]: a mailbox-driven goroutine coalescing renders/resizes
//   - [HeadlessTerm] / [FlickerDetector]: a round-trip oracle for verifying
//     that presented bytes reproduce the intended buffer with no wasted
//     erase-and-redraw
//
// # Terminal Engine
//
// TerminalEngine implements [io.Writer]-like byte ingestion via Write, which
// feeds the parser and applies every resulting Action, returning any reply
// bytes (device status, cursor position reports, etc.) the application
// should write back to the pty:
//
//	engine := rendercore.NewTerminalEngine(24, 80)
//	reply := engine.Write(ptyOutput)
//	if len(reply) > 0 {
//	    ptyInput.Write(reply)
//	}
//
// # Dual Buffers
//
// TerminalEngine maintains a main and an alternate buffer; DEC private mode
// 1049 swaps between them (used by full-screen apps). The active buffer is
// always returned by [TerminalEngine.Buffer].
//
// # Cells and Attributes
//
// Each [Cell] stores a Unicode scalar, its display width, cell-level flags
// (wide-character leading/continuation), SGR attributes, a hyperlink id, and
// an optional interned combining-mark suffix (see [GraphemePool]):
//
//	cell, _ := engine.Buffer().Get(row, col)
//	fmt.Printf("%c bold=%v fg=%v\n", cell.Content,
//	    cell.Attrs.Flags&rendercore.SgrBold != 0, cell.Attrs.Fg)
//
// # Colors
//
// [Color] covers the default color, 16 named colors, the 256-color palette,
// and 24-bit RGB. [TerminalCapabilities] describes what the output target
// can render; the [Presenter] degrades RGB/256-color cells down to the
// nearest supported representation when capabilities are limited.
//
// # Dirty Tracking and Diffing
//
// Buffer tracks per-row dirty state with a bounded span list per row,
// overflowing to whole-row-dirty past [maxSpansPerRow] touched spans.
// [BufferDiff] consumes this to compute a [Patch] list in one of several
// modes; [DiffStrategy] picks the cheapest mode for the observed dirty
// fraction using a cost model calibrated against row/scan/emit costs.
//
// # Presenter
//
// Presenter emits ANSI only for what changed: cursor motion is skipped when
// the cursor is already in position, SGR is skipped when style hasn't
// changed, and adjacent same-style cells on a row coalesce into one run.
// Synchronized-output bracketing (CSI ?2026h/l) wraps each Present call when
// enabled, preventing partial-frame tearing on the physical terminal.
//
// # Output Actor
//
// [OutputActor] runs a single goroutine reading a bounded mailbox of log,
// render, resize, and mode-change messages; within a batch it coalesces to
// the last render and the last resize, then presents one frame per drain.
// This absorbs bursts (rapid resizes, chatty logging) without the consumer
// ever seeing more writes than necessary.
//
// # Providers
//
// Providers handle terminal events. All are optional with no-op defaults:
//
//   - [BellProvider]: handles bell/beep events
//   - [TitleProvider]: handles window title changes (OSC 0/1/2)
//   - [ClipboardProvider]: handles clipboard read/write (OSC 52)
//   - [RecordingProvider]: captures raw input bytes for replay
//
// # Middleware
//
// [Middleware] intercepts TerminalEngine.Apply calls per action kind:
//
//	mw := &rendercore.Middleware{
//	    Print: func(r rune, next func(rune)) {
//	        log.Printf("print %q", r)
//	        next(r)
//	    },
//	    Bell: func(next func()) {
//	        // don't call next: suppress the bell
//	    },
//	}
//	engine.SetMiddleware(mw)
//
// # Headless Round-Trip and Flicker Detection
//
// [HeadlessTerm] replays presented bytes through a fresh engine and compares
// the result against the buffer that produced them; [FlickerDetector] layers
// this with a heuristic that flags a full-screen erase sequence emitted when
// the actual prior-to-expected diff touched only a small fraction of the
// grid — the signature of unnecessary flicker.
//
// # Evidence Sink
//
// [EvidenceSink] writes one JSON line per rendered frame (diff mode chosen,
// cells scanned/changed, bytes emitted) to stdout or a rotating log file,
// for offline analysis of render behavior. Each line also has a
// flicker_events field, which [OutputActor] leaves at 0: it runs no
// [FlickerDetector].
package rendercore
