package rendercore

import "bytes"

// FlickerReason identifies why a presented frame was flagged.
type FlickerReason uint8

const (
	// FlickerFullEraseUnnecessary: the frame cleared the whole screen (ED 2/3)
	// even though the semantic diff touched only a fraction of the grid —
	// the hallmark of the "clear-then-redraw" flicker spec.md exists to
	// eliminate (spec.md §1 "Purpose").
	FlickerFullEraseUnnecessary FlickerReason = iota
	// FlickerRoundTripMismatch: replaying the presented bytes through an
	// independent engine did not reproduce the source buffer exactly.
	FlickerRoundTripMismatch
	// FlickerOverEmission: the frame wrote bytes for one or more cells whose
	// content did not actually change since the prior frame.
	FlickerOverEmission
	// FlickerIntermediateVisibleState: the frame produced visible output
	// (printed content, or a cursor move that would expose it) outside the
	// synchronized-output bracket, letting a redrawing terminal paint a
	// half-finished frame.
	FlickerIntermediateVisibleState
)

// FlickerEvent is one detected anomaly in a presented frame.
type FlickerEvent struct {
	Reason    FlickerReason
	Positions []Position // populated for FlickerRoundTripMismatch and FlickerOverEmission
}

// unnecessaryEraseThreshold: an ED 2/3 is considered unnecessary when fewer
// than this fraction of cells actually changed since the prior frame.
const unnecessaryEraseThreshold = 0.5

// FlickerDetector replays Presenter output through a HeadlessTerm to check
// both correctness (round-trip equivalence, spec.md §8 invariant 1) and the
// three flicker conditions spec.md §4.7 names: unsynchronized clear-then-
// redraw, intermediate visible states outside a sync bracket, and byte
// over-emission for unchanged cells. Accumulates a prior-frame buffer across
// calls. Grounded on spec.md §4.7's FlickerDetector design, with the
// headless replay delegated to HeadlessTerm / BufferDiff.
type FlickerDetector struct {
	headless     *HeadlessTerm
	prior        *Buffer
	syncExpected bool
}

// NewFlickerDetector creates a detector seeded with a blank rows x cols
// prior frame.
func NewFlickerDetector(rows, cols int) *FlickerDetector {
	return &FlickerDetector{
		headless: NewHeadlessTerm(rows, cols),
		prior:    NewBuffer(rows, cols),
	}
}

// SetSyncExpected tells Check that presented frames are expected to bracket
// their visible writes in CSI ?2026h / ?2026l, matching Presenter's
// SetSyncOutput(true). With this off (the default), frames are never
// flagged for FlickerIntermediateVisibleState.
func (f *FlickerDetector) SetSyncExpected(on bool) { f.syncExpected = on }

// Check feeds presented bytes into the detector's independent engine and
// compares the result against expected (the buffer the presenter was meant
// to reproduce), returning every anomaly found. expected becomes the new
// prior frame for the next call regardless of outcome.
func (f *FlickerDetector) Check(presented []byte, expected *Buffer) []FlickerEvent {
	var events []FlickerEvent

	changed := BufferDiff{}.Compute(f.prior, expected)

	f.headless.Buffer().ClearDirty()
	f.headless.Feed(presented)
	if ok, diffs := f.headless.MatchesBuffer(expected); !ok {
		events = append(events, FlickerEvent{Reason: FlickerRoundTripMismatch, Positions: diffs})
	}

	if hasFullErase(presented) {
		total := expected.Rows() * expected.Cols()
		if total > 0 && float64(len(changed))/float64(total) < unnecessaryEraseThreshold {
			events = append(events, FlickerEvent{Reason: FlickerFullEraseUnnecessary})
		}
	}

	if over := f.overEmittedPositions(changed); len(over) > 0 {
		events = append(events, FlickerEvent{Reason: FlickerOverEmission, Positions: over})
	}

	if f.syncExpected && hasUnbracketedVisibleOutput(presented) {
		events = append(events, FlickerEvent{Reason: FlickerIntermediateVisibleState})
	}

	f.prior = expected
	return events
}

// overEmittedPositions compares every cell the headless replay actually
// touched (its dirty spans after Feed, cleared just beforehand) against the
// set of cells that really differ between the prior and expected frame.
// Any touched position outside that set received bytes for content that was
// already correct: over-emission.
func (f *FlickerDetector) overEmittedPositions(changed []Position) []Position {
	changedSet := make(map[Position]bool, len(changed))
	for _, p := range changed {
		changedSet[p] = true
	}

	buf := f.headless.Buffer()
	var over []Position
	for row := 0; row < buf.Rows(); row++ {
		if !buf.IsRowDirty(row) {
			continue
		}
		for _, span := range buf.DirtySpans(row) {
			for col := span.Start; col < span.End; col++ {
				pos := Position{Row: row, Col: col}
				if !changedSet[pos] {
					over = append(over, pos)
				}
			}
		}
	}
	return over
}

func hasFullErase(data []byte) bool {
	return bytes.Contains(data, []byte("\x1b[2J")) || bytes.Contains(data, []byte("\x1b[3J"))
}

var (
	syncBegin = []byte("\x1b[?2026h")
	syncEnd   = []byte("\x1b[?2026l")
)

// hasUnbracketedVisibleOutput reports whether data contains any byte that
// would produce or move visible content (a printable rune, a control byte
// that advances the cursor, or a cursor-positioning CSI sequence) outside an
// open syncBegin/syncEnd bracket. Escape sequences that only change state
// invisibly (SGR, mode sets, the sync brackets themselves) are not content.
func hasUnbracketedVisibleOutput(data []byte) bool {
	inSync := false
	for i := 0; i < len(data); {
		switch {
		case bytes.HasPrefix(data[i:], syncBegin):
			inSync = true
			i += len(syncBegin)
		case bytes.HasPrefix(data[i:], syncEnd):
			inSync = false
			i += len(syncEnd)
		case data[i] == 0x1b:
			seq, kind, n := scanEscapeSequence(data[i:])
			i += n
			if !inSync && kind == escCursorMove && seq {
				return true
			}
		case data[i] == '\r' || data[i] == '\n' || data[i] == '\b':
			i++
		default:
			if !inSync {
				return true
			}
			i++
		}
	}
	return false
}

type escKind uint8

const (
	escOther escKind = iota
	escCursorMove
)

// scanEscapeSequence consumes one escape sequence starting at data[0] ==
// ESC, returning whether it parsed as a recognized sequence, its kind, and
// how many bytes it consumed (at least 1, to always make progress).
func scanEscapeSequence(data []byte) (ok bool, kind escKind, n int) {
	if len(data) < 2 {
		return false, escOther, 1
	}
	switch data[1] {
	case '[':
		for i := 2; i < len(data); i++ {
			if data[i] >= 0x40 && data[i] <= 0x7e {
				final := data[i]
				isCursorMove := final == 'H' || final == 'f' || final == 'A' || final == 'B' ||
					final == 'C' || final == 'D' || final == 'E' || final == 'F' || final == 'G' || final == 'd'
				if isCursorMove {
					return true, escCursorMove, i + 1
				}
				return true, escOther, i + 1
			}
		}
		return false, escOther, len(data)
	case ']':
		if end := bytes.IndexByte(data[2:], 0x07); end >= 0 {
			return true, escOther, 2 + end + 1
		}
		if end := bytes.Index(data[2:], []byte("\x1b\\")); end >= 0 {
			return true, escOther, 2 + end + 2
		}
		return false, escOther, len(data)
	case '\\':
		return true, escOther, 2
	default:
		return true, escOther, 2
	}
}
