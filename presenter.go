package rendercore

import "strconv"

// Presenter turns a diff (a list of Patch values, already row-major and
// position-ascending per BufferDiff's contract) into the minimal ANSI byte
// stream that reproduces it on a real terminal: cursor moves only when the
// cursor isn't already where the next run starts, SGR emitted only for the
// attributes that actually changed, and adjacent same-style cells coalesced
// into a single run before the next cursor move.
//
// The run-coalescing technique is grounded on the teacher's
// snapshot.go lineToSegments/segmentMatches (runs of cells sharing style),
// adapted here to emit live ANSI instead of a JSON snapshot. Capability
// degradation reuses color.go's resolveRGB/nearestNamed/nearestIndexed
// (spec.md §4.5 "Presenter").
type Presenter struct {
	caps TerminalCapabilities

	cursorKnown    bool
	curRow, curCol int

	attrsKnown bool
	curAttrs   SgrAttrs
	curLink    HyperlinkID

	syncOutput bool

	graphemes *GraphemePool

	evidence *EvidenceSink
}

// SetEvidenceSink attaches a sink that records one JSONL event each time a
// color is degraded below its requested kind for this presenter's
// capabilities (spec.md §6 "JSONL evidence": "every ... capability
// downgrade decision gets a JSONL event").
func (p *Presenter) SetEvidenceSink(sink *EvidenceSink) { p.evidence = sink }

// NewPresenter creates a presenter targeting the given capability profile.
func NewPresenter(caps TerminalCapabilities) *Presenter {
	return &Presenter{caps: caps}
}

// Reset forgets all cached cursor/SGR/link state, forcing the next Present
// call to emit a full positioning + style sequence for its first run. Call
// this after any write to the target that bypassed the presenter (spec.md
// §4.5 "state must be invalidated whenever the underlying stream is
// touched by another writer").
func (p *Presenter) Reset() {
	p.cursorKnown = false
	p.attrsKnown = false
	p.curLink = 0
}

// SetSyncOutput toggles synchronized-output bracketing (CSI ?2026h / ?2026l)
// around each Present call, used when both the engine's DecSyncOutput mode
// and the target's capabilities allow it (spec.md §4.5 "Synchronized
// output").
func (p *Presenter) SetSyncOutput(on bool) { p.syncOutput = on }

// SetGraphemePool attaches the pool used to re-expand Cell.Marks into
// trailing combining-mark runes when emitting content. Presenters built
// without one (or before this call) degrade to emitting only a cell's base
// rune, dropping any combining marks.
func (p *Presenter) SetGraphemePool(pool *GraphemePool) { p.graphemes = pool }

// Present renders patches (sorted row-major, column-ascending within a row)
// into an ANSI byte stream. links resolves hyperlink ids to URIs for OSC 8
// emission; pass nil if no patch carries a hyperlink.
func (p *Presenter) Present(patches []Patch, links *LinkRegistry) []byte {
	if len(patches) == 0 {
		return nil
	}
	var out []byte
	if p.syncOutput {
		out = append(out, "\x1b[?2026h"...)
	}
	i := 0
	for i < len(patches) {
		j := i + 1
		for j < len(patches) &&
			patches[j].Row == patches[i].Row &&
			patches[j].Col == patches[j-1].Col+1 &&
			sameStyle(patches[j].Cell, patches[j-1].Cell) {
			j++
		}
		run := patches[i:j]
		out = append(out, p.moveCursor(run[0].Row, run[0].Col)...)
		out = append(out, p.applyStyle(run[0].Cell, links)...)
		for _, pt := range run {
			if pt.Cell.IsWideContinuation() {
				continue
			}
			ch := pt.Cell.Content
			if ch == 0 {
				ch = ' '
			}
			out = append(out, []byte(string(ch))...)
			if pt.Cell.Marks != 0 && p.graphemes != nil {
				out = append(out, []byte(p.graphemes.Lookup(pt.Cell.Marks))...)
			}
		}
		p.curRow = run[0].Row
		p.curCol = run[0].Col + len(run)
		p.cursorKnown = true
		i = j
	}
	if p.syncOutput {
		out = append(out, "\x1b[?2026l"...)
	}
	return out
}

func sameStyle(a, b Cell) bool {
	return a.Attrs == b.Attrs && a.Hyperlink == b.Hyperlink
}

func (p *Presenter) moveCursor(row, col int) []byte {
	if p.cursorKnown && p.curRow == row && p.curCol == col {
		return nil
	}
	return []byte("\x1b[" + strconv.Itoa(row+1) + ";" + strconv.Itoa(col+1) + "H")
}

// applyStyle emits the minimal SGR (and OSC 8) sequence to move from the
// presenter's cached attrs/link to cell's, or nothing if unchanged.
func (p *Presenter) applyStyle(cell Cell, links *LinkRegistry) []byte {
	var out []byte
	if !p.attrsKnown || cell.Attrs != p.curAttrs {
		out = append(out, p.sgrFor(p.curAttrs, p.attrsKnown, cell.Attrs)...)
		p.curAttrs = cell.Attrs
		p.attrsKnown = true
	}
	if cell.Hyperlink != p.curLink {
		out = append(out, p.oscLinkFor(cell.Hyperlink, links)...)
		p.curLink = cell.Hyperlink
	}
	return out
}

func (p *Presenter) oscLinkFor(id HyperlinkID, links *LinkRegistry) []byte {
	if id == 0 || links == nil {
		return []byte("\x1b]8;;\x1b\\")
	}
	uri, ok := links.URI(id)
	if !ok {
		return []byte("\x1b]8;;\x1b\\")
	}
	return []byte("\x1b]8;;" + uri + "\x1b\\")
}

// sgrFlagInfo maps one SGR flag bit to its "on" parameter and the shared
// ECMA-48 "off" parameter that clears its whole attribute group (e.g. SGR
// 22 clears both bold and dim at once — there is no way to turn off only
// one of them).
type sgrFlagInfo struct {
	flag            SgrFlags
	onCode, offCode string
}

var sgrFlagTable = []sgrFlagInfo{
	{SgrBold, "1", "22"},
	{SgrDim, "2", "22"},
	{SgrItalic, "3", "23"},
	{SgrUnderline, "4", "24"},
	{SgrDoubleUnderline, "21", "24"},
	{SgrBlink, "5", "25"},
	{SgrInverse, "7", "27"},
	{SgrHidden, "8", "28"},
	{SgrStrikethrough, "9", "29"},
	{SgrOverline, "53", "55"},
}

// sgrOffCodeOrder fixes a deterministic emission order for the off-codes
// that can be triggered by sgrFor, independent of map iteration.
var sgrOffCodeOrder = []string{"22", "23", "24", "25", "27", "28", "29", "55"}

// sgrFor computes the symmetric difference between the presenter's cached
// attrs and target, emitting only the CSI...m codes needed to move between
// them — spec.md's "State cache" step 2: "SGR 0 is used only when the
// target requires clearing multiple attributes at once". With no cached
// state (oldKnown false) there's nothing to diff against, so it falls back
// to a full rebuild.
func (p *Presenter) sgrFor(old SgrAttrs, oldKnown bool, target SgrAttrs) []byte {
	if !oldKnown {
		return p.sgrFullRebuild(target)
	}

	turnedOff := old.Flags &^ target.Flags
	turnedOn := target.Flags &^ old.Flags

	triggeredOff := make(map[string]bool, len(sgrOffCodeOrder))
	for _, e := range sgrFlagTable {
		if turnedOff&e.flag != 0 {
			triggeredOff[e.offCode] = true
		}
	}

	fgCleared := old.Fg.Kind != ColorDefault && target.Fg.Kind == ColorDefault
	bgCleared := old.Bg.Kind != ColorDefault && target.Bg.Kind == ColorDefault
	ulCleared := old.HasUnderlineClr && !target.HasUnderlineClr

	clears := len(triggeredOff)
	if fgCleared {
		clears++
	}
	if bgCleared {
		clears++
	}
	if ulCleared {
		clears++
	}
	// Clearing two or more distinct attribute groups costs at least as many
	// bytes as a single "0" reset followed by re-applying the target's own
	// set bits, so prefer the reset in that case.
	if clears >= 2 {
		return p.sgrFullRebuild(target)
	}

	var params []string
	for _, code := range sgrOffCodeOrder {
		if !triggeredOff[code] {
			continue
		}
		params = append(params, code)
		// The group reset also clears any bit target still wants set;
		// make sure it gets re-applied below.
		for _, e := range sgrFlagTable {
			if e.offCode == code && target.Flags&e.flag != 0 {
				turnedOn |= e.flag
			}
		}
	}
	for _, e := range sgrFlagTable {
		if turnedOn&e.flag != 0 {
			params = append(params, e.onCode)
		}
	}
	if old.Fg != target.Fg {
		if target.Fg.Kind == ColorDefault {
			params = append(params, "39")
		} else {
			params = append(params, p.colorParams(target.Fg, true)...)
		}
	}
	if old.Bg != target.Bg {
		if target.Bg.Kind == ColorDefault {
			params = append(params, "49")
		} else {
			params = append(params, p.colorParams(target.Bg, false)...)
		}
	}
	if old.UnderlineColor != target.UnderlineColor || old.HasUnderlineClr != target.HasUnderlineClr {
		if !target.HasUnderlineClr {
			params = append(params, "59")
		} else {
			params = append(params, "58")
			params = append(params, p.underlineColorTail(target.UnderlineColor)...)
		}
	}

	if len(params) == 0 {
		return nil
	}
	return sgrSequence(params)
}

// sgrFullRebuild resets then emits every attribute target sets, used for
// the presenter's first style application and whenever a diff would need
// to clear more than one attribute group at once.
func (p *Presenter) sgrFullRebuild(attrs SgrAttrs) []byte {
	params := []string{"0"}
	if attrs.Flags&SgrBold != 0 {
		params = append(params, "1")
	}
	if attrs.Flags&SgrDim != 0 {
		params = append(params, "2")
	}
	if attrs.Flags&SgrItalic != 0 {
		params = append(params, "3")
	}
	if attrs.Flags&SgrUnderline != 0 {
		params = append(params, "4")
	}
	if attrs.Flags&SgrBlink != 0 {
		params = append(params, "5")
	}
	if attrs.Flags&SgrInverse != 0 {
		params = append(params, "7")
	}
	if attrs.Flags&SgrHidden != 0 {
		params = append(params, "8")
	}
	if attrs.Flags&SgrStrikethrough != 0 {
		params = append(params, "9")
	}
	if attrs.Flags&SgrDoubleUnderline != 0 {
		params = append(params, "21")
	}
	if attrs.Flags&SgrOverline != 0 {
		params = append(params, "53")
	}
	if attrs.Fg.Kind != ColorDefault {
		params = append(params, p.colorParams(attrs.Fg, true)...)
	}
	if attrs.Bg.Kind != ColorDefault {
		params = append(params, p.colorParams(attrs.Bg, false)...)
	}
	if attrs.HasUnderlineClr {
		params = append(params, "58")
		params = append(params, p.underlineColorTail(attrs.UnderlineColor)...)
	}
	return sgrSequence(params)
}

// sgrSequence joins SGR parameters into one "CSI params m" escape sequence.
func sgrSequence(params []string) []byte {
	s := "\x1b["
	for i, v := range params {
		if i > 0 {
			s += ";"
		}
		s += v
	}
	s += "m"
	return []byte(s)
}

func (p *Presenter) underlineColorTail(c Color) []string {
	switch p.degradedKind(c) {
	case ColorRGB:
		return []string{"2", strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B))}
	default:
		idx := p.degradedIndex(c)
		return []string{"5", strconv.Itoa(int(idx))}
	}
}

// degradedKind reports which representation a color should be emitted as
// given this presenter's capabilities, downgrading truecolor to indexed or
// named when unsupported.
func (p *Presenter) degradedKind(c Color) ColorKind {
	kind := c.Kind
	switch {
	case c.Kind == ColorRGB && !p.caps.Truecolor:
		if p.caps.Ansi256 {
			kind = ColorIndexed
		} else {
			kind = ColorNamed
		}
	case c.Kind == ColorIndexed && !p.caps.Ansi256:
		kind = ColorNamed
	}
	if kind != c.Kind && p.evidence != nil {
		p.evidence.Write(EvidenceRecord{DiffMode: "degrade_" + kind.String()})
	}
	return kind
}

// degradedIndex recomputes the degraded kind without recording evidence:
// its callers have already recorded the downgrade through degradedKind.
func (p *Presenter) degradedIndex(c Color) uint8 {
	kind := c.Kind
	switch {
	case c.Kind == ColorRGB && !p.caps.Truecolor && p.caps.Ansi256:
		kind = ColorIndexed
	case c.Kind == ColorRGB && !p.caps.Truecolor, c.Kind == ColorIndexed && !p.caps.Ansi256:
		kind = ColorNamed
	}
	switch kind {
	case ColorIndexed:
		if c.Kind == ColorRGB {
			return nearestIndexed([3]uint8{c.R, c.G, c.B})
		}
		return c.Index
	case ColorNamed:
		rgb := resolveRGB(c, [3]uint8{0, 0, 0})
		return nearestNamed(rgb)
	default:
		return c.Index
	}
}

// colorParams returns the SGR params for setting cell fg (isFg=true) or bg
// to c, degraded to this presenter's capabilities.
func (p *Presenter) colorParams(c Color, isFg bool) []string {
	base16 := 30
	bright16 := 90
	base256 := "38"
	if !isFg {
		base16, bright16, base256 = 40, 100, "48"
	}
	switch p.degradedKind(c) {
	case ColorRGB:
		return []string{base256, "2", strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B))}
	case ColorIndexed:
		idx := c.Index
		if c.Kind == ColorRGB {
			idx = nearestIndexed([3]uint8{c.R, c.G, c.B})
		}
		return []string{base256, "5", strconv.Itoa(int(idx))}
	case ColorNamed:
		idx := p.degradedIndex(c)
		if idx < 8 {
			return []string{strconv.Itoa(base16 + int(idx))}
		}
		return []string{strconv.Itoa(bright16 + int(idx) - 8)}
	default:
		return nil
	}
}
