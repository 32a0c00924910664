package rendercore

import (
	"io"
	"sync"
)

// actorMsgKind discriminates the output actor's mailbox message union
// (spec.md §5 "message set"). Constants and capacities are grounded on
// _examples/original_source/crates/frankenterm-core/src/render_thread.rs:
// channel capacity 256, log chunk limit 64 per drain iteration, error
// channel capacity 8.
type actorMsgKind uint8

const (
	actMsgLog actorMsgKind = iota
	actMsgRender
	actMsgResize
	actMsgSetMode
	actMsgShutdown
)

const (
	actorChanCapacity = 256
	actorLogChunkLimit = 64
	actorErrChanCapacity = 8
)

type actorMessage struct {
	kind actorMsgKind

	logData []byte

	renderBuf *Buffer

	resizeRows, resizeCols int

	modePrivate bool
	modeCode    int
	modeOn      bool
}

// OutputActor serializes writes to a single output stream from possibly
// many producers: raw log bytes, rendered frames (diffed and presented),
// resize notifications, and mode changes, coalescing bursts of renders and
// resizes so a fast producer cannot make the actor redraw every
// intermediate frame (spec.md §5 "Concurrency & Resource Model").
type OutputActor struct {
	in       chan actorMessage
	errCh    chan error
	done     chan struct{}
	wg       sync.WaitGroup

	out       io.Writer
	presenter *Presenter
	strategy  *DiffStrategy
	links     *LinkRegistry

	priorBuf *Buffer

	pendingLogs [][]byte // carried over when a batch exceeds the log chunk limit

	evidence *EvidenceSink
}

// NewOutputActor creates an actor writing presented frames and raw log
// bytes to out.
func NewOutputActor(out io.Writer, caps TerminalCapabilities, links *LinkRegistry) *OutputActor {
	return &OutputActor{
		in:        make(chan actorMessage, actorChanCapacity),
		errCh:     make(chan error, actorErrChanCapacity),
		done:      make(chan struct{}),
		out:       out,
		presenter: NewPresenter(caps),
		strategy:  NewDiffStrategy(),
		links:     links,
	}
}

// SetEvidenceSink attaches a sink that records one JSONL line per presented
// frame (spec.md §6 "JSONL evidence"). A disabled sink (the default from
// NewEvidenceSink with Enabled: false) is safe to attach unconditionally
// since its Write is a no-op.
func (a *OutputActor) SetEvidenceSink(sink *EvidenceSink) {
	a.evidence = sink
	a.presenter.SetEvidenceSink(sink)
}

// SetGraphemePool attaches the source engine's combining-mark pool so
// presented frames re-expand Cell.Marks instead of dropping them.
func (a *OutputActor) SetGraphemePool(pool *GraphemePool) {
	a.presenter.SetGraphemePool(pool)
}

// Start launches the actor's processing goroutine. Call once.
func (a *OutputActor) Start() {
	a.wg.Add(1)
	go a.run()
}

// Errors returns the channel non-fatal write errors are reported on.
func (a *OutputActor) Errors() <-chan error { return a.errCh }

// SendLog enqueues raw bytes (e.g. application stderr passthrough) to be
// written ahead of the next rendered frame. Returns false if the mailbox is
// full and the message was dropped.
func (a *OutputActor) SendLog(data []byte) bool {
	cp := make([]byte, len(data))
	copy(cp, data)
	return a.send(actorMessage{kind: actMsgLog, logData: cp})
}

// SendRender enqueues a frame to diff against the last presented buffer and
// emit. Only the most recently enqueued Render survives if several pile up
// before the actor drains its mailbox.
func (a *OutputActor) SendRender(buf *Buffer) bool {
	return a.send(actorMessage{kind: actMsgRender, renderBuf: buf})
}

// SendResize enqueues a resize; like Render, only the latest of a burst is
// applied (spec.md SPEC_FULL.md §11 "resize-storm pacing").
func (a *OutputActor) SendResize(rows, cols int) bool {
	return a.send(actorMessage{kind: actMsgResize, resizeRows: rows, resizeCols: cols})
}

// SendSetMode enqueues a mode change affecting presentation (currently only
// DecSyncOutput is observed by the presenter).
func (a *OutputActor) SendSetMode(private bool, code int, on bool) bool {
	return a.send(actorMessage{kind: actMsgSetMode, modePrivate: private, modeCode: code, modeOn: on})
}

// Shutdown enqueues a shutdown message and blocks until the actor's
// goroutine exits.
func (a *OutputActor) Shutdown() {
	a.send(actorMessage{kind: actMsgShutdown})
	a.wg.Wait()
}

func (a *OutputActor) send(msg actorMessage) bool {
	select {
	case a.in <- msg:
		return true
	default:
		return false
	}
}

func (a *OutputActor) run() {
	defer a.wg.Done()
	for {
		msg, ok := <-a.in
		if !ok {
			return
		}
		batch := []actorMessage{msg}
	drain:
		for {
			select {
			case m, ok2 := <-a.in:
				if !ok2 {
					break drain
				}
				batch = append(batch, m)
			default:
				break drain
			}
		}
		if a.processBatch(batch) {
			close(a.done)
			return
		}
	}
}

// processBatch coalesces a drained batch of messages: the last Render and
// last Resize each win, logs are flushed up to the chunk limit (excess
// carried to the next iteration), SetMode applies every entry in order
// since mode flips are cheap and rare. Returns true if the batch contained
// a shutdown request.
func (a *OutputActor) processBatch(batch []actorMessage) bool {
	var lastRender *Buffer
	var resizeRows, resizeCols int
	haveResize := false
	shutdown := false

	for _, m := range batch {
		switch m.kind {
		case actMsgLog:
			a.pendingLogs = append(a.pendingLogs, m.logData)
		case actMsgRender:
			lastRender = m.renderBuf
		case actMsgResize:
			resizeRows, resizeCols = m.resizeRows, m.resizeCols
			haveResize = true
		case actMsgSetMode:
			if m.modePrivate && m.modeCode == 2026 {
				a.presenter.SetSyncOutput(m.modeOn)
			}
		case actMsgShutdown:
			shutdown = true
		}
	}

	a.flushLogs()
	if shutdown {
		for len(a.pendingLogs) > 0 {
			a.flushLogs()
		}
	}

	if haveResize {
		a.presenter.Reset()
		if a.priorBuf != nil {
			a.priorBuf = NewBuffer(resizeRows, resizeCols)
		}
	}

	if lastRender != nil {
		a.presentFrame(lastRender)
	}

	return shutdown
}

func (a *OutputActor) flushLogs() {
	n := len(a.pendingLogs)
	if n > actorLogChunkLimit {
		n = actorLogChunkLimit
	}
	for i := 0; i < n; i++ {
		if _, err := a.out.Write(a.pendingLogs[i]); err != nil {
			a.reportError(err)
		}
	}
	a.pendingLogs = a.pendingLogs[n:]
}

func (a *OutputActor) presentFrame(next *Buffer) {
	if a.priorBuf == nil || a.priorBuf.Rows() != next.Rows() || a.priorBuf.Cols() != next.Cols() {
		a.priorBuf = NewBuffer(next.Rows(), next.Cols())
	}
	mode := a.strategy.Choose(next.Rows(), next.Cols(), countDirtyRows(next))
	var patches []Patch
	switch mode {
	case DiffModeRedraw:
		patches = make([]Patch, 0, next.Rows()*next.Cols())
		for row := 0; row < next.Rows(); row++ {
			for col := 0; col < next.Cols(); col++ {
				cell, _ := next.Get(row, col)
				patches = append(patches, Patch{Row: row, Col: col, Cell: cell})
			}
		}
	case DiffModeDirty:
		patches = BufferDiff{}.ComputePatchDirty(a.priorBuf, next)
	case DiffModeSpanDirty:
		patches = BufferDiff{}.ComputePatchSpanDirty(a.priorBuf, next)
	default:
		patches = BufferDiff{}.ComputePatch(a.priorBuf, next)
	}
	changed := len(patches)
	if mode == DiffModeRedraw {
		changed = len(BufferDiff{}.Compute(a.priorBuf, next))
	}
	total := next.Rows() * next.Cols()
	a.strategy.Observe(total, changed)

	out := a.presenter.Present(patches, a.links)
	if len(out) > 0 {
		if _, err := a.out.Write(out); err != nil {
			a.reportError(err)
		}
	}

	if a.evidence != nil {
		a.evidence.Write(EvidenceRecord{
			DiffMode:     mode.String(),
			CellsScanned: total,
			CellsChanged: changed,
			BytesEmitted: len(out),
		})
	}

	a.priorBuf = next
}

func countDirtyRows(b *Buffer) int {
	n := 0
	for r := 0; r < b.Rows(); r++ {
		if b.IsRowDirty(r) {
			n++
		}
	}
	return n
}

func (a *OutputActor) reportError(err error) {
	select {
	case a.errCh <- err:
	default:
	}
}
