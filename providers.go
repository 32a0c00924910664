package rendercore

import "io"

// ResponseProvider writes terminal responses (e.g., query replies) back to
// the application. Typically an io.Writer connected to the pty's input
// side. TerminalEngine does not use one: it returns reply bytes from
// TerminalEngine.Write, which a caller can copy into a ResponseProvider.
type ResponseProvider = io.Writer

// NoopResponse discards all response data (useful when responses are not needed).
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// --- Bell Provider ---

// BellProvider handles bell/beep events triggered by BEL (0x07).
type BellProvider interface {
	// Ring is called when a bell character is received.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// --- Title Provider ---

// TitleProvider handles window title changes (OSC 0, 1, 2).
type TitleProvider interface {
	// SetTitle is called when the title changes.
	SetTitle(title string)
}

// NoopTitle ignores all title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}

// --- Clipboard Provider ---

// ClipboardProvider handles clipboard read/write operations (OSC 52).
// Write receives the already-decoded payload; TerminalEngine does not call
// Write for a read query (ClipboardB64 == "?"), an empty payload, or a
// payload that is not valid base64. TerminalEngine never calls Read.
type ClipboardProvider interface {
	// Read returns content from the specified clipboard ('c' for clipboard, 'p' for primary selection).
	Read(clipboard byte) string
	// Write stores content to the specified clipboard.
	Write(clipboard byte, data []byte)
}

// NoopClipboard ignores all clipboard operations.
type NoopClipboard struct{}

func (NoopClipboard) Read(clipboard byte) string        { return "" }
func (NoopClipboard) Write(clipboard byte, data []byte) {}

// --- Recording Provider ---

// RecordingProvider captures raw input bytes before ANSI parsing, for
// replay or debugging (spec.md §6 "test fixture format" sources its input
// recordings this way).
type RecordingProvider interface {
	// Record appends raw bytes to the recording.
	Record(data []byte)
	// Data returns all captured bytes since the last Clear call.
	Data() []byte
	// Clear discards all recorded data.
	Clear()
}

// NoopRecording discards all input recordings.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

var (
	_ ResponseProvider  = NoopResponse{}
	_ BellProvider      = (*NoopBell)(nil)
	_ TitleProvider     = (*NoopTitle)(nil)
	_ ClipboardProvider = (*NoopClipboard)(nil)
	_ RecordingProvider = (*NoopRecording)(nil)
)
