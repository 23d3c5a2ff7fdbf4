package platform

import (
	"image"
	"time"
)

type WindowMode int

const (
	WindowNormal WindowMode = iota
	WindowMaximized
	WindowFullscreen
)

var windowModes = map[string]WindowMode{
	"":           WindowNormal,
	"normal":     WindowNormal,
	"maximized":  WindowMaximized,
	"fullscreen": WindowFullscreen,
}

// ParseWindowMode maps "normal", "maximized" or "fullscreen" to a mode.
// The empty string means normal.
func ParseWindowMode(name string) (WindowMode, bool) {
	mode, ok := windowModes[name]
	return mode, ok
}

type WindowConfig struct {
	Title string
	// Initial size as a fraction of the current display mode.
	WidthFraction  float64
	HeightFraction float64
	Mode           WindowMode
}

type HostEventKind int

const (
	HostOther HostEventKind = iota
	HostQuit
	HostDidEnterBackground
	HostDidEnterForeground
	HostWindow
	HostKeyDown
	HostKeyUp
	HostTextInput
	HostTextEditing
	HostMouseButtonDown
	HostMouseButtonUp
	HostMouseMotion
	HostMouseWheel
)

type WindowEventKind int

const (
	WindowOther WindowEventKind = iota
	WindowResized
	WindowExposed
	WindowRestored
	WindowFocusGained
)

// HostEvent is a raw event as queued by the host library. Only the fields
// relevant to Kind are set.
type HostEvent struct {
	Kind   HostEventKind
	Window WindowEventKind
	Data1  int
	Data2  int
	Key    int
	Text   string
	Button int
	Clicks int
	X      int
	Y      int
	DX     int
	DY     int
	WheelY int
}

// EventQueue is the host event queue as seen by the normalizer.
type EventQueue interface {
	// PollEvent pops the next event of any kind.
	PollEvent() (HostEvent, bool)
	// TakeEvent pops the next queued event of the given kind, skipping others.
	TakeEvent(kind HostEventKind) (HostEvent, bool)
	// FlushEvents drops every queued event of the given kinds.
	FlushEvents(kinds ...HostEventKind)
	KeyName(key int) string
	CaptureMouse(on bool) error
}

// Texture is a GPU streaming texture in ABGR8888 format.
type Texture interface {
	Size() (int, int)
	// Update uploads pixels into rect, or the whole texture when rect is nil.
	// pixels starts at the first byte of the rectangle; rows are pitch bytes apart.
	Update(rect *image.Rectangle, pixels []byte, pitch int) error
	Destroy()
}

type Renderer interface {
	WindowSize() (int, int)
	CreateTexture(w, h int) (Texture, error)
	// Copy draws rect of tex to the same rect of the window, or all of it when rect is nil.
	Copy(tex Texture, rect *image.Rectangle) error
	Present()
	// PartialUpdates reports whether sub-rectangle uploads are safe. Fixed at window creation.
	PartialUpdates() bool
}

type Window interface {
	SetTitle(title string)
	SetMode(mode WindowMode)
	SetIcon(pix []byte, w, h int)
	StartTextInput()
	// WaitEvent blocks until an event is queued or timeout passes. A zero
	// timeout polls once, a negative one waits forever.
	WaitEvent(timeout time.Duration) bool
	Scale() float64
	Name() string
}

type Host interface {
	EventQueue
	Renderer
	Window
	// Run drives frame on the host's UI thread until frame returns ErrQuit
	// or another error.
	Run(frame func() error) error
	Close()
}
