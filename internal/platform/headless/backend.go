// Package headless is an in-memory host. It queues scripted events and
// records every renderer call, which makes it the test double for the
// platform core and a display-less backend for smoke runs.
package headless

import (
	"errors"
	"fmt"
	"image"
	"time"

	"rein/internal/platform"
)

var ErrTextureRejected = errors.New("texture rejected")

const idleWait = 10 * time.Millisecond

type Backend struct {
	platform.Queue

	Title   string
	Mode    platform.WindowMode
	Icon    []byte
	Partial bool
	// FailTextures makes CreateTexture fail until cleared.
	FailTextures bool
	// Keys maps key codes to names; unknown codes become "key<N>".
	Keys map[int]string

	Captured    bool
	TextInput   bool
	Created     int
	Destroyed   int
	Presents    int
	Updates     []Update
	Copies      []*image.Rectangle
	MaxFrames   int
	FrameCalled int

	w, h   int
	closed bool
}

// Update is one recorded texture upload.
type Update struct {
	Rect  *image.Rectangle
	Pitch int
	// First holds the first four bytes of the uploaded pixels.
	First [4]byte
	Len   int
}

func New(w, h int) *Backend {
	return &Backend{w: w, h: h, Partial: true, Keys: map[int]string{}}
}

// Resize changes the window size and queues the matching resize event.
func (b *Backend) Resize(w, h int) {
	b.w, b.h = w, h
	b.Push(platform.HostEvent{Kind: platform.HostWindow, Window: platform.WindowResized, Data1: w, Data2: h})
}

func (b *Backend) Pending() int { return b.Len() }

// PollEvent reports quit forever once the window is closed.
func (b *Backend) PollEvent() (platform.HostEvent, bool) {
	if b.closed {
		return platform.HostEvent{Kind: platform.HostQuit}, true
	}
	return b.Queue.PollEvent()
}

func (b *Backend) KeyName(key int) string {
	if name, ok := b.Keys[key]; ok {
		return name
	}
	return fmt.Sprintf("Key%d", key)
}

func (b *Backend) CaptureMouse(on bool) error {
	b.Captured = on
	return nil
}

func (b *Backend) WindowSize() (int, int) { return b.w, b.h }

func (b *Backend) CreateTexture(w, h int) (platform.Texture, error) {
	if b.FailTextures {
		return nil, ErrTextureRejected
	}
	b.Created++
	return &texture{b: b, w: w, h: h}, nil
}

func (b *Backend) Copy(_ platform.Texture, rect *image.Rectangle) error {
	b.Copies = append(b.Copies, rect)
	return nil
}

func (b *Backend) Present()             { b.Presents++ }
func (b *Backend) PartialUpdates() bool { return b.Partial }

func (b *Backend) SetTitle(title string)            { b.Title = title }
func (b *Backend) SetMode(mode platform.WindowMode) { b.Mode = mode }
func (b *Backend) StartTextInput()                  { b.TextInput = true }
func (b *Backend) Scale() float64                   { return 1 }
func (b *Backend) Name() string                     { return "headless" }

// SetIcon ignores icons whose pixels do not cover w*h.
func (b *Backend) SetIcon(pix []byte, w, h int) {
	if w <= 0 || h <= 0 || len(pix) < w*h*4 {
		return
	}
	b.Icon = append([]byte(nil), pix[:w*h*4]...)
}

// WaitEvent sleeps out the timeout when nothing is queued. Nothing can be
// pushed while it sleeps, so a negative timeout sleeps for idleWait instead
// of forever.
func (b *Backend) WaitEvent(timeout time.Duration) bool {
	if b.Len() > 0 || b.closed {
		return true
	}
	if timeout < 0 {
		timeout = idleWait
	}
	time.Sleep(timeout)
	return false
}

// Run calls frame until it stops the loop, or MaxFrames frames when set.
func (b *Backend) Run(frame func() error) error {
	for b.MaxFrames <= 0 || b.FrameCalled < b.MaxFrames {
		b.FrameCalled++
		if err := frame(); err != nil {
			if errors.Is(err, platform.ErrQuit) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (b *Backend) Close() { b.closed = true }

type texture struct {
	b    *Backend
	w, h int
}

func (t *texture) Size() (int, int) { return t.w, t.h }

func (t *texture) Update(rect *image.Rectangle, pixels []byte, pitch int) error {
	u := Update{Rect: rect, Pitch: pitch, Len: len(pixels)}
	copy(u.First[:], pixels)
	t.b.Updates = append(t.b.Updates, u)
	return nil
}

func (t *texture) Destroy() { t.b.Destroyed++ }
