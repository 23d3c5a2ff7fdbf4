// Package system is the primitive-valued surface the script layer binds:
// every operation takes and returns strings, numbers and booleans.
package system

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"

	"rein/internal/platform"
	"rein/internal/render"
)

var ErrBadOption = errors.New("invalid option")

type System struct {
	host   platform.Host
	ctx    *platform.Context
	events *platform.Normalizer
	start  time.Time
}

func New(host platform.Host, ctx *platform.Context, events *platform.Normalizer) *System {
	return &System{host: host, ctx: ctx, events: events, start: time.Now()}
}

// Poll returns the next event as a tag-first tuple, or an empty tuple.
func (s *System) Poll() []any {
	ev, ok := s.events.Poll()
	if !ok {
		return nil
	}
	return platform.Tuple(ev)
}

// Wait blocks up to seconds for an event; a negative value waits forever.
func (s *System) Wait(seconds float64) bool {
	return s.host.WaitEvent(time.Duration(seconds * float64(time.Second)))
}

func (s *System) Sleep(seconds float64) {
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}

func (s *System) Title(title string) { s.host.SetTitle(title) }

// WindowMode accepts "normal", "maximized" or "fullscreen"; empty means normal.
func (s *System) WindowMode(name string) error {
	mode, ok := platform.ParseWindowMode(name)
	if !ok {
		return fmt.Errorf("%w %q for window mode", ErrBadOption, name)
	}
	s.host.SetMode(mode)
	return nil
}

func (s *System) PixelBuffer() (*render.Surface, error) { return s.ctx.PixelBuffer() }

func (s *System) Present(x, y, w, h int) { s.ctx.Present(x, y, w, h) }

// Icon sets the window icon from w*h ABGR pixels.
func (s *System) Icon(pix []byte, w, h int) error {
	if w <= 0 || h <= 0 || len(pix) < w*h*render.BytesPerPixel {
		return fmt.Errorf("%w: icon %dx%d with %d bytes", ErrBadOption, w, h, len(pix))
	}
	s.host.SetIcon(pix, w, h)
	return nil
}

func (s *System) StartTextInput() { s.host.StartTextInput() }

func (s *System) Scale() float64 { return s.host.Scale() }

func (s *System) Platform() string { return s.host.Name() }

// Ticks returns milliseconds since startup.
func (s *System) Ticks() int64 { return time.Since(s.start).Milliseconds() }

// Time returns monotonic seconds since startup.
func (s *System) Time() float64 { return time.Since(s.start).Seconds() }

func Chdir(path string) bool { return os.Chdir(path) == nil }

// Mkdir creates path with owner-only permissions. An existing path counts
// as success.
func Mkdir(path string) bool {
	err := os.Mkdir(path, 0o700)
	return err == nil || errors.Is(err, os.ErrExist)
}

// Readdir lists entry names of path, sorted.
func Readdir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func Clipboard() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func SetClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
