package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rein/internal/platform"
	"rein/internal/system"
	"rein/internal/ui"
)

type Options struct {
	WaitTimeout time.Duration
	Log         *slog.Logger
	// Now is the clock shown in the status bar.
	Now func() time.Time
}

// App is a scratchpad driving the redraw protocol: drain events, redraw
// into the pixel buffer when something changed, present, then wait.
type App struct {
	host   platform.Host
	ctx    *platform.Context
	events *platform.Normalizer
	sys    *system.System
	log    *slog.Logger
	theme  ui.Theme
	wait   time.Duration
	now    func() time.Time

	text    string
	scrollY int
	markerX int
	markerY int
	marker  bool
	drag    bool
	ctrl    bool
	status  string
	clock   string

	dirty  bool
	layout ui.Layout
	width  int
	height int
}

func New(host platform.Host, ctx *platform.Context, opts Options) *App {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	events := platform.NewNormalizer(host, ctx, log)
	return &App{
		host:   host,
		ctx:    ctx,
		events: events,
		sys:    system.New(host, ctx, events),
		log:    log,
		theme:  ui.DefaultTheme(),
		wait:   opts.WaitTimeout,
		now:    now,
		status: "ready",
		dirty:  true,
	}
}

func (a *App) Run() error {
	a.sys.StartTextInput()
	if err := a.host.Run(a.Frame); err != nil {
		return fmt.Errorf("run frame loop: %w", err)
	}
	return nil
}

func (a *App) Text() string { return a.text }

// Frame handles every pending event and repaints what changed. It returns
// platform.ErrQuit when the user asked to leave.
func (a *App) Frame() error {
	for {
		ev, ok := a.events.Poll()
		if !ok {
			break
		}
		if err := a.handle(ev); err != nil {
			return err
		}
	}

	clock := a.now().Format("15:04:05")
	switch {
	case a.dirty:
		a.clock = clock
		a.redraw()
	case clock != a.clock:
		a.clock = clock
		a.redrawStatus()
	default:
		a.sys.Wait(a.wait.Seconds())
	}
	return nil
}

func (a *App) handle(ev platform.Event) error {
	switch ev := ev.(type) {
	case platform.Quit:
		return platform.ErrQuit
	case platform.Save:
		a.log.Info("moved to background", "bytes", len(a.text))
	case platform.Resized, platform.Exposed:
		a.dirty = true
	case platform.KeyDown:
		return a.keyDown(ev.Key)
	case platform.KeyUp:
		if isCtrl(ev.Key) {
			a.ctrl = false
		}
	case platform.Text:
		if !a.ctrl {
			a.text += ev.Text
			a.dirty = true
		}
	case platform.MouseDown:
		if ev.Button == "left" {
			a.drag = true
			a.moveMarker(ev.X, ev.Y)
		}
	case platform.MouseUp:
		if ev.Button == "left" {
			a.drag = false
		}
	case platform.MouseMotion:
		if a.drag {
			a.moveMarker(ev.X, ev.Y)
		}
	case platform.MouseWheel:
		a.scrollY = max(a.scrollY-ev.DY*ui.LineHeight(ui.Face()), 0)
		a.dirty = true
	}
	return nil
}

func (a *App) keyDown(key string) error {
	if isCtrl(key) {
		a.ctrl = true
		return nil
	}
	switch {
	case key == "escape":
		return platform.ErrQuit
	case key == "return" || key == "keypad enter":
		a.text += "\n"
	case key == "backspace":
		if n := system.UTFPrev(a.text, 0); n > 0 {
			a.text = a.text[:len(a.text)-n]
		}
	case a.ctrl && key == "v":
		paste, err := system.Clipboard()
		if err != nil {
			a.setStatus("paste failed")
			a.log.Warn("paste", "err", err)
			return nil
		}
		a.text += paste
	case a.ctrl && key == "c":
		if err := system.SetClipboard(a.text); err != nil {
			a.setStatus("copy failed")
			a.log.Warn("copy", "err", err)
			return nil
		}
		a.setStatus("copied")
		return nil
	default:
		return nil
	}
	a.dirty = true
	return nil
}

func (a *App) moveMarker(x, y int) {
	a.markerX, a.markerY, a.marker = x, y, true
	a.dirty = true
}

func (a *App) setStatus(s string) {
	a.status = s
	a.dirty = true
}

func (a *App) statusLine() string {
	return fmt.Sprintf("[ %s ] [ %d chars ] [ %s ]", a.clock, system.UTFLen(a.text), a.status)
}

func (a *App) redraw() {
	s, err := a.sys.PixelBuffer()
	if err != nil {
		// Still dirty, so the next frame tries again.
		a.log.Debug("pixel buffer", "err", err)
		return
	}
	a.width, a.height = s.W, s.H
	a.layout = ui.ComputeLayout(s.W, s.H, a.theme, a.sys.Scale())
	ui.DrawShell(s, a.theme, a.layout)
	ui.DrawText(s, a.theme, a.layout, a.text, a.scrollY)
	if a.marker {
		m := int(float64(a.theme.MarkerDp) * a.sys.Scale())
		s.FillRect(a.markerX-m/2, a.markerY-m/2, m, m, a.theme.Marker)
	}
	ui.DrawStatus(s, a.theme, a.layout, a.statusLine())
	a.sys.Present(0, 0, 0, 0)
	a.dirty = false
}

func (a *App) redrawStatus() {
	s, err := a.sys.PixelBuffer()
	if err != nil {
		a.log.Debug("pixel buffer", "err", err)
		return
	}
	if s.W != a.width || s.H != a.height {
		a.redraw()
		return
	}
	ui.DrawStatus(s, a.theme, a.layout, a.statusLine())
	r := a.layout.Status(s.W)
	a.sys.Present(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

func isCtrl(key string) bool {
	return strings.HasSuffix(key, " ctrl")
}

// Close releases the pixel buffers and the window.
func (a *App) Close() {
	a.ctx.Close()
	a.host.Close()
}
