package platform

import (
	"log/slog"
	"strings"
)

// Normalizer turns the host event queue into one normalized event per Poll.
type Normalizer struct {
	queue EventQueue
	ctx   *Context
	log   *slog.Logger
}

func NewNormalizer(queue EventQueue, ctx *Context, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Normalizer{queue: queue, ctx: ctx, log: log}
}

// Poll returns the next user-visible event. It never blocks; ok is false
// once the host queue holds nothing that maps to a visible event.
func (n *Normalizer) Poll() (Event, bool) {
	for {
		e, ok := n.queue.PollEvent()
		if !ok {
			return nil, false
		}
		if ev := n.translate(e); ev != nil {
			return ev, true
		}
	}
}

// translate maps one host event, consuming any coalesced followers.
// A nil result means scanning continues.
func (n *Normalizer) translate(e HostEvent) Event {
	switch e.Kind {
	case HostDidEnterBackground:
		return Save{}
	case HostQuit:
		return Quit{}
	case HostDidEnterForeground:
		n.ctx.MarkStale()
		return Exposed{}
	case HostWindow:
		return n.window(e)
	case HostKeyDown:
		return KeyDown{Key: n.keyName(e.Key)}
	case HostKeyUp:
		return KeyUp{Key: n.keyName(e.Key)}
	case HostTextInput:
		return Text{Text: e.Text}
	case HostTextEditing:
		return Edit{Text: e.Text}
	case HostMouseButtonDown:
		if e.Button == 1 {
			n.capture(true)
		}
		return MouseDown{Button: ButtonName(e.Button), X: e.X, Y: e.Y, Clicks: e.Clicks}
	case HostMouseButtonUp:
		if e.Button == 1 {
			n.capture(false)
		}
		return MouseUp{Button: ButtonName(e.Button), X: e.X, Y: e.Y}
	case HostMouseMotion:
		m := MouseMotion{X: e.X, Y: e.Y, DX: e.DX, DY: e.DY}
		drain(n.queue, HostMouseMotion, func(next HostEvent) {
			m.X, m.Y = next.X, next.Y
			m.DX += next.DX
			m.DY += next.DY
		})
		return m
	case HostMouseWheel:
		w := MouseWheel{DY: e.WheelY}
		drain(n.queue, HostMouseWheel, func(next HostEvent) {
			w.DY += next.WheelY
		})
		return w
	}
	return nil
}

func (n *Normalizer) window(e HostEvent) Event {
	switch e.Window {
	case WindowResized:
		n.ctx.Invalidate()
		return Resized{Width: e.Data1, Height: e.Data2}
	case WindowExposed, WindowRestored:
		return Exposed{}
	case WindowFocusGained:
		// Alt-tabbing into the window can leave a burst of tab key events
		// queued on some systems.
		n.queue.FlushEvents(HostKeyDown, HostKeyUp)
	}
	return nil
}

func (n *Normalizer) keyName(key int) string {
	return strings.ToLower(n.queue.KeyName(key))
}

func (n *Normalizer) capture(on bool) {
	if err := n.queue.CaptureMouse(on); err != nil {
		n.log.Debug("mouse capture", "on", on, "err", err)
	}
}

// drain pops every queued event of kind and folds it into the caller's state.
func drain(queue EventQueue, kind HostEventKind, fold func(HostEvent)) {
	for {
		e, ok := queue.TakeEvent(kind)
		if !ok {
			return
		}
		fold(e)
	}
}
