package platform

import "strconv"

// Event is a normalized event handed to the script layer.
type Event interface {
	Name() string
	fields() []any
}

type Quit struct{}

type Save struct{}

type Exposed struct{}

type Resized struct {
	Width  int
	Height int
}

type KeyDown struct{ Key string }

type KeyUp struct{ Key string }

type Text struct{ Text string }

// Edit carries in-progress composition text on hosts that report it.
type Edit struct{ Text string }

type MouseDown struct {
	Button string
	X      int
	Y      int
	Clicks int
}

type MouseUp struct {
	Button string
	X      int
	Y      int
}

type MouseMotion struct {
	X  int
	Y  int
	DX int
	DY int
}

type MouseWheel struct{ DY int }

func (Quit) Name() string        { return "quit" }
func (Save) Name() string        { return "save" }
func (Exposed) Name() string     { return "exposed" }
func (Resized) Name() string     { return "resized" }
func (KeyDown) Name() string     { return "keydown" }
func (KeyUp) Name() string       { return "keyup" }
func (Text) Name() string        { return "text" }
func (Edit) Name() string        { return "edit" }
func (MouseDown) Name() string   { return "mousedown" }
func (MouseUp) Name() string     { return "mouseup" }
func (MouseMotion) Name() string { return "mousemotion" }
func (MouseWheel) Name() string  { return "mousewheel" }

func (Quit) fields() []any    { return nil }
func (Save) fields() []any    { return nil }
func (Exposed) fields() []any { return nil }
func (e Resized) fields() []any {
	return []any{float64(e.Width), float64(e.Height)}
}
func (e KeyDown) fields() []any { return []any{e.Key} }
func (e KeyUp) fields() []any   { return []any{e.Key} }
func (e Text) fields() []any    { return []any{e.Text} }
func (e Edit) fields() []any    { return []any{e.Text} }
func (e MouseDown) fields() []any {
	return []any{e.Button, float64(e.X), float64(e.Y), float64(e.Clicks)}
}
func (e MouseUp) fields() []any {
	return []any{e.Button, float64(e.X), float64(e.Y)}
}
func (e MouseMotion) fields() []any {
	return []any{float64(e.X), float64(e.Y), float64(e.DX), float64(e.DY)}
}
func (e MouseWheel) fields() []any { return []any{float64(e.DY)} }

// Tuple flattens e into the tag-first tuple of primitives the script layer
// receives. Numbers are float64. A nil event yields an empty tuple.
func Tuple(e Event) []any {
	if e == nil {
		return nil
	}
	return append([]any{e.Name()}, e.fields()...)
}

func ButtonName(button int) string {
	switch button {
	case 1:
		return "left"
	case 2:
		return "middle"
	case 3:
		return "right"
	default:
		return "btn" + strconv.Itoa(button)
	}
}
