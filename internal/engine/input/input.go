// Package input defines the platform-neutral input events consumed by the
// editor tools. The window package translates SDL2 events into these.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Button is a mouse button. Values match SDL's button numbering.
type Button uint8

const (
	ButtonNone   Button = 0
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether every modifier in m is held.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// Key is a keyboard key the editor reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyP
	KeyF
	KeyE
	KeyR
	KeyH
	KeyShift
	KeyCtrl
	KeyAlt
	KeyF12
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Button Button
	Mods   Modifiers

	// Pointer position in window pixels.
	X, Y float32
	// Wheel ticks, positive away from the user.
	WheelY float32

	Width  int
	Height int
}

// Input collects the events of one frame and tracks held buttons and the
// last pointer position across frames.
type Input struct {
	events  []Event
	buttons map[Button]bool
	mods    Modifiers
	x, y    float32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[Button]bool),
	}
}

// Reset clears the events of the previous frame. Held state is kept.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push records an event and updates held state.
func (i *Input) Push(e Event) {
	switch e.Type {
	case EventMouseDown:
		i.buttons[e.Button] = true
	case EventMouseUp:
		delete(i.buttons, e.Button)
	}
	switch e.Type {
	case EventMouseMove, EventMouseDown, EventMouseUp:
		i.x, i.y = e.X, e.Y
	}
	if e.Type != EventWindowResize && e.Type != EventQuit {
		i.mods = e.Mods
	}
	i.events = append(i.events, e)
}

// Events returns the events since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(k Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == k {
			return true
		}
	}
	return false
}

// ButtonDown reports whether b is currently held.
func (i *Input) ButtonDown(b Button) bool {
	return i.buttons[b]
}

// Mods returns the modifiers seen on the latest event.
func (i *Input) Mods() Modifiers {
	return i.mods
}

// Pointer returns the last known pointer position.
func (i *Input) Pointer() (x, y float32) {
	return i.x, i.y
}

// QuitRequested reports whether a quit event arrived this frame.
func (i *Input) QuitRequested() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}
