package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshsculpt/internal/engine/input"
)

// PollEvents drains the SDL queue into in. It returns true if the user asked
// to quit.
func PollEvents(in *input.Input) bool {
	in.Reset()
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := translate(event)
		if !ok {
			continue
		}
		in.Push(e)
		if e.Type == input.EventQuit {
			quit = true
		}
	}
	return quit
}

func translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return input.Event{}, false
		}
		t := input.EventKeyDown
		if e.Type == sdl.KEYUP {
			t = input.EventKeyUp
		}
		return input.Event{
			Type: t,
			Key:  translateKey(e.Keysym.Scancode),
			Mods: translateMods(sdl.Keymod(e.Keysym.Mod)),
		}, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type: input.EventMouseMove,
			X:    float32(e.X),
			Y:    float32(e.Y),
			Mods: translateMods(sdl.GetModState()),
		}, true

	case *sdl.MouseButtonEvent:
		t := input.EventMouseDown
		if e.Type == sdl.MOUSEBUTTONUP {
			t = input.EventMouseUp
		}
		return input.Event{
			Type:   t,
			Button: input.Button(e.Button),
			X:      float32(e.X),
			Y:      float32(e.Y),
			Mods:   translateMods(sdl.GetModState()),
		}, true

	case *sdl.MouseWheelEvent:
		y := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		mx, my, _ := sdl.GetMouseState()
		return input.Event{
			Type:   input.EventMouseWheel,
			WheelY: y,
			X:      float32(mx),
			Y:      float32(my),
			Mods:   translateMods(sdl.GetModState()),
		}, true
	}
	return input.Event{}, false
}

func translateMods(m sdl.Keymod) input.Modifiers {
	var mods input.Modifiers
	if m&sdl.KMOD_SHIFT != 0 {
		mods |= input.ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		mods |= input.ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		mods |= input.ModAlt
	}
	return mods
}

func translateKey(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	case sdl.SCANCODE_P:
		return input.KeyP
	case sdl.SCANCODE_F:
		return input.KeyF
	case sdl.SCANCODE_E:
		return input.KeyE
	case sdl.SCANCODE_R:
		return input.KeyR
	case sdl.SCANCODE_H:
		return input.KeyH
	case sdl.SCANCODE_F12:
		return input.KeyF12
	case sdl.SCANCODE_LSHIFT, sdl.SCANCODE_RSHIFT:
		return input.KeyShift
	case sdl.SCANCODE_LCTRL, sdl.SCANCODE_RCTRL:
		return input.KeyCtrl
	case sdl.SCANCODE_LALT, sdl.SCANCODE_RALT:
		return input.KeyAlt
	}
	return input.KeyUnknown
}
