package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/mod1/internal/app"
)

// keymap binds keys to actions. Both the number row and the keypad send waves.
var keymap = map[sdl.Scancode]app.Action{
	sdl.SCANCODE_ESCAPE: app.ActionQuit,
	sdl.SCANCODE_F:      app.ActionFlush,
	sdl.SCANCODE_W:      app.ActionRaiseLevel,
	sdl.SCANCODE_R:      app.ActionToggleRain,
	sdl.SCANCODE_L:      app.ActionToggleCycle,
	sdl.SCANCODE_G:      app.ActionRegrid,
	sdl.SCANCODE_8:      app.ActionWaveNorth,
	sdl.SCANCODE_2:      app.ActionWaveSouth,
	sdl.SCANCODE_4:      app.ActionWaveWest,
	sdl.SCANCODE_6:      app.ActionWaveEast,
	sdl.SCANCODE_KP_8:   app.ActionWaveNorth,
	sdl.SCANCODE_KP_2:   app.ActionWaveSouth,
	sdl.SCANCODE_KP_4:   app.ActionWaveWest,
	sdl.SCANCODE_KP_6:   app.ActionWaveEast,
}

// screenshotKey saves the current frame. It is handled by the viewer itself.
const screenshotKey = sdl.SCANCODE_P

func actionFor(key sdl.Scancode) app.Action {
	return keymap[key]
}
