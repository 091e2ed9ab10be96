package sdlhost

import (
	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/log"
)

// WindowOptions sizes the player window.
type WindowOptions struct {
	Title      string
	Width      int32
	Height     int32
	Fullscreen bool
}

// CreateWindow opens the player window. Fullscreen windows take the desktop
// resolution.
func CreateWindow(opts WindowOptions) (*sdl.Window, error) {
	var flags uint32 = sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI
	if opts.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	return sdl.CreateWindow(
		opts.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		opts.Width,
		opts.Height,
		flags,
	)
}

// CreateRenderer tries an accelerated vsynced renderer and falls back to software.
func CreateRenderer(window *sdl.Window) (*sdl.Renderer, error) {
	logger := log.For("sdlhost")

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		logger.Warnf("Hardware acceleration failed, trying software: %v", err)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			return nil, err
		}
	}

	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	return renderer, nil
}
