// Package sdlhost runs the video player widget inside an SDL2 window.
package sdlhost

import (
	"fmt"
	"os"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/log"
)

// driverCandidates lists the video drivers to try, honouring an explicit
// SDL_VIDEODRIVER first.
func driverCandidates(goos, envDriver string) []string {
	if envDriver != "" {
		return []string{envDriver, "fbcon", "software", "dummy"}
	}
	if goos == "darwin" {
		return []string{"cocoa", "software", "dummy"}
	}
	return []string{"kmsdrm", "drm", "fbcon", "wayland", "x11", "software", "dummy"}
}

// renderDriverFor picks the SDL render driver hint for a video driver.
func renderDriverFor(driver string) string {
	switch driver {
	case "kmsdrm", "drm":
		return "opengles2"
	case "cocoa", "x11", "wayland":
		return "opengl"
	default:
		return "software"
	}
}

// Init initialises SDL2 with the first video driver that works.
func Init() error {
	logger := log.For("sdlhost")

	drivers := driverCandidates(runtime.GOOS, os.Getenv("SDL_VIDEODRIVER"))
	for _, driver := range drivers {
		logger.Debugf("Attempting SDL2 initialization with %s driver", driver)

		os.Setenv("SDL_VIDEODRIVER", driver)
		if err := tryInit(driver); err != nil {
			logger.Debugf("SDL2 initialization failed with %s driver: %v", driver, err)
			continue
		}

		logger.Infof("SDL2 initialized with %s driver", driver)
		return nil
	}

	return fmt.Errorf("all SDL2 video drivers failed")
}

func tryInit(driver string) error {
	sdl.Quit()

	sdl.SetHint(sdl.HINT_VIDEODRIVER, driver)
	switch driver {
	case "cocoa":
		sdl.SetHint("SDL_VIDEO_COCOA_ALLOW_SCREENSAVER", "1")
	case "kmsdrm":
		sdl.SetHint("SDL_KMSDRM_REQUIRE_DRM_MASTER", "1")
		sdl.SetHint("SDL_RENDER_VSYNC", "1")
		sdl.SetHint("SDL_VIDEO_ALLOW_SCREENSAVER", "0")
	case "fbcon":
		sdl.SetHint("SDL_FBDEV", "/dev/fb0")
	case "wayland":
		sdl.SetHint("SDL_VIDEO_WAYLAND_WMCLASS", "frame-bridge")
	case "x11":
		sdl.SetHint("SDL_VIDEO_X11_NET_WM_BYPASS_COMPOSITOR", "0")
	}

	sdl.SetHint(sdl.HINT_RENDER_BATCHING, "1")
	sdl.SetHint(sdl.HINT_RENDER_DRIVER, renderDriverFor(driver))
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "1")
	sdl.SetHint(sdl.HINT_VIDEO_MINIMIZE_ON_FOCUS_LOSS, "0")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_INIT_VIDEO failed: %v", err)
	}
	if _, err := sdl.GetCurrentVideoDriver(); err != nil {
		return fmt.Errorf("failed to get video driver: %v", err)
	}
	return nil
}

// Quit shuts SDL2 down.
func Quit() {
	sdl.Quit()
}
