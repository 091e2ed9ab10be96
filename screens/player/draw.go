package player

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/sdlhost"
	"frame-bridge/ui"
	"frame-bridge/widgets/videoplayer"
)

const (
	subtitleMargin = 48
	statusMargin   = 16
)

var statusColor = sdl.Color{R: 255, G: 255, B: 255, A: 255}

// Draw clears the window, paints the video inside the widget bounds and
// the overlays on top, then presents.
func (s *Screen) Draw(now time.Time) error {
	w, h, err := s.renderer.GetOutputSize()
	if err != nil {
		return fmt.Errorf("failed to get output size: %v", err)
	}
	window := layout.Size{Width: float64(w), Height: float64(h)}
	bounds := s.widgetBounds(window)

	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()

	clip := sdlhost.ToRect(bounds)
	s.renderer.SetClipRect(&clip)
	switch s.path {
	case PathConverted:
		s.player.DrawConverted(s.images, bounds, now)
	default:
		s.player.Draw(s.frames, bounds, now)
	}
	s.renderer.SetClipRect(nil)

	s.drawOverlays(w, h, now)
	s.updateCursor()

	s.renderer.Present()
	return nil
}

func (s *Screen) drawOverlays(w, h int32, now time.Time) {
	if s.fonts == nil {
		return
	}
	if text, ok := s.subtitle.Get(); ok {
		if err := ui.RenderSubtitle(s.renderer, text, w/2, h-subtitleMargin, s.fonts.Subtitle); err != nil {
			s.log.Debugf("Player: subtitle overlay: %v", err)
		}
	}
	if status := s.statusText(now); status != "" {
		if err := ui.RenderText(s.renderer, status, statusMargin, statusMargin, statusColor, s.fonts.Status); err != nil {
			s.log.Debugf("Player: status overlay: %v", err)
		}
	}
}

func (s *Screen) updateCursor() {
	toggle := sdl.ENABLE
	if s.player.MouseInteraction() == videoplayer.InteractionHidden {
		toggle = sdl.DISABLE
	}
	if _, err := sdl.ShowCursor(toggle); err != nil {
		s.log.Debugf("Player: cursor: %v", err)
	}
}
