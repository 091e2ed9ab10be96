package player

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/input"
)

// handleInput turns the polled keyboard and mouse state into actions.
// A left click toggles pause.
func (s *Screen) handleInput(keyState []uint8, mouseState uint32, now time.Time) {
	actions := s.keymap.Poll(keyState)
	if s.mouse.Pressed(mouseState, sdl.ButtonLMask()) {
		actions = append(actions, input.ActionTogglePause)
	}
	for _, a := range actions {
		s.apply(a, now)
	}
}

// apply runs one action against the session and the widget.
func (s *Screen) apply(a input.Action, now time.Time) {
	s.log.Debugf("Player: %s", a)

	switch a {
	case input.ActionTogglePause:
		paused := !s.session.Paused()
		if err := s.session.SetPaused(paused); err != nil {
			s.log.Warnf("Player: %v", err)
		}
		if paused {
			s.flash("Paused", now)
		} else {
			s.flash("Playing", now)
		}

	case input.ActionToggleLoop:
		s.session.SetLooping(!s.session.Looping())
		s.saveSettings()
		if s.session.Looping() {
			s.flash("Loop on", now)
		} else {
			s.flash("Loop off", now)
		}

	case input.ActionRestart:
		s.session.RequestRestart()
		s.flash("Restart", now)

	case input.ActionCycleFit:
		s.fit = s.fit.Next()
		s.player.ContentFit(s.fit)
		s.saveSettings()
		s.flash("Fit: "+s.fit.String(), now)

	case input.ActionToggleCursor:
		s.mouseHidden = !s.mouseHidden
		s.player.MouseHidden(s.mouseHidden)
		s.saveSettings()

	case input.ActionQuit:
		s.quit = true
	}
}
