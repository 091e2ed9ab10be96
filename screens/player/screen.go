// Package player is the host screen around the video widget: it forwards
// input, persists preferences and draws the subtitle and status overlays.
package player

import (
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/input"
	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/performance"
	"frame-bridge/pkg/playback"
	"frame-bridge/pkg/sdlhost"
	"frame-bridge/pkg/settings"
	"frame-bridge/pkg/video"
	"frame-bridge/ui"
	"frame-bridge/widgets/videoplayer"
)

// New creates the screen for session, drawing through renderer.
func New(renderer *sdl.Renderer, session *playback.Session, opts Options) *Screen {
	s := newScreen(session, opts)
	s.renderer = renderer
	s.frames = sdlhost.NewFrameTexture(renderer)
	s.images = sdlhost.NewImageTexture(renderer)

	fonts, err := ui.LoadFonts()
	if err != nil {
		s.log.Warnf("Player: overlays disabled: %v", err)
	} else {
		s.fonts = fonts
	}
	return s
}

// newScreen builds everything that does not need a renderer.
func newScreen(session *playback.Session, opts Options) *Screen {
	s := &Screen{
		session:      session,
		path:         opts.Path,
		monitor:      performance.NewMonitor(120),
		keymap:       input.NewKeymap(input.DefaultBindings),
		mouse:        input.NewClicks(),
		settings:     opts.Settings,
		settingsFs:   opts.SettingsFs,
		settingsPath: opts.SettingsPath,
		fit:          opts.Settings.ContentFit(),
		mouseHidden:  opts.Settings.MouseHidden,
		log:          session.Log().WithField("component", "player"),
	}
	session.SetLooping(opts.Settings.Loop)

	s.player = videoplayer.New(session).
		Width(opts.Width).
		Height(opts.Height).
		ContentFit(s.fit).
		MouseHidden(s.mouseHidden).
		IdlePoll(opts.IdlePoll).
		Monitor(s.monitor).
		OnEndOfStream(s.onEndOfStream).
		OnNewFrame(s.onNewFrame).
		OnSubtitleText(s.onSubtitleText).
		OnError(s.onError).
		OnWarning(s.onWarning).
		OnMissingPlugin(s.onMissingPlugin)

	if s.path == PathConverted {
		s.skipper = video.NewFrameSkipper(s.monitor)
		s.player.ConversionSkipper(s.skipper)
	}
	return s
}

// Player returns the hosted widget.
func (s *Screen) Player() *videoplayer.VideoPlayer {
	return s.player
}

// Monitor returns the timing monitor fed by the widget.
func (s *Screen) Monitor() *performance.Monitor {
	return s.monitor
}

// HandleEvent polls input after any event and reports whether to keep running.
func (s *Screen) HandleEvent(ev sdl.Event) bool {
	switch ev.(type) {
	case *sdl.KeyboardEvent, *sdl.MouseButtonEvent:
		s.keyState = sdl.GetKeyboardState()
		_, _, s.mouseState = sdl.GetMouseState()
		s.handleInput(s.keyState, s.mouseState, time.Now())
	}
	return !s.quit
}

// Update ticks the widget.
func (s *Screen) Update(now time.Time) videoplayer.RedrawRequest {
	return s.player.Tick(now)
}

// Close releases textures and fonts. The session is owned by the caller.
func (s *Screen) Close() {
	if s.frames != nil {
		s.frames.Destroy()
	}
	if s.images != nil {
		s.images.Destroy()
	}
	if s.fonts != nil {
		s.fonts.Close()
	}
}

func (s *Screen) onEndOfStream() {
	s.log.Info("Player: end of stream")
	if !s.session.Looping() {
		s.flash("End of stream", time.Now())
	}
}

func (s *Screen) onNewFrame() {
	s.framesSeen++
	if s.framesSeen%reportEvery != 0 {
		return
	}
	r := s.monitor.GetReport()
	s.log.WithFields(logrus.Fields{
		"tick_ms":    r.AvgTickMs,
		"paint_ms":   r.AvgPaintMs,
		"convert_ms": r.AvgConvertMs,
		"offset_ms":  r.AvgAVOffsetMs,
		"frames":     r.FramesPresented,
		"heap_mb":    r.HeapMB,
		"avail_mb":   r.AvailableMB,
		"pressure":   r.MemoryPressure.String(),
		"healthy":    r.IsHealthy,
	}).Debug("Player: performance")
	if r.MemoryPressure >= performance.MemoryPressureHigh {
		s.log.Warnf("Player: memory pressure %s, %dMB available", r.MemoryPressure, r.AvailableMB)
	}
	if s.skipper != nil {
		s.log.Debugf("Player: conversion mode %s", s.skipper.GetMode())
	}
}

func (s *Screen) onSubtitleText(text mo.Option[string]) {
	s.subtitle = text
}

func (s *Screen) onError(err error) {
	s.log.Errorf("Player: pipeline error: %v", err)
	s.flash(fmt.Sprintf("Error: %v", err), time.Now())
}

func (s *Screen) onWarning(err error) {
	s.log.Warnf("Player: pipeline warning: %v", err)
}

func (s *Screen) onMissingPlugin(notice playback.ElementNotice) {
	hint := video.HintForNotice(notice)
	s.log.Warnf("Player: missing plugin: %s", hint)
	s.flash("Missing plugin: "+notice.Detail(), time.Now())
}

// flash shows msg in the status overlay for a while.
func (s *Screen) flash(msg string, now time.Time) {
	s.status = msg
	s.statusUntil = now.Add(statusDuration)
}

// statusText is the status message still on screen at now.
func (s *Screen) statusText(now time.Time) string {
	if now.After(s.statusUntil) {
		return ""
	}
	return s.status
}

func (s *Screen) saveSettings() {
	s.settings.Loop = s.session.Looping()
	s.settings.Fit = s.fit.String()
	s.settings.MouseHidden = s.mouseHidden

	if s.settingsFs == nil || s.settingsPath == "" {
		return
	}
	if err := settings.Save(s.settingsFs, s.settingsPath, s.settings); err != nil {
		s.log.Warnf("Player: failed to save settings: %v", err)
	}
}

// widgetBounds centres the widget's layout size inside the window.
func (s *Screen) widgetBounds(window layout.Size) layout.Rect {
	size := s.player.Layout(layout.NewLimits(layout.Size{}, window))
	return layout.NewRect(layout.Point{
		X: (window.Width - size.Width) / 2,
		Y: (window.Height - size.Height) / 2,
	}, size)
}
