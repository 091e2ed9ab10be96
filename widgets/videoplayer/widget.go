// Package videoplayer is the UI side of the bridge: a widget that paces
// repaints, drains pipeline status events once per tick, hands the latest
// frame to a renderer and fits it into its bounds.
//
// All methods must be called from the UI goroutine.
package videoplayer

import (
	"image"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/log"
	"frame-bridge/pkg/playback"
)

// DefaultIdlePoll is the repaint interval while paused or stopped.
const DefaultIdlePoll = 32 * time.Millisecond

// VideoPlayer displays the current frame of a playback session.
type VideoPlayer struct {
	session *playback.Session

	width, height layout.Length
	fit           layout.ContentFit
	mouseHidden   bool
	idlePoll      time.Duration

	cb      callbacks
	monitor Recorder
	skipper Skipper
	log     *logrus.Entry

	lastNotifiedSeq uint64
	image           *image.RGBA
}

// New creates a player for session. It shrinks to the video on both axes and
// fits with Contain until configured otherwise.
func New(session *playback.Session) *VideoPlayer {
	return &VideoPlayer{
		session:  session,
		width:    layout.Shrink(),
		height:   layout.Shrink(),
		fit:      layout.FitContain,
		idlePoll: DefaultIdlePoll,
		monitor:  nopRecorder{},
		log:      log.For("videoplayer").WithField("session", session.ID.String()),
	}
}

// Session returns the session the player displays.
func (v *VideoPlayer) Session() *playback.Session {
	return v.session
}

// Width sets the horizontal sizing policy.
func (v *VideoPlayer) Width(l layout.Length) *VideoPlayer {
	v.width = l
	return v
}

// Height sets the vertical sizing policy.
func (v *VideoPlayer) Height(l layout.Length) *VideoPlayer {
	v.height = l
	return v
}

// ContentFit sets how the video is fitted into the widget bounds.
func (v *VideoPlayer) ContentFit(fit layout.ContentFit) *VideoPlayer {
	v.fit = fit
	return v
}

// MouseHidden hides the cursor over the widget.
func (v *VideoPlayer) MouseHidden(hidden bool) *VideoPlayer {
	v.mouseHidden = hidden
	return v
}

// IdlePoll sets the repaint interval used while playback is stopped.
func (v *VideoPlayer) IdlePoll(d time.Duration) *VideoPlayer {
	if d > 0 {
		v.idlePoll = d
	}
	return v
}

// Monitor routes timing samples to r.
func (v *VideoPlayer) Monitor(r Recorder) *VideoPlayer {
	if r == nil {
		r = nopRecorder{}
	}
	v.monitor = r
	return v
}

// ConversionSkipper lets s drop conversions on the RGBA path when they fall behind.
func (v *VideoPlayer) ConversionSkipper(s Skipper) *VideoPlayer {
	v.skipper = s
	return v
}

// OnEndOfStream is called when the pipeline reaches the end of the stream.
func (v *VideoPlayer) OnEndOfStream(f func()) *VideoPlayer {
	v.cb.onEndOfStream = f
	return v
}

// OnNewFrame is called once for every frame the pipeline delivers.
func (v *VideoPlayer) OnNewFrame(f func()) *VideoPlayer {
	v.cb.onNewFrame = f
	return v
}

// OnSubtitleText is called when the subtitle changes. None clears it.
func (v *VideoPlayer) OnSubtitleText(f func(mo.Option[string])) *VideoPlayer {
	v.cb.onSubtitleText = f
	return v
}

// OnError is called for every pipeline error.
func (v *VideoPlayer) OnError(f func(error)) *VideoPlayer {
	v.cb.onError = f
	return v
}

// OnMissingPlugin is called when the pipeline lacks a plugin to decode the media.
func (v *VideoPlayer) OnMissingPlugin(f func(playback.ElementNotice)) *VideoPlayer {
	v.cb.onMissingPlugin = f
	return v
}

// OnWarning is called for every pipeline warning.
func (v *VideoPlayer) OnWarning(f func(error)) *VideoPlayer {
	v.cb.onWarning = f
	return v
}

// MouseInteraction returns the cursor to show over the widget.
func (v *VideoPlayer) MouseInteraction() Interaction {
	if v.mouseHidden {
		return InteractionHidden
	}
	return InteractionDefault
}
