package videoplayer

import (
	"time"

	"github.com/samber/mo"

	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/playback"
	"frame-bridge/pkg/video"
)

// Draw paints through a renderer that takes decoded planes. A claimed frame
// is handed over for upload; otherwise, and always while paused or at end of
// stream, the renderer repeats its last upload.
func (v *VideoPlayer) Draw(r FrameRenderer, bounds layout.Rect, now time.Time) {
	start := time.Now()
	defer func() { v.monitor.RecordPaint(time.Since(start)) }()

	place := v.Placement(bounds)
	r.DrawFrame(place.Rect, v.claim(now))
}

// DrawConverted paints through a renderer that takes RGBA images. Each
// claimed frame is converted into a new image that is reused until the next
// successful claim.
func (v *VideoPlayer) DrawConverted(r ImageRenderer, bounds layout.Rect, now time.Time) {
	start := time.Now()
	defer func() { v.monitor.RecordPaint(time.Since(start)) }()

	place := v.Placement(bounds)

	if view, ok := v.claim(now).Get(); ok && v.shouldConvert() {
		convStart := time.Now()
		img, err := video.ToRGBA(view.Frame)
		v.monitor.RecordConversion(time.Since(convStart), err)
		if err != nil {
			v.log.Warnf("VideoPlayer: dropping frame %d: %v", view.Seq, err)
		} else {
			v.image = img
		}
	}

	if v.image != nil {
		r.DrawImage(v.image, place.Rect)
	}
}

// claim takes the pending frame, if any, and reports the audio/video offset
// measured against it. An idle player leaves the frame pending.
func (v *VideoPlayer) claim(now time.Time) mo.Option[playback.FrameView] {
	state := v.session.State()
	if !state.Active() {
		return mo.None[playback.FrameView]()
	}

	frame := state.TryClaimFrame()
	if frame.IsPresent() {
		offset := state.AVOffset(now)
		v.session.ReportAVOffset(offset)
		v.monitor.RecordFramePresented(offset)
	}
	return frame
}

func (v *VideoPlayer) shouldConvert() bool {
	return v.skipper == nil || v.image == nil || v.skipper.ShouldConvert()
}
