package videoplayer

import (
	"image"
	"time"

	"github.com/samber/mo"

	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/playback"
)

// RedrawKind says when the host should tick the widget again.
type RedrawKind int

const (
	// RedrawNextFrame asks for a tick on the next display frame.
	RedrawNextFrame RedrawKind = iota
	// RedrawAt asks for a tick no later than RedrawRequest.At.
	RedrawAt
)

// RedrawRequest is returned from every tick.
type RedrawRequest struct {
	Kind RedrawKind
	At   time.Time
}

// NextFrame requests a repaint on the next display frame.
func NextFrame() RedrawRequest {
	return RedrawRequest{Kind: RedrawNextFrame}
}

// At requests a repaint at t.
func At(t time.Time) RedrawRequest {
	return RedrawRequest{Kind: RedrawAt, At: t}
}

// Interaction is the cursor the host should show over the widget.
type Interaction int

const (
	// InteractionDefault keeps the host's normal cursor.
	InteractionDefault Interaction = iota
	// InteractionHidden hides the cursor while it is over the widget.
	InteractionHidden
)

// FrameRenderer presents decoded planes directly, typically by uploading them
// into a YUV texture. A None frame means "present the last upload again".
type FrameRenderer interface {
	DrawFrame(bounds layout.Rect, frame mo.Option[playback.FrameView])
}

// ImageRenderer paints an already converted RGBA image.
type ImageRenderer interface {
	DrawImage(img *image.RGBA, bounds layout.Rect)
}

// Recorder receives timing samples from the widget.
type Recorder interface {
	RecordTick(d time.Duration, active bool)
	RecordPaint(d time.Duration)
	RecordFramePresented(avOffset time.Duration)
	RecordConversion(d time.Duration, err error)
}

// Skipper decides whether a claimed frame is worth converting.
type Skipper interface {
	ShouldConvert() bool
}

type callbacks struct {
	onEndOfStream   func()
	onNewFrame      func()
	onSubtitleText  func(mo.Option[string])
	onError         func(error)
	onMissingPlugin func(playback.ElementNotice)
	onWarning       func(error)
}

type nopRecorder struct{}

func (nopRecorder) RecordTick(time.Duration, bool)        {}
func (nopRecorder) RecordPaint(time.Duration)             {}
func (nopRecorder) RecordFramePresented(time.Duration)    {}
func (nopRecorder) RecordConversion(time.Duration, error) {}
