package videoplayer

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"

	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/playback"
)

type fakePipeline struct {
	calls    []string
	seekErr  error
	pauseErr error
	offsets  []time.Duration
}

func (p *fakePipeline) SeekToStart() error {
	p.calls = append(p.calls, "seek")
	return p.seekErr
}

func (p *fakePipeline) SetPaused(paused bool) error {
	if paused {
		p.calls = append(p.calls, "pause")
	} else {
		p.calls = append(p.calls, "play")
	}
	return p.pauseErr
}

func (p *fakePipeline) ReportAVOffset(offset time.Duration) {
	p.offsets = append(p.offsets, offset)
}

type frameRecorder struct {
	bounds []layout.Rect
	frames []mo.Option[playback.FrameView]
}

func (r *frameRecorder) DrawFrame(bounds layout.Rect, frame mo.Option[playback.FrameView]) {
	r.bounds = append(r.bounds, bounds)
	r.frames = append(r.frames, frame)
}

type imageRecorder struct {
	images []*image.RGBA
	bounds []layout.Rect
}

func (r *imageRecorder) DrawImage(img *image.RGBA, bounds layout.Rect) {
	r.images = append(r.images, img)
	r.bounds = append(r.bounds, bounds)
}

func grayFrame(w, h int, luma byte) playback.Frame {
	l := playback.I420Layout(w, h)
	data := make([]byte, l.Size)
	for i := range data {
		data[i] = 128
	}
	for i := 0; i < l.Offsets[1]; i++ {
		data[i] = luma
	}
	return playback.Frame{Layout: l, Data: data}
}

func TestTick(t *testing.T) {
	Convey("Given a player over a 1920x1080 session", t, func() {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		pipeline := &fakePipeline{}
		state := playback.NewState(1920, 1080)
		session := playback.NewSession(state, pipeline)

		var events []string
		player := New(session).
			OnEndOfStream(func() { events = append(events, "eos") }).
			OnError(func(err error) { events = append(events, "error:"+err.Error()) }).
			OnWarning(func(err error) { events = append(events, "warning:"+err.Error()) }).
			OnMissingPlugin(func(n playback.ElementNotice) { events = append(events, "missing:"+n.Detail()) }).
			OnNewFrame(func() { events = append(events, "frame") }).
			OnSubtitleText(func(text mo.Option[string]) { events = append(events, "subtitle:"+text.OrElse("<none>")) })

		Convey("An active tick asks for the next frame", func() {
			So(player.Tick(now), ShouldResemble, NextFrame())
		})

		Convey("Events are delivered once each, in arrival order", func() {
			state.PushEvent(playback.WarningEvent("src", errors.New("w")))
			state.PushEvent(playback.ErrorEvent("src", errors.New("e")))
			state.PushEvent(playback.EndOfStreamEvent("src"))

			player.Tick(now)
			So(events, ShouldResemble, []string{"warning:w", "error:e", "eos"})

			events = nil
			player.Tick(now)
			So(events, ShouldBeEmpty)
		})

		Convey("Errors and warnings leave playback untouched", func() {
			state.PushEvent(playback.ErrorEvent("src", errors.New("decode failed")))
			player.Tick(now)

			So(state.Paused(), ShouldBeFalse)
			So(state.IsEOS(), ShouldBeFalse)
			So(pipeline.calls, ShouldBeEmpty)
		})

		Convey("End of stream with looping restarts from the start", func() {
			session.SetLooping(true)
			state.PushEvent(playback.EndOfStreamEvent("src"))

			So(player.Tick(now), ShouldResemble, NextFrame())
			So(events, ShouldResemble, []string{"eos"})
			So(state.RestartRequested(), ShouldBeFalse)
			So(state.IsEOS(), ShouldBeFalse)
			So(state.Paused(), ShouldBeFalse)
			So(pipeline.calls, ShouldResemble, []string{"play", "seek"})
		})

		Convey("End of stream without looping pauses and switches to idle polling", func() {
			state.PushEvent(playback.EndOfStreamEvent("src"))
			player.Tick(now)

			So(state.IsEOS(), ShouldBeTrue)
			So(state.Paused(), ShouldBeTrue)
			So(pipeline.calls, ShouldResemble, []string{"pause"})

			next := player.Tick(now)
			So(next.Kind, ShouldEqual, RedrawAt)
			So(next.At, ShouldEqual, now.Add(32*time.Millisecond))

			Convey("Idle ticks leave the bus alone", func() {
				state.PushEvent(playback.ErrorEvent("src", errors.New("late")))
				player.Tick(now)
				So(events, ShouldResemble, []string{"eos"})
				So(state.Bus().Len(), ShouldEqual, 1)
			})

			Convey("Resuming restarts from the beginning on the next tick", func() {
				So(session.SetPaused(false), ShouldBeNil)
				So(player.Tick(now), ShouldResemble, NextFrame())
				So(state.IsEOS(), ShouldBeFalse)
				So(pipeline.calls, ShouldResemble, []string{"pause", "play", "play", "seek"})
			})
		})

		Convey("A pending restart wins over an end-of-stream pause", func() {
			state.RequestRestart()
			state.PushEvent(playback.EndOfStreamEvent("src"))

			player.Tick(now)
			So(state.IsEOS(), ShouldBeFalse)
			So(state.Paused(), ShouldBeFalse)
			So(pipeline.calls, ShouldResemble, []string{"play", "seek"})
		})

		Convey("A failed restart is logged and not retried", func() {
			pipeline.seekErr = errors.New("not seekable")
			state.RequestRestart()

			So(func() { player.Tick(now) }, ShouldNotPanic)
			So(state.RestartRequested(), ShouldBeFalse)

			pipeline.calls = nil
			player.Tick(now)
			So(pipeline.calls, ShouldBeEmpty)
		})

		Convey("A restart seeks even when resuming fails", func() {
			pipeline.pauseErr = errors.New("state change failed")
			state.RequestRestart()

			So(func() { player.Tick(now) }, ShouldNotPanic)
			So(pipeline.calls, ShouldResemble, []string{"play", "seek"})
			So(state.RestartRequested(), ShouldBeFalse)
		})

		Convey("Only missing-plugin element notices reach the callback", func() {
			state.PushEvent(playback.ElementEvent("level0", playback.ElementNotice{Name: "level"}))
			state.PushEvent(playback.MissingPluginEvent("decodebin0", "video/x-h265", "H.265 decoder"))

			player.Tick(now)
			So(events, ShouldResemble, []string{"missing:video/x-h265"})
		})

		Convey("The new-frame callback fires once per delivered frame", func() {
			state.WriteFrame(grayFrame(1920, 1080, 16))
			player.Tick(now)
			player.Tick(now)
			So(events, ShouldResemble, []string{"frame"})

			state.WriteFrame(grayFrame(1920, 1080, 32))
			player.Tick(now)
			So(events, ShouldResemble, []string{"frame", "frame"})
		})

		Convey("Subtitle changes are forwarded including clears", func() {
			state.WriteSubtitle(mo.Some("Hello"))
			player.Tick(now)
			state.WriteSubtitle(mo.None[string]())
			player.Tick(now)
			player.Tick(now)

			So(events, ShouldResemble, []string{"subtitle:Hello", "subtitle:<none>"})
		})

		Convey("Callbacks may drive the session while the bus drains", func() {
			player.OnEndOfStream(func() { session.SetLooping(true) })
			state.PushEvent(playback.EndOfStreamEvent("src"))

			player.Tick(now)
			So(state.Paused(), ShouldBeFalse)
			So(pipeline.calls, ShouldResemble, []string{"play", "seek"})
		})

		Convey("A custom idle poll is honoured", func() {
			player.IdlePoll(100 * time.Millisecond)
			So(session.SetPaused(true), ShouldBeNil)
			So(player.Tick(now), ShouldResemble, At(now.Add(100*time.Millisecond)))
		})
	})

	Convey("A player without callbacks drains silently", t, func() {
		state := playback.NewState(320, 240)
		player := New(playback.NewSession(state, &fakePipeline{}))

		state.PushEvent(playback.ErrorEvent("src", errors.New("e")))
		state.PushEvent(playback.MissingPluginEvent("src", "video/x-vp9", ""))
		state.PushEvent(playback.EndOfStreamEvent("src"))
		state.WriteFrame(grayFrame(320, 240, 0))
		state.WriteSubtitle(mo.Some("x"))

		So(func() { player.Tick(time.Now()) }, ShouldNotPanic)
		So(state.IsEOS(), ShouldBeTrue)
	})
}

func TestDraw(t *testing.T) {
	Convey("Given a player with a frame pending", t, func() {
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		pipeline := &fakePipeline{}
		state := playback.NewState(1920, 1080)
		state.SetClock(func() time.Time { return base })
		session := playback.NewSession(state, pipeline)
		player := New(session)

		state.WriteFrame(grayFrame(1920, 1080, 200))
		bounds := layout.Rect{Width: 800, Height: 800}

		Convey("The reference path uploads the claimed frame once", func() {
			r := &frameRecorder{}
			player.Draw(r, bounds, base.Add(40*time.Millisecond))
			player.Draw(r, bounds, base.Add(56*time.Millisecond))

			So(len(r.frames), ShouldEqual, 2)
			So(r.frames[0].IsPresent(), ShouldBeTrue)
			So(r.frames[1].IsPresent(), ShouldBeFalse)

			rect := r.bounds[0]
			So(rect.X, ShouldAlmostEqual, 0, 1e-6)
			So(rect.Y, ShouldAlmostEqual, 175, 1e-6)
			So(rect.Width, ShouldAlmostEqual, 800, 1e-6)
			So(rect.Height, ShouldAlmostEqual, 450, 1e-6)

			So(pipeline.offsets, ShouldResemble, []time.Duration{40 * time.Millisecond})
		})

		Convey("The converted path reuses its image until the next frame", func() {
			r := &imageRecorder{}
			player.DrawConverted(r, bounds, base)
			player.DrawConverted(r, bounds, base)

			So(len(r.images), ShouldEqual, 2)
			So(r.images[0], ShouldPointTo, r.images[1])
			So(r.images[0].Bounds().Dx(), ShouldEqual, 1920)

			state.WriteFrame(grayFrame(1920, 1080, 10))
			player.DrawConverted(r, bounds, base)
			So(r.images[2], ShouldNotPointTo, r.images[1])
			So(r.images[2].RGBAAt(0, 0).R, ShouldBeLessThan, r.images[1].RGBAAt(0, 0).R)
		})

		Convey("A malformed frame keeps the previous image", func() {
			r := &imageRecorder{}
			player.DrawConverted(r, bounds, base)

			bad := grayFrame(1920, 1080, 0)
			bad.Data = bad.Data[:100]
			state.WriteFrame(bad)
			player.DrawConverted(r, bounds, base)

			So(r.images[1], ShouldPointTo, r.images[0])
		})

		Convey("A paused player leaves the pending frame for later", func() {
			So(session.SetPaused(true), ShouldBeNil)
			So(player.Tick(base).Kind, ShouldEqual, RedrawAt)

			r := &frameRecorder{}
			player.Draw(r, bounds, base)
			So(r.frames[0].IsPresent(), ShouldBeFalse)

			ir := &imageRecorder{}
			player.DrawConverted(ir, bounds, base)
			So(ir.images, ShouldBeEmpty)

			So(state.FrameReady(), ShouldBeTrue)
			So(pipeline.offsets, ShouldBeEmpty)

			So(session.SetPaused(false), ShouldBeNil)
			player.Draw(r, bounds, base)
			So(r.frames[1].IsPresent(), ShouldBeTrue)
			So(state.FrameReady(), ShouldBeFalse)
		})

		Convey("A frame whose layout lies about its planes is dropped", func() {
			state.WriteFrame(playback.Frame{
				Layout: playback.PixelLayout{Format: playback.FormatRGBA, Width: 4, Height: 4, Strides: [3]int{16}},
				Data:   make([]byte, 8),
			})

			r := &imageRecorder{}
			So(func() { player.DrawConverted(r, bounds, base) }, ShouldNotPanic)
			So(r.images, ShouldBeEmpty)
		})

		Convey("Nothing is painted on the converted path before the first frame", func() {
			empty := New(playback.NewSession(playback.NewState(1920, 1080), &fakePipeline{}))
			r := &imageRecorder{}
			empty.DrawConverted(r, bounds, base)
			So(r.images, ShouldBeEmpty)
		})
	})
}

func TestLayoutAndCursor(t *testing.T) {
	Convey("Given a 1920x1080 player", t, func() {
		player := New(playback.NewSession(playback.NewState(1920, 1080), &fakePipeline{}))
		limits := layout.NewLimits(layout.Size{}, layout.Size{Width: 1000, Height: 600})

		Convey("It shrinks to the fitted video by default", func() {
			got := player.Layout(limits)
			So(got.Width, ShouldAlmostEqual, 1000, 1e-6)
			So(got.Height, ShouldAlmostEqual, 562.5, 1e-6)
		})

		Convey("Fill lengths take the whole limits", func() {
			player.Width(layout.Fill()).Height(layout.Fill())
			So(player.Layout(limits), ShouldResemble, layout.Size{Width: 1000, Height: 600})
		})

		Convey("The cursor can be hidden", func() {
			So(player.MouseInteraction(), ShouldEqual, InteractionDefault)
			So(player.MouseHidden(true).MouseInteraction(), ShouldEqual, InteractionHidden)
		})
	})
}

type countingSkipper struct{ calls int }

func (s *countingSkipper) ShouldConvert() bool {
	s.calls++
	return false
}

func TestConversionSkipper(t *testing.T) {
	Convey("Given a skipper that rejects every conversion", t, func() {
		state := playback.NewState(64, 32)
		skipper := &countingSkipper{}
		player := New(playback.NewSession(state, &fakePipeline{})).ConversionSkipper(skipper)
		r := &imageRecorder{}
		bounds := layout.Rect{Width: 64, Height: 32}

		Convey("The first frame is still converted", func() {
			state.WriteFrame(grayFrame(64, 32, 50))
			player.DrawConverted(r, bounds, time.Now())
			So(r.images, ShouldHaveLength, 1)
			So(skipper.calls, ShouldEqual, 0)

			Convey("Later frames are claimed but not converted", func() {
				state.WriteFrame(grayFrame(64, 32, 150))
				player.DrawConverted(r, bounds, time.Now())

				So(skipper.calls, ShouldEqual, 1)
				So(state.FrameReady(), ShouldBeFalse)
				So(r.images[1], ShouldPointTo, r.images[0])
			})
		})
	})
}
