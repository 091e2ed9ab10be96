package playback

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func testFrame(fill byte) Frame {
	l := I420Layout(4, 2)
	data := make([]byte, l.Size)
	for i := range data {
		data[i] = fill
	}
	return Frame{Layout: l, Data: data, PTS: time.Duration(fill) * time.Millisecond}
}

func TestFrameHandoff(t *testing.T) {
	Convey("Given a fresh state", t, func() {
		s := NewState(4, 2)

		Convey("Nothing is claimable before the first write", func() {
			So(s.TryClaimFrame().IsPresent(), ShouldBeFalse)
		})

		Convey("Each write is claimed at most once", func() {
			s.WriteFrame(testFrame(7))

			first := s.TryClaimFrame()
			So(first.IsPresent(), ShouldBeTrue)
			So(first.MustGet().Data[0], ShouldEqual, 7)
			So(first.MustGet().Seq, ShouldEqual, 1)

			So(s.TryClaimFrame().IsPresent(), ShouldBeFalse)

			s.WriteFrame(testFrame(9))
			second := s.TryClaimFrame()
			So(second.MustGet().Data[0], ShouldEqual, 9)
			So(second.MustGet().Seq, ShouldEqual, 2)
		})

		Convey("Several writes between claims collapse into one claim of the latest", func() {
			s.WriteFrame(testFrame(1))
			s.WriteFrame(testFrame(2))
			s.WriteFrame(testFrame(3))

			view := s.TryClaimFrame().MustGet()
			So(view.Data[0], ShouldEqual, 3)
			So(view.Seq, ShouldEqual, 3)
			So(s.TryClaimFrame().IsPresent(), ShouldBeFalse)
		})

		Convey("A busy frame lock skips the frame without an error", func() {
			s.WriteFrame(testFrame(5))
			s.frameMu.Lock()
			claim := s.TryClaimFrame()
			s.frameMu.Unlock()

			So(claim.IsPresent(), ShouldBeFalse)
			So(s.FrameReady(), ShouldBeFalse)
			So(s.TryClaimFrame().IsPresent(), ShouldBeFalse)
		})

		Convey("The producer may reuse its buffer after a write", func() {
			f := testFrame(4)
			s.WriteFrame(f)
			f.Data[0] = 99

			So(s.TryClaimFrame().MustGet().Data[0], ShouldEqual, 4)
		})

		Convey("Planes slice the claimed buffer", func() {
			s.WriteFrame(testFrame(1))
			view := s.TryClaimFrame().MustGet()
			So(len(view.Plane(0)), ShouldEqual, view.Layout.Offsets[1])
			So(view.Plane(3), ShouldBeNil)
			So(view.Complete(), ShouldBeTrue)
		})
	})
}

func TestAVOffset(t *testing.T) {
	Convey("Given a state with a fake clock", t, func() {
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		now := base
		s := NewState(4, 2)
		s.SetClock(func() time.Time { return now })

		s.WriteFrame(testFrame(1))

		Convey("The offset is the time since the last write", func() {
			So(s.AVOffset(base.Add(40*time.Millisecond)), ShouldEqual, 40*time.Millisecond)
		})

		Convey("A busy timestamp lock reports zero", func() {
			s.lastFrameMu.Lock()
			offset := s.AVOffset(base.Add(time.Second))
			s.lastFrameMu.Unlock()
			So(offset, ShouldEqual, 0)
		})

		Convey("The timestamp is set before the frame is ready", func() {
			now = base.Add(time.Second)
			s.WriteFrame(testFrame(2))
			last, ok := s.LastFrameTime()
			So(ok, ShouldBeTrue)
			So(last, ShouldEqual, base.Add(time.Second))
		})
	})
}

func TestSubtitles(t *testing.T) {
	Convey("Given a state", t, func() {
		s := NewState(4, 2)

		Convey("Unchanged text is not claimable", func() {
			_, ok := s.ClaimSubtitle()
			So(ok, ShouldBeFalse)
		})

		Convey("New text is claimed once", func() {
			s.WriteSubtitle(mo.Some("hello"))
			text, ok := s.ClaimSubtitle()
			So(ok, ShouldBeTrue)
			So(text.OrEmpty(), ShouldEqual, "hello")

			_, ok = s.ClaimSubtitle()
			So(ok, ShouldBeFalse)
		})

		Convey("Clearing is delivered as None", func() {
			s.WriteSubtitle(mo.None[string]())
			text, ok := s.ClaimSubtitle()
			So(ok, ShouldBeTrue)
			So(text.IsAbsent(), ShouldBeTrue)
		})

		Convey("A busy lock skips the update silently", func() {
			s.WriteSubtitle(mo.Some("busy"))
			s.subtitleMu.Lock()
			_, ok := s.ClaimSubtitle()
			s.subtitleMu.Unlock()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestConcurrentHandoff(t *testing.T) {
	Convey("A producer and a consumer never observe a torn or repeated frame", t, func() {
		s := NewState(4, 2)
		const writes = 2000

		var done atomic.Bool
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer done.Store(true)
			for i := 0; i < writes; i++ {
				s.WriteFrame(testFrame(byte(i)))
			}
		}()

		var lastSeq uint64
		claims := 0
		torn := false
		for !done.Load() || s.FrameReady() {
			v, ok := s.TryClaimFrame().Get()
			if !ok {
				continue
			}
			claims++
			if v.Seq <= lastSeq {
				torn = true
			}
			lastSeq = v.Seq
			for _, b := range v.Data {
				if b != v.Data[0] {
					torn = true
				}
			}
		}
		wg.Wait()

		So(torn, ShouldBeFalse)
		So(claims, ShouldBeLessThanOrEqualTo, writes)
	})
}

func TestQueue(t *testing.T) {
	Convey("Given a queue", t, func() {
		q := NewQueue(3)

		Convey("Filtered pops keep arrival order and leave other kinds queued", func() {
			q.Push(WarningEvent("a", errors.New("w")))
			q.Push(StatusEvent{Kind: EventOther, Source: "b"})
			q.Push(EndOfStreamEvent("c"))

			ev, ok := q.PopFiltered(EventEndOfStream, EventWarning)
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, EventWarning)

			ev, ok = q.PopFiltered(EventEndOfStream, EventWarning)
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, EventEndOfStream)

			_, ok = q.PopFiltered(EventEndOfStream, EventWarning)
			So(ok, ShouldBeFalse)
			So(q.Len(), ShouldEqual, 1)
		})

		Convey("A full queue drops the oldest event", func() {
			for _, src := range []string{"1", "2", "3", "4"} {
				q.Push(EndOfStreamEvent(src))
			}
			So(q.Len(), ShouldEqual, 3)
			So(q.Dropped(), ShouldEqual, 1)

			ev, _ := q.PopFiltered(EventEndOfStream)
			So(ev.Source, ShouldEqual, "2")
		})
	})

	Convey("Missing plugin notices are recognised", t, func() {
		ev := MissingPluginEvent("decodebin0", "video/x-h265", "H.265 decoder")
		So(ev.Kind, ShouldEqual, EventElement)
		So(ev.Notice.IsMissingPlugin(), ShouldBeTrue)
		So(ev.Notice.Detail(), ShouldEqual, "video/x-h265")
		So(ElementNotice{Name: "level"}.IsMissingPlugin(), ShouldBeFalse)
	})
}

func TestLayouts(t *testing.T) {
	Convey("I420 follows the GStreamer default strides", t, func() {
		l := I420Layout(1920, 1080)
		So(l.Strides, ShouldResemble, [3]int{1920, 960, 960})
		So(l.Offsets, ShouldResemble, [3]int{0, 2073600, 2592000})
		So(l.Size, ShouldEqual, 3110400)

		odd := I420Layout(322, 241)
		So(odd.Strides, ShouldResemble, [3]int{324, 164, 164})
		So(odd.Offsets, ShouldResemble, [3]int{0, 78408, 98252})
		So(odd.Size, ShouldEqual, 118096)
	})

	Convey("NV12 interleaves chroma in a second plane", t, func() {
		l := NV12Layout(640, 480)
		So(l.Planes(), ShouldEqual, 2)
		So(l.Offsets[1], ShouldEqual, 640*480)
		So(l.Size, ShouldEqual, 640*480*3/2)
	})

	Convey("Caps format names parse", t, func() {
		f, err := ParsePixelFormat("NV12")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, FormatNV12)
		_, err = ParsePixelFormat("YUY2")
		So(err, ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	Convey("Default layouts fit their own buffers", t, func() {
		for _, format := range []PixelFormat{FormatI420, FormatNV12, FormatRGBA} {
			l := LayoutFor(format, 322, 241)
			f := Frame{Layout: l, Data: make([]byte, l.Size)}
			So(f.Validate(), ShouldBeNil)
			So(f.Complete(), ShouldBeTrue)
		}
	})

	Convey("A layout that claims no bytes is caught by its strides", t, func() {
		f := Frame{
			Layout: PixelLayout{Format: FormatRGBA, Width: 4, Height: 4, Strides: [3]int{16}},
			Data:   make([]byte, 8),
		}
		So(f.Validate(), ShouldNotBeNil)
		So(f.Complete(), ShouldBeFalse)
	})

	Convey("Strides shorter than a row are rejected", t, func() {
		l := I420Layout(8, 4)
		l.Strides[0] = 4
		So(Frame{Layout: l, Data: make([]byte, l.Size)}.Validate(), ShouldNotBeNil)
	})

	Convey("Chroma planes past the end of the buffer are rejected", t, func() {
		l := I420Layout(8, 4)
		l.Offsets[2] = l.Size
		So(Frame{Layout: l, Data: make([]byte, l.Size)}.Validate(), ShouldNotBeNil)
	})

	Convey("Negative offsets and huge strides never panic", t, func() {
		l := NV12Layout(8, 4)
		l.Offsets[1] = -1
		So(Frame{Layout: l, Data: make([]byte, l.Size)}.Validate(), ShouldNotBeNil)

		l = NV12Layout(8, 4)
		l.Strides[1] = int(^uint(0) >> 1)
		So(func() { _ = Frame{Layout: l, Data: make([]byte, l.Size)}.Validate() }, ShouldNotPanic)
		So(Frame{Layout: l, Data: make([]byte, l.Size)}.Validate(), ShouldNotBeNil)
	})
}
