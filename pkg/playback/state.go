// Package playback holds the state shared between the decoding pipeline and
// the UI thread, and the session operations that mutate it.
//
// The pipeline is the only writer of the frame, its timestamp and the
// subtitle text. The UI thread is the only writer of the session flags.
// Every consumer-side read is non-blocking: a busy lock means "nothing this
// tick", never an error.
package playback

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/mo"
)

// State is the synchronized handle both sides of the bridge share.
type State struct {
	width, height int

	frameMu    sync.Mutex
	frame      Frame
	frameReady atomic.Bool
	frameSeq   atomic.Uint64

	// scratch is owned by the consumer and backs the claimed FrameView.
	scratch Frame

	lastFrameMu   sync.Mutex
	lastFrameTime time.Time

	subtitleMu    sync.Mutex
	subtitle      mo.Option[string]
	subtitleReady atomic.Bool

	isEOS            atomic.Bool
	looping          atomic.Bool
	paused           atomic.Bool
	restartRequested atomic.Bool

	bus *Queue
	now func() time.Time
}

// NewState creates the shared state for a video of the given natural size.
func NewState(width, height int) *State {
	return &State{
		width:  width,
		height: height,
		bus:    NewQueue(DefaultQueueCapacity),
		now:    time.Now,
	}
}

// SetClock replaces the clock used to stamp frames and claims.
func (s *State) SetClock(now func() time.Time) {
	s.now = now
}

// NaturalSize returns the decoded video size in pixels.
func (s *State) NaturalSize() (int, int) {
	return s.width, s.height
}

// Bus returns the status event queue.
func (s *State) Bus() *Queue {
	return s.bus
}

// WriteFrame stores a freshly decoded frame and marks it ready.
// The frame bytes are copied; the caller may reuse f.Data afterwards.
func (s *State) WriteFrame(f Frame) {
	s.frameMu.Lock()
	s.frame.Layout = f.Layout
	s.frame.PTS = f.PTS
	s.frame.Data = append(s.frame.Data[:0], f.Data...)
	s.frameMu.Unlock()

	s.lastFrameMu.Lock()
	s.lastFrameTime = s.now()
	s.lastFrameMu.Unlock()

	s.frameSeq.Add(1)
	s.frameReady.Store(true)
}

// WriteSubtitle replaces the current subtitle text. None clears it.
func (s *State) WriteSubtitle(text mo.Option[string]) {
	s.subtitleMu.Lock()
	s.subtitle = text
	s.subtitleMu.Unlock()

	s.subtitleReady.Store(true)
}

// PushEvent enqueues a status event.
func (s *State) PushEvent(ev StatusEvent) {
	s.bus.Push(ev)
}

// FrameReady reports whether an unclaimed frame is waiting.
func (s *State) FrameReady() bool {
	return s.frameReady.Load()
}

// FrameSeq returns the sequence number of the most recently written frame.
func (s *State) FrameSeq() uint64 {
	return s.frameSeq.Load()
}

// TryClaimFrame consumes the ready flag and copies the frame out.
// It returns None when no new frame was written since the last claim, or when
// the producer holds the frame lock; in the latter case the frame is skipped.
func (s *State) TryClaimFrame() mo.Option[FrameView] {
	if !s.frameReady.Swap(false) {
		return mo.None[FrameView]()
	}
	if !s.frameMu.TryLock() {
		return mo.None[FrameView]()
	}
	s.scratch.Layout = s.frame.Layout
	s.scratch.PTS = s.frame.PTS
	s.scratch.Data = append(s.scratch.Data[:0], s.frame.Data...)
	seq := s.frameSeq.Load()
	s.frameMu.Unlock()

	return mo.Some(FrameView{Frame: s.scratch, Seq: seq, ClaimedAt: s.now()})
}

// LastFrameTime returns when the latest frame was written. The second value
// is false when the timestamp lock is busy.
func (s *State) LastFrameTime() (time.Time, bool) {
	if !s.lastFrameMu.TryLock() {
		return time.Time{}, false
	}
	defer s.lastFrameMu.Unlock()
	return s.lastFrameTime, true
}

// AVOffset is the time elapsed between the latest frame write and now.
// A busy timestamp lock yields zero.
func (s *State) AVOffset(now time.Time) time.Duration {
	last, ok := s.LastFrameTime()
	if !ok || last.IsZero() {
		last = now
	}
	return now.Sub(last)
}

// ClaimSubtitle consumes the subtitle ready flag. The second value is true
// only when the text changed and could be read this tick.
func (s *State) ClaimSubtitle() (mo.Option[string], bool) {
	if !s.subtitleReady.Swap(false) {
		return mo.None[string](), false
	}
	if !s.subtitleMu.TryLock() {
		return mo.None[string](), false
	}
	defer s.subtitleMu.Unlock()
	return s.subtitle, true
}

// IsEOS reports whether playback stopped at the end of the stream.
func (s *State) IsEOS() bool { return s.isEOS.Load() }

// SetEOS marks or clears the end of stream.
func (s *State) SetEOS(eos bool) { s.isEOS.Store(eos) }

// Looping reports whether end of stream restarts playback.
func (s *State) Looping() bool { return s.looping.Load() }

// SetLooping toggles restart on end of stream.
func (s *State) SetLooping(looping bool) { s.looping.Store(looping) }

// Paused reports the last requested pause state.
func (s *State) Paused() bool { return s.paused.Load() }

// RestartRequested reports whether a restart is pending.
func (s *State) RestartRequested() bool { return s.restartRequested.Load() }

// RequestRestart schedules a restart for the next active tick.
func (s *State) RequestRestart() { s.restartRequested.Store(true) }

// TakeRestart clears a pending restart and reports whether there was one.
func (s *State) TakeRestart() bool { return s.restartRequested.Swap(false) }

// Active reports whether the widget should drain and repaint every frame.
func (s *State) Active() bool {
	return s.restartRequested.Load() || (!s.isEOS.Load() && !s.paused.Load())
}

func (s *State) setPaused(paused bool) { s.paused.Store(paused) }
