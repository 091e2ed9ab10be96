package videoplayer

import (
	"frame-bridge/pkg/playback"
)

var drainKinds = []playback.EventKind{
	playback.EventError,
	playback.EventEndOfStream,
	playback.EventWarning,
	playback.EventElement,
}

// drain processes every queued status event in arrival order, then applies
// the resulting restart or end-of-stream pause. A pending restart wins over
// the pause.
func (v *VideoPlayer) drain() {
	state := v.session.State()

	restart := state.TakeRestart()
	eosPause := false

	for {
		ev, ok := state.Bus().PopFiltered(drainKinds...)
		if !ok {
			break
		}

		switch ev.Kind {
		case playback.EventError:
			v.log.WithField("source", ev.Source).Errorf("VideoPlayer: bus returned an error: %v", ev.Cause)
			if v.cb.onError != nil {
				v.cb.onError(ev.Cause)
			}

		case playback.EventElement:
			if ev.Notice != nil && ev.Notice.IsMissingPlugin() && v.cb.onMissingPlugin != nil {
				v.cb.onMissingPlugin(*ev.Notice)
			}

		case playback.EventEndOfStream:
			if v.cb.onEndOfStream != nil {
				v.cb.onEndOfStream()
			}
			if state.Looping() {
				restart = true
			} else {
				eosPause = true
			}

		case playback.EventWarning:
			v.log.WithField("source", ev.Source).Warnf("VideoPlayer: bus returned a warning: %v", ev.Cause)
			if v.cb.onWarning != nil {
				v.cb.onWarning(ev.Cause)
			}
		}
	}

	switch {
	case restart:
		if err := v.session.Restart(); err != nil {
			v.log.Errorf("VideoPlayer: cannot restart stream: %v", err)
		}
	case eosPause:
		state.SetEOS(true)
		if err := v.session.SetPaused(true); err != nil {
			v.log.Warnf("VideoPlayer: pause at end of stream: %v", err)
		}
	}
}

// notifyFrame fires the new-frame callback once per delivered frame.
func (v *VideoPlayer) notifyFrame() {
	if v.cb.onNewFrame == nil {
		return
	}
	state := v.session.State()
	if !state.FrameReady() {
		return
	}
	if seq := state.FrameSeq(); seq != v.lastNotifiedSeq {
		v.lastNotifiedSeq = seq
		v.cb.onNewFrame()
	}
}

// notifySubtitle forwards a changed subtitle. A busy lock drops the update for this tick.
func (v *VideoPlayer) notifySubtitle() {
	if v.cb.onSubtitleText == nil {
		return
	}
	if text, ok := v.session.State().ClaimSubtitle(); ok {
		v.cb.onSubtitleText(text)
	}
}
