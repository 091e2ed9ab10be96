package videoplayer

import "time"

// Tick runs once per redraw the host delivers and returns when the next one
// is wanted. While playback is active the bus is drained, callbacks fire and
// the next frame is requested. Otherwise nothing is touched and the host is
// asked to poll again after the idle interval, so a resume or restart issued
// from elsewhere is picked up.
func (v *VideoPlayer) Tick(now time.Time) RedrawRequest {
	start := time.Now()

	if !v.session.State().Active() {
		v.monitor.RecordTick(time.Since(start), false)
		return At(now.Add(v.idlePoll))
	}

	v.drain()
	v.notifyFrame()
	v.notifySubtitle()

	v.monitor.RecordTick(time.Since(start), true)
	return NextFrame()
}
