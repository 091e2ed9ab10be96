package sdlhost

import (
	"context"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/log"
	"frame-bridge/widgets/videoplayer"
)

// Screen is what the loop drives once per iteration.
type Screen interface {
	// HandleEvent reacts to one SDL event and returns false to quit.
	HandleEvent(ev sdl.Event) bool
	// Update ticks the screen and says when it wants the next one.
	Update(now time.Time) videoplayer.RedrawRequest
	// Draw paints and presents one frame.
	Draw(now time.Time) error
}

// dueAt is when the next tick is wanted.
func dueAt(req videoplayer.RedrawRequest, lastFrame time.Time, frameInterval time.Duration) time.Time {
	if req.Kind == videoplayer.RedrawAt {
		return req.At
	}
	return lastFrame.Add(frameInterval)
}

// waitFor is how long the loop may sleep before the next tick.
func waitFor(req videoplayer.RedrawRequest, now, lastFrame time.Time, frameInterval time.Duration) time.Duration {
	return max(dueAt(req, lastFrame, frameInterval).Sub(now), 0)
}

// Run pumps events and paces Update and Draw until ctx ends, the window is
// closed or the screen asks to quit.
func Run(ctx context.Context, screen Screen, frameInterval time.Duration) error {
	logger := log.For("sdlhost")
	req := videoplayer.NextFrame()
	lastFrame := time.Now()

	for {
		if ctx.Err() != nil {
			return nil
		}

		wait := waitFor(req, time.Now(), lastFrame, frameInterval)
		handled := false
		ev := sdl.WaitEventTimeout(int(wait / time.Millisecond))
		for ; ev != nil; ev = sdl.PollEvent() {
			handled = true
			if _, quit := ev.(*sdl.QuitEvent); quit {
				logger.Info("Loop: window closed")
				return nil
			}
			if !screen.HandleEvent(ev) {
				return nil
			}
		}

		// Input forces a tick.
		now := time.Now()
		if !handled && now.Before(dueAt(req, lastFrame, frameInterval)) {
			continue
		}

		req = screen.Update(now)
		if err := screen.Draw(now); err != nil {
			return err
		}
		lastFrame = now
	}
}
