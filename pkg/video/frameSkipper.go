package video

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"frame-bridge/pkg/log"
	"frame-bridge/pkg/performance"
)

// SkipMode is how many claimed frames are converted on the RGBA path.
type SkipMode int

const (
	ModeNormal SkipMode = iota // Convert every claimed frame
	ModeSkip2                  // Convert every 2nd claimed frame
	ModeSkip3                  // Convert every 3rd claimed frame
)

func (m SkipMode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeSkip2:
		return "Skip2"
	case ModeSkip3:
		return "Skip3"
	default:
		return "Unknown"
	}
}

// ReportSource supplies the averages the skipper reacts to.
type ReportSource interface {
	GetReport() performance.Report
}

// FrameSkipper thins out YUV to RGBA conversions when they cannot keep up
// with the display. Skipped frames are still claimed, so the previous image
// stays on screen.
type FrameSkipper struct {
	source          ReportSource
	mode            SkipMode
	frameCounter    uint64
	consecutiveSlow int
	consecutiveGood int

	slowThreshold time.Duration // average conversion above this counts as slow
	goodThreshold time.Duration // average conversion below this counts as good

	// Hysteresis so a single spike does not flip modes.
	enterSkip2After   int
	enterSkip3After   int
	exitToNormalAfter int
	exitToSkip2After  int

	mu  sync.RWMutex
	log *logrus.Entry
}

// SkipDecision is the outcome for one claimed frame.
type SkipDecision struct {
	ShouldConvert bool
	Reason        string
	CurrentMode   SkipMode
}

// NewFrameSkipper creates a skipper reading averages from source.
func NewFrameSkipper(source ReportSource) *FrameSkipper {
	return &FrameSkipper{
		source:        source,
		mode:          ModeNormal,
		slowThreshold: 12 * time.Millisecond,
		goodThreshold: 6 * time.Millisecond,

		enterSkip2After:   3,
		enterSkip3After:   5,
		exitToNormalAfter: 60,
		exitToSkip2After:  30,

		log: log.For("frame-skipper"),
	}
}

// ShouldConvert reports whether the frame just claimed should be converted.
func (f *FrameSkipper) ShouldConvert() bool {
	return f.Decide(f.source.GetReport()).ShouldConvert
}

// Decide updates the mode from report and decides for the next frame.
func (f *FrameSkipper) Decide(report performance.Report) SkipDecision {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frameCounter++
	f.updateModeLocked(report)
	return f.makeDecisionLocked()
}

// updateModeLocked must be called with f.mu held.
func (f *FrameSkipper) updateModeLocked(report performance.Report) {
	avg := time.Duration(report.AvgConvertMs * float64(time.Millisecond))

	switch {
	case avg > f.slowThreshold:
		f.consecutiveSlow++
		f.consecutiveGood = 0
	case avg < f.goodThreshold:
		f.consecutiveGood++
		f.consecutiveSlow = 0
	default:
		f.consecutiveSlow = 0
		f.consecutiveGood = 0
	}

	switch f.mode {
	case ModeNormal:
		if f.consecutiveSlow >= f.enterSkip2After {
			f.setModeLocked(ModeSkip2)
		}
	case ModeSkip2:
		if f.consecutiveSlow >= f.enterSkip3After {
			f.setModeLocked(ModeSkip3)
		} else if f.consecutiveGood >= f.exitToNormalAfter {
			f.setModeLocked(ModeNormal)
		}
	case ModeSkip3:
		if f.consecutiveGood >= f.exitToSkip2After {
			f.setModeLocked(ModeSkip2)
		}
	}
}

func (f *FrameSkipper) setModeLocked(mode SkipMode) {
	f.log.Infof("FrameSkipper: %s -> %s", f.mode, mode)
	f.mode = mode
	f.consecutiveSlow = 0
	f.consecutiveGood = 0
}

// makeDecisionLocked must be called with f.mu held.
func (f *FrameSkipper) makeDecisionLocked() SkipDecision {
	every := uint64(1)
	switch f.mode {
	case ModeSkip2:
		every = 2
	case ModeSkip3:
		every = 3
	}

	convert := f.frameCounter%every == 0
	reason := "convert"
	if !convert {
		reason = "skip"
	}
	return SkipDecision{ShouldConvert: convert, Reason: f.mode.String() + ":" + reason, CurrentMode: f.mode}
}

// Reset returns to converting every frame, e.g. after a restart.
func (f *FrameSkipper) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mode = ModeNormal
	f.frameCounter = 0
	f.consecutiveSlow = 0
	f.consecutiveGood = 0
}

// GetMode returns the current skip mode
func (f *FrameSkipper) GetMode() SkipMode {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mode
}

// SetThresholds tunes the slow and good conversion averages in milliseconds.
func (f *FrameSkipper) SetThresholds(slowMs, goodMs float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.slowThreshold = time.Duration(slowMs * float64(time.Millisecond))
	f.goodThreshold = time.Duration(goodMs * float64(time.Millisecond))
}
