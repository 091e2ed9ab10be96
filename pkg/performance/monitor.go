package performance

import (
	"runtime"
	"sync"
	"time"
)

// RollingAverage maintains a rolling average of durations over a fixed window
type RollingAverage struct {
	samples []time.Duration
	sum     time.Duration
	index   int
	filled  bool
	mu      sync.RWMutex
}

// NewRollingAverage creates a rolling average tracker with specified window size
func NewRollingAverage(windowSize int) *RollingAverage {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &RollingAverage{samples: make([]time.Duration, windowSize)}
}

// Add records a new sample and updates the rolling average
func (r *RollingAverage) Add(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.filled {
		r.sum -= r.samples[r.index]
	}
	r.samples[r.index] = d
	r.sum += d

	r.index++
	if r.index >= len(r.samples) {
		r.index = 0
		r.filled = true
	}
}

// Average returns the current rolling average
func (r *RollingAverage) Average() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := r.count()
	if count == 0 {
		return 0
	}
	return r.sum / time.Duration(count)
}

// Count returns the number of samples currently tracked
func (r *RollingAverage) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count()
}

func (r *RollingAverage) count() int {
	if r.filled {
		return len(r.samples)
	}
	return r.index
}

// Reset clears all samples
func (r *RollingAverage) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sum = 0
	r.index = 0
	r.filled = false
	clear(r.samples)
}

// Monitor tracks how the widget keeps up with the pipeline: how long ticks
// and paints take, how long frame conversion takes on the converted path,
// and how far the painted frame lags the decoder.
type Monitor struct {
	tickTimes    *RollingAverage
	paintTimes   *RollingAverage
	convertTimes *RollingAverage
	avOffsets    *RollingAverage

	activeTicks      int
	idleTicks        int
	framesPresented  int
	conversionErrors int
	startTime        time.Time
	mu               sync.RWMutex
}

// Report contains aggregated playback metrics
type Report struct {
	AvgTickMs        float64 // Average tick (drain + callbacks) time
	AvgPaintMs       float64 // Average paint time
	AvgConvertMs     float64 // Average YUV to RGBA conversion time
	AvgAVOffsetMs    float64 // Average delay between frame write and paint
	ActiveTicks      int
	IdleTicks        int
	FramesPresented  int
	ConversionErrors int
	HeapMB           uint64 // Go heap currently allocated
	AvailableMB      uint64 // System memory available, zero when unknown
	MemoryPressure   MemoryPressureLevel
	IsHealthy        bool   // Paints fit in a 60Hz frame and the offset stays below 100ms
	UptimeSeconds    int64
}

// NewMonitor creates a new monitor
// windowSize determines how many samples are averaged (120 = 2 seconds at 60fps)
func NewMonitor(windowSize int) *Monitor {
	return &Monitor{
		tickTimes:    NewRollingAverage(windowSize),
		paintTimes:   NewRollingAverage(windowSize),
		convertTimes: NewRollingAverage(windowSize),
		avOffsets:    NewRollingAverage(windowSize),
		startTime:    time.Now(),
	}
}

// RecordTick records one scheduler tick
func (m *Monitor) RecordTick(d time.Duration, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if active {
		m.activeTicks++
		m.tickTimes.Add(d)
	} else {
		m.idleTicks++
	}
}

// RecordPaint records one paint pass
func (m *Monitor) RecordPaint(d time.Duration) {
	m.paintTimes.Add(d)
}

// RecordFramePresented counts a claimed frame that reached the renderer
func (m *Monitor) RecordFramePresented(avOffset time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.framesPresented++
	m.avOffsets.Add(avOffset)
}

// RecordConversion records a converted-path conversion
func (m *Monitor) RecordConversion(d time.Duration, err error) {
	if err != nil {
		m.mu.Lock()
		m.conversionErrors++
		m.mu.Unlock()
		return
	}
	m.convertTimes.Add(d)
}

// GetReport generates a report with current metrics
func (m *Monitor) GetReport() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	sys, ok := GetSystemMemory()
	pressure := MemoryPressureUnknown
	if ok {
		pressure = PressureFor(sys.AvailableMB)
	}

	avgPaint := m.paintTimes.Average()
	avgOffset := m.avOffsets.Average()

	return Report{
		AvgTickMs:        ms(m.tickTimes.Average()),
		AvgPaintMs:       ms(avgPaint),
		AvgConvertMs:     ms(m.convertTimes.Average()),
		AvgAVOffsetMs:    ms(avgOffset),
		ActiveTicks:      m.activeTicks,
		IdleTicks:        m.idleTicks,
		FramesPresented:  m.framesPresented,
		ConversionErrors: m.conversionErrors,
		HeapMB:           mem.Alloc / (1024 * 1024),
		AvailableMB:      sys.AvailableMB,
		MemoryPressure:   pressure,
		IsHealthy:        avgPaint < 16*time.Millisecond && avgOffset < 100*time.Millisecond && m.conversionErrors == 0,
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
	}
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickTimes.Reset()
	m.paintTimes.Reset()
	m.convertTimes.Reset()
	m.avOffsets.Reset()
	m.activeTicks = 0
	m.idleTicks = 0
	m.framesPresented = 0
	m.conversionErrors = 0
	m.startTime = time.Now()
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
