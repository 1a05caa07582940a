package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-display/common"
)

// DefaultWindow is the number of frames averaged per report.
const DefaultWindow = 100

// Report is one rolling frame-time summary.
type Report struct {
	// Frames is the number of frames averaged.
	Frames int

	// AverageFrameTime is the mean duration between consecutive frames.
	AverageFrameTime time.Duration

	// FPS is the frame rate implied by AverageFrameTime.
	FPS float64

	// HeapMB is the live heap size in megabytes.
	HeapMB float64

	// GCCount is the number of completed GC cycles.
	GCCount uint32
}

// FrameStats tracks frame timing and reports a rolling average every window frames.
// The numbers are for humans reading logs, not for pacing.
type FrameStats struct {
	logger   *slog.Logger
	window   int
	now      func() time.Time
	memStats runtime.MemStats

	frameCount int
	total      time.Duration
	lastTime   time.Time
	last       Report
}

// FrameStatsOption is a functional option for configuring FrameStats.
type FrameStatsOption func(*FrameStats)

// WithWindow sets how many frames are averaged per report.
//
// Parameters:
//   - frames: frames per report, values below 1 keep the default
//
// Returns:
//   - FrameStatsOption: option function to apply
func WithWindow(frames int) FrameStatsOption {
	return func(s *FrameStats) {
		if frames > 0 {
			s.window = frames
		}
	}
}

// WithLogger sets the logger reports are written to.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - FrameStatsOption: option function to apply
func WithLogger(logger *slog.Logger) FrameStatsOption {
	return func(s *FrameStats) {
		s.logger = logger
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - FrameStatsOption: option function to apply
func WithClock(now func() time.Time) FrameStatsOption {
	return func(s *FrameStats) {
		s.now = now
	}
}

// NewFrameStats creates FrameStats averaging DefaultWindow frames unless configured otherwise.
//
// Parameters:
//   - options: functional options to apply
//
// Returns:
//   - *FrameStats: the frame statistics tracker
func NewFrameStats(options ...FrameStatsOption) *FrameStats {
	s := &FrameStats{
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = common.LoggerOrDefault(s.logger)
	return s
}

// Tick should be called once per presented frame. The first call only starts the clock.
// When window frames have elapsed it logs a report and starts a new window.
//
// Returns:
//   - bool: true if a report was produced this tick
func (s *FrameStats) Tick() bool {
	current := s.now()
	if s.lastTime.IsZero() {
		s.lastTime = current
		return false
	}
	s.total += current.Sub(s.lastTime)
	s.lastTime = current
	s.frameCount++

	if s.frameCount < s.window {
		return false
	}

	avg := s.total / time.Duration(s.frameCount)
	runtime.ReadMemStats(&s.memStats)
	s.last = Report{
		Frames:           s.frameCount,
		AverageFrameTime: avg,
		HeapMB:           float64(s.memStats.Alloc) / 1024 / 1024,
		GCCount:          s.memStats.NumGC,
	}
	if avg > 0 {
		s.last.FPS = float64(time.Second) / float64(avg)
	}

	s.logger.Info("frame stats",
		slog.Int("frames", s.last.Frames),
		slog.Duration("avgFrameTime", s.last.AverageFrameTime),
		slog.Float64("fps", s.last.FPS),
		slog.Float64("heapMB", s.last.HeapMB),
		slog.Any("gcCount", s.last.GCCount),
	)

	s.frameCount = 0
	s.total = 0
	return true
}

// Last returns the most recent report, the zero Report before the first one.
func (s *FrameStats) Last() Report {
	return s.last
}

// Reset restarts timing, e.g. after the loop was paused while minimized.
func (s *FrameStats) Reset() {
	s.frameCount = 0
	s.total = 0
	s.lastTime = time.Time{}
}
