package playback

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"frame-bridge/pkg/log"
)

// ErrSeek is returned when the pipeline cannot seek back to the start.
var ErrSeek = errors.New("seek to start failed")

// Pipeline is the control surface the UI side needs from the decoder.
type Pipeline interface {
	SeekToStart() error
	SetPaused(paused bool) error
	ReportAVOffset(offset time.Duration)
}

// Session ties the shared state to the pipeline that feeds it.
type Session struct {
	ID       uuid.UUID
	state    *State
	pipeline Pipeline
	log      *logrus.Entry
}

// NewSession creates a session over state driven by pipeline.
func NewSession(state *State, pipeline Pipeline) *Session {
	id := uuid.New()
	return &Session{
		ID:       id,
		state:    state,
		pipeline: pipeline,
		log:      log.For("session").WithField("session", id.String()),
	}
}

// State returns the shared state.
func (s *Session) State() *State {
	return s.state
}

// Log returns the session-scoped logger.
func (s *Session) Log() *logrus.Entry {
	return s.log
}

// Paused reports whether playback is paused.
func (s *Session) Paused() bool {
	return s.state.Paused()
}

// SetPaused pauses or resumes the pipeline. Resuming at end of stream
// schedules a restart from the beginning. The flag follows the request even
// when the pipeline reports an error.
func (s *Session) SetPaused(paused bool) error {
	err := s.pipeline.SetPaused(paused)
	s.state.setPaused(paused)

	if !paused && s.state.IsEOS() {
		s.state.RequestRestart()
	}
	if err != nil {
		return fmt.Errorf("set paused=%t: %w", paused, err)
	}
	return nil
}

// Looping reports whether end of stream restarts playback.
func (s *Session) Looping() bool {
	return s.state.Looping()
}

// SetLooping toggles looping.
func (s *Session) SetLooping(looping bool) {
	s.state.SetLooping(looping)
}

// IsEOS reports whether playback stopped at the end of the stream.
func (s *Session) IsEOS() bool {
	return s.state.IsEOS()
}

// RequestRestart asks the widget to restart on its next tick.
func (s *Session) RequestRestart() {
	s.state.RequestRestart()
}

// Restart clears the end of stream, resumes and seeks to the start. The seek
// is attempted even when resuming fails.
func (s *Session) Restart() error {
	s.state.SetEOS(false)
	resumeErr := s.SetPaused(false)

	var seekErr error
	if err := s.pipeline.SeekToStart(); err != nil {
		seekErr = fmt.Errorf("%w: %w", ErrSeek, err)
	}
	if err := errors.Join(resumeErr, seekErr); err != nil {
		return err
	}
	s.log.Debug("Session: restarted from the beginning")
	return nil
}

// ReportAVOffset forwards the measured audio/video offset to the pipeline.
func (s *Session) ReportAVOffset(offset time.Duration) {
	s.pipeline.ReportAVOffset(offset)
}

// Close releases the pipeline when it owns resources.
func (s *Session) Close() error {
	if c, ok := s.pipeline.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
