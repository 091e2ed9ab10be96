package gstreamer

import (
	"context"
	"errors"
	"time"

	"github.com/tinyzimmer/go-gst/gst"

	"frame-bridge/pkg/playback"
)

// busPollInterval bounds how long the watcher blocks before checking ctx.
const busPollInterval = 50 * time.Millisecond

// watchBus forwards pipeline messages into the state's status queue until
// ctx is cancelled.
func (p *Pipeline) watchBus(ctx context.Context) {
	defer close(p.done)

	bus := p.pipeline.GetPipelineBus()
	for {
		select {
		case <-ctx.Done():
			p.log.Debug("Pipeline: bus watcher stopped")
			return
		default:
		}

		msg := bus.TimedPop(busPollInterval)
		if msg == nil {
			continue
		}

		if ev, ok := toEvent(msg); ok {
			p.state.PushEvent(ev)
		}
	}
}

// toEvent converts the message kinds the widget understands.
func toEvent(msg *gst.Message) (playback.StatusEvent, bool) {
	source := msg.Source()

	switch msg.Type() {
	case gst.MessageError:
		gerr := msg.ParseError()
		return playback.ErrorEvent(source, gstError(gerr)), true

	case gst.MessageWarning:
		gerr := msg.ParseWarning()
		return playback.WarningEvent(source, gstError(gerr)), true

	case gst.MessageEOS:
		return playback.EndOfStreamEvent(source), true

	case gst.MessageElement:
		structure := msg.GetStructure()
		if structure == nil {
			return playback.StatusEvent{}, false
		}
		return playback.ElementEvent(source, notice(structure.Name(), structure.Values())), true
	}

	return playback.StatusEvent{}, false
}

func notice(name string, values map[string]interface{}) playback.ElementNotice {
	fields := make(map[string]any, len(values))
	for k, v := range values {
		fields[k] = v
	}
	return playback.ElementNotice{Name: name, Fields: fields}
}

// Error carries the debug string GStreamer attaches to bus errors.
type Error struct {
	Message string
	Debug   string
}

func (e *Error) Error() string {
	if e.Debug == "" {
		return e.Message
	}
	return e.Message + " (" + e.Debug + ")"
}

func gstError(gerr *gst.GError) error {
	if gerr == nil {
		return errors.New("unknown pipeline error")
	}
	return &Error{Message: gerr.Error(), Debug: gerr.DebugString()}
}
