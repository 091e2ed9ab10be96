package gstreamer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"frame-bridge/pkg/log"
	"frame-bridge/pkg/playback"
)

var (
	// ErrNotNegotiated is returned when the video sink never agreed on a size.
	ErrNotNegotiated = errors.New("video caps not negotiated")
	// ErrPreroll is returned when the pipeline fails before its first frame.
	ErrPreroll = errors.New("pipeline preroll failed")
)

// PrerollTimeout bounds how long Open waits for the first frame.
var PrerollTimeout = 10 * time.Second

var initOnce sync.Once

// Pipeline is a running playbin feeding a playback.State.
type Pipeline struct {
	pipeline *gst.Pipeline
	video    *app.Sink
	text     *app.Sink
	state    *playback.State
	format   playback.PixelFormat
	audio    bool

	cancel context.CancelFunc
	done   chan struct{}
	log    *logrus.Entry
}

// Open builds a pipeline for uri, waits for it to negotiate a frame size and
// starts playback. The returned pipeline owns the shared state it feeds.
func Open(ctx context.Context, uri string, opts Options) (*Pipeline, error) {
	initOnce.Do(func() { gst.Init(nil) })

	logger := log.For("gstreamer").WithField("uri", uri)
	desc := buildLaunch(uri, opts)
	logger.Debugf("Pipeline: launching %s", desc)

	pipeline, err := gst.NewPipelineFromString(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	notices, err := preroll(ctx, pipeline)
	if err != nil {
		pipeline.SetState(gst.StateNull)
		return nil, err
	}

	p := &Pipeline{
		pipeline: pipeline,
		format:   opts.Format,
		audio:    opts.Audio,
		done:     make(chan struct{}),
		log:      logger,
	}

	elem, err := pipeline.GetElementByName(videoSinkName)
	if err != nil {
		pipeline.SetState(gst.StateNull)
		return nil, fmt.Errorf("failed to find video sink: %w", err)
	}
	p.video = app.SinkFromElement(elem)

	first := p.video.PullPreroll()
	if first == nil {
		pipeline.SetState(gst.StateNull)
		return nil, ErrNotNegotiated
	}
	width, height, err := frameSize(first)
	if err != nil {
		pipeline.SetState(gst.StateNull)
		return nil, err
	}

	p.state = playback.NewState(width, height)
	for _, n := range notices {
		p.state.PushEvent(n)
	}
	p.writeSample(first)

	p.video.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: p.onVideoSample,
	})

	if opts.Subtitles || opts.SubtitleURI != "" {
		if elem, err := pipeline.GetElementByName(textSinkName); err == nil {
			p.text = app.SinkFromElement(elem)
			p.text.SetCallbacks(&app.SinkCallbacks{
				NewSampleFunc: p.onTextSample,
			})
		} else {
			logger.Warnf("Pipeline: subtitles requested but no text sink: %v", err)
		}
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.watchBus(watchCtx)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to start pipeline: %w", err)
	}

	logger.Infof("Pipeline: playing %dx%d %s", width, height, opts.Format)
	return p, nil
}

// PrerollError reports a pipeline that failed before its first frame,
// along with any element notices posted on the way.
type PrerollError struct {
	Cause   error
	Notices []playback.ElementNotice
}

func (e *PrerollError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPreroll, e.Cause)
}

func (e *PrerollError) Unwrap() []error {
	return []error{ErrPreroll, e.Cause}
}

// MissingPlugins returns the missing plugin notices collected before the failure.
func (e *PrerollError) MissingPlugins() []playback.ElementNotice {
	var out []playback.ElementNotice
	for _, n := range e.Notices {
		if n.IsMissingPlugin() {
			out = append(out, n)
		}
	}
	return out
}

// preroll pauses the pipeline and waits until the first frame reaches the
// sinks. Element notices seen on the way are returned for replay.
func preroll(ctx context.Context, pipeline *gst.Pipeline) ([]playback.StatusEvent, error) {
	var events []playback.StatusEvent
	fail := func(cause error) error {
		perr := &PrerollError{Cause: cause}
		for _, ev := range events {
			if ev.Notice != nil {
				perr.Notices = append(perr.Notices, *ev.Notice)
			}
		}
		return perr
	}

	if err := pipeline.SetState(gst.StatePaused); err != nil {
		return nil, fail(err)
	}

	ctx, cancel := context.WithTimeout(ctx, PrerollTimeout)
	defer cancel()

	bus := pipeline.GetPipelineBus()
	for {
		if err := ctx.Err(); err != nil {
			return nil, fail(err)
		}

		msg := bus.TimedPop(busPollInterval)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageAsyncDone:
			return events, nil
		case gst.MessageError:
			return nil, fail(gstError(msg.ParseError()))
		case gst.MessageEOS:
			return nil, fail(errors.New("stream is empty"))
		case gst.MessageElement:
			if ev, ok := toEvent(msg); ok {
				events = append(events, ev)
			}
		}
	}
}

// State returns the shared state this pipeline writes into.
func (p *Pipeline) State() *playback.State {
	return p.state
}

// SeekToStart flushes and seeks back to zero.
func (p *Pipeline) SeekToStart() error {
	if !p.pipeline.SeekSimple(0, gst.FormatTime, gst.SeekFlagFlush) {
		return errors.New("pipeline rejected seek")
	}
	return nil
}

// SetPaused moves the pipeline between paused and playing.
func (p *Pipeline) SetPaused(paused bool) error {
	target := gst.StatePlaying
	if paused {
		target = gst.StatePaused
	}
	return p.pipeline.SetState(target)
}

// ReportAVOffset shifts audio against video by the measured offset.
func (p *Pipeline) ReportAVOffset(offset time.Duration) {
	if !p.audio {
		return
	}
	if err := p.pipeline.SetProperty("av-offset", -offset.Nanoseconds()); err != nil {
		p.log.Debugf("Pipeline: cannot set av-offset: %v", err)
	}
}

// Close stops the bus watcher and tears the pipeline down.
func (p *Pipeline) Close() error {
	if p.cancel != nil {
		p.cancel()
		<-p.done
		p.cancel = nil
	}
	if err := p.pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("failed to set pipeline to NULL: %w", err)
	}
	return nil
}

func (p *Pipeline) onVideoSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		p.log.Warn("Pipeline: failed to pull video sample, skipping frame")
		return gst.FlowOK
	}
	p.writeSample(sample)
	return gst.FlowOK
}

// writeSample copies a video sample into the shared state.
func (p *Pipeline) writeSample(sample *gst.Sample) {
	buffer := sample.GetBuffer()
	if buffer == nil {
		return
	}

	width, height := p.state.NaturalSize()
	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return
	}

	p.state.WriteFrame(playback.Frame{
		Layout: playback.LayoutFor(p.format, width, height),
		Data:   data,
		PTS:    time.Duration(buffer.PresentationTimestamp()),
	})
	buffer.Unmap()
}

func (p *Pipeline) onTextSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	text := subtitleText(mapInfo.Bytes())
	buffer.Unmap()

	p.state.WriteSubtitle(text)
	return gst.FlowOK
}

// subtitleText trims a text buffer; blank text clears the subtitle.
func subtitleText(data []byte) mo.Option[string] {
	text := strings.TrimSpace(strings.TrimRight(string(data), "\x00"))
	if text == "" {
		return mo.None[string]()
	}
	return mo.Some(text)
}

// frameSize reads width and height from a sample's caps.
func frameSize(sample *gst.Sample) (int, int, error) {
	caps := sample.GetCaps()
	if caps == nil || caps.GetSize() == 0 {
		return 0, 0, ErrNotNegotiated
	}
	structure := caps.GetStructureAt(0)

	width, err := intField(structure, "width")
	if err != nil {
		return 0, 0, err
	}
	height, err := intField(structure, "height")
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func intField(structure *gst.Structure, name string) (int, error) {
	val, err := structure.GetValue(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrNotNegotiated, name, err)
	}
	v, ok := val.(int)
	if !ok || v <= 0 {
		return 0, fmt.Errorf("%w: %s=%v", ErrNotNegotiated, name, val)
	}
	return v, nil
}
