// Package gstreamer runs the decoding pipeline that feeds playback.State.
package gstreamer

import (
	"fmt"
	"strings"

	"frame-bridge/pkg/playback"
)

const (
	videoSinkName = "video-sink"
	textSinkName  = "text-sink"
)

// Options controls how a pipeline is built.
type Options struct {
	// Format is the raw layout the video appsink negotiates.
	Format playback.PixelFormat
	// Audio plays the audio track through the default sink when set.
	Audio bool
	// SubtitleURI attaches an external subtitle file.
	SubtitleURI string
	// Subtitles routes subtitle text into the shared state.
	Subtitles bool
}

// DefaultOptions decodes to I420 with audio and no subtitles.
func DefaultOptions() Options {
	return Options{Format: playback.FormatI420, Audio: true}
}

// videoCaps is the caps string the video appsink accepts.
func videoCaps(format playback.PixelFormat) string {
	return fmt.Sprintf("video/x-raw,format=%s,pixel-aspect-ratio=1/1", format)
}

// buildLaunch returns the gst-launch description for uri.
func buildLaunch(uri string, opts Options) string {
	parts := []string{
		"playbin",
		"uri=" + quote(uri),
		"video-sink=" + quote(fmt.Sprintf(
			"videoconvert ! videoscale ! appsink name=%s sync=true max-buffers=2 drop=true caps=%s",
			videoSinkName, videoCaps(opts.Format),
		)),
	}

	if !opts.Audio {
		parts = append(parts, "audio-sink=fakesink")
	}

	if opts.Subtitles || opts.SubtitleURI != "" {
		parts = append(parts, "text-sink="+quote(fmt.Sprintf(
			"appsink name=%s sync=true caps=text/x-raw,format=utf8", textSinkName,
		)))
		if opts.SubtitleURI != "" {
			parts = append(parts, "suburi="+quote(opts.SubtitleURI))
		}
	}

	return strings.Join(parts, " ")
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
