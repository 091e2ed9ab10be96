package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"frame-bridge/pkg/gstreamer"
	"frame-bridge/pkg/key"
	"frame-bridge/pkg/log"
	"frame-bridge/pkg/mediaFs"
	"frame-bridge/pkg/playback"
	"frame-bridge/pkg/settings"
	"frame-bridge/pkg/video"
)

var errNoSource = errors.New("no source given, nothing played before and nothing cached")

func newStore(fs afero.Fs) *mediaFs.Store {
	return mediaFs.NewStore(fs, viper.GetString(key.MediaCacheDir))
}

// pickSource is the first of: the argument, the last played source, the
// first cached video.
func pickSource(args []string, prefs settings.Settings, cached func() ([]string, error)) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if prefs.LastSource != "" {
		return prefs.LastSource, nil
	}
	if videos, err := cached(); err == nil && len(videos) > 0 {
		return videos[0], nil
	}
	return "", errNoSource
}

// pipelineOptions reads the media.* keys. An external subtitle source is
// resolved through store like the video itself.
func pipelineOptions(ctx context.Context, store *mediaFs.Store) (gstreamer.Options, error) {
	opts := gstreamer.DefaultOptions()

	format, err := playback.ParsePixelFormat(strings.ToUpper(viper.GetString(key.MediaFormat)))
	if err != nil {
		return opts, err
	}
	opts.Format = format
	opts.Audio = viper.GetBool(key.MediaAudio)
	opts.Subtitles = true

	if sub := viper.GetString(key.MediaSubtitles); sub != "" {
		uri, err := store.Resolve(ctx, sub)
		if err != nil {
			return opts, fmt.Errorf("subtitles: %w", err)
		}
		opts.SubtitleURI = uri
	}
	return opts, nil
}

// openSession resolves raw and starts a pipeline for it.
func openSession(ctx context.Context, store *mediaFs.Store, raw string) (*playback.Session, error) {
	uri, err := store.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}

	opts, err := pipelineOptions(ctx, store)
	if err != nil {
		return nil, err
	}

	pipeline, err := gstreamer.Open(ctx, uri, opts)
	if err != nil {
		reportMissingPlugins(err)
		return nil, err
	}
	return playback.NewSession(pipeline.State(), pipeline), nil
}

// reportMissingPlugins logs install advice for every decoder a failed
// preroll asked for.
func reportMissingPlugins(err error) {
	var perr *gstreamer.PrerollError
	if !errors.As(err, &perr) {
		return
	}
	logger := log.For("cmd")
	for _, n := range perr.MissingPlugins() {
		logger.Warnf("Missing plugin: %s", video.HintForNotice(n))
	}
}
