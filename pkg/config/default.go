package config

import (
	"time"

	"frame-bridge/pkg/key"
)

// Field is a single configuration entry with its factory default.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Default lists every configuration key with its default value.
var Default = map[string]Field{}

func init() {
	for _, f := range []Field{
		{key.PlayerFit, "contain", "How the video is fitted into its bounds (contain, cover, fill, none, scale-down)"},
		{key.PlayerWidth, "fill", "Widget width policy (fill, shrink or a pixel count)"},
		{key.PlayerHeight, "fill", "Widget height policy (fill, shrink or a pixel count)"},
		{key.PlayerMouseHidden, false, "Hide the cursor while it hovers the video"},
		{key.PlayerLoop, false, "Restart playback from the beginning at end of stream"},
		{key.PlayerIdlePoll, 32 * time.Millisecond, "Repaint interval while paused or stopped"},
		{key.RenderPath, "reference", "Frame handoff path (reference or converted)"},
		{key.WindowTitle, "Frame Bridge", "Host window title"},
		{key.WindowWidth, 1280, "Host window width in pixels"},
		{key.WindowHeight, 720, "Host window height in pixels"},
		{key.WindowFullscreen, false, "Open the host window fullscreen"},
		{key.LogsLevel, "info", "Log level (trace, debug, info, warn, error)"},
		{key.LogsJson, false, "Emit logs as JSON"},
		{key.MediaCacheDir, "assets/videos", "Directory remote sources are downloaded into"},
		{key.MediaSubtitles, "", "Optional external subtitle file or URI"},
		{key.MediaAudio, true, "Play the audio track"},
		{key.MediaFormat, "i420", "Pixel format frames are decoded into (i420, nv12, rgba)"},
		{key.SettingsPath, "settings.toml", "File the user preferences are persisted to"},
		{key.CliColored, true, "Colour the command line help"},
	} {
		Default[f.Key] = f
	}
}
