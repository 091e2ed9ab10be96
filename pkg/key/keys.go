// Package key holds the configuration keys shared by viper, flags and env bindings.
package key

// Player widget
const (
	PlayerFit         = "player.fit"
	PlayerWidth       = "player.width"
	PlayerHeight      = "player.height"
	PlayerMouseHidden = "player.mouse_hidden"
	PlayerLoop        = "player.loop"
	PlayerIdlePoll    = "player.idle_poll"
)

// Render path: "reference" uploads planes straight to the GPU, "converted" goes through RGBA.
const (
	RenderPath = "render.path"
)

// Host window
const (
	WindowTitle      = "window.title"
	WindowWidth      = "window.width"
	WindowHeight     = "window.height"
	WindowFullscreen = "window.fullscreen"
)

// Logging
const (
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Media sources
const (
	MediaCacheDir  = "media.cache_dir"
	MediaSubtitles = "media.subtitles"
	MediaAudio     = "media.audio"
	MediaFormat    = "media.format"
)

// Command line
const (
	CliColored = "cli.colored"
)

// Persisted preferences
const (
	SettingsPath = "settings.path"
)
