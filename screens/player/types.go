package player

import (
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/input"
	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/performance"
	"frame-bridge/pkg/playback"
	"frame-bridge/pkg/sdlhost"
	"frame-bridge/pkg/settings"
	"frame-bridge/pkg/video"
	"frame-bridge/ui"
	"frame-bridge/widgets/videoplayer"
)

// RenderPath selects how frames reach the screen.
type RenderPath string

const (
	// PathReference uploads decoded planes straight into a YUV texture.
	PathReference RenderPath = "reference"
	// PathConverted converts each frame to RGBA first.
	PathConverted RenderPath = "converted"
)

// ParseRenderPath falls back to the reference path for unknown values.
func ParseRenderPath(s string) RenderPath {
	if RenderPath(s) == PathConverted {
		return PathConverted
	}
	return PathReference
}

// Options configures the player screen.
type Options struct {
	Width, Height layout.Length
	IdlePoll      time.Duration
	Path          RenderPath

	// Settings seeds loop, fit and cursor visibility and is written back
	// to SettingsFs at SettingsPath when they change.
	Settings     settings.Settings
	SettingsFs   afero.Fs
	SettingsPath string
}

// How long a status message stays on screen.
const statusDuration = 2 * time.Second

// A performance report is logged once every reportEvery frames.
const reportEvery = 600

// Screen hosts one video player in an SDL window.
type Screen struct {
	session *playback.Session
	player  *videoplayer.VideoPlayer
	path    RenderPath

	renderer *sdl.Renderer
	frames   *sdlhost.FrameTexture
	images   *sdlhost.ImageTexture
	fonts    *ui.Fonts

	monitor *performance.Monitor
	skipper *video.FrameSkipper

	keymap     *input.Keymap
	mouse      *input.Clicks
	keyState   []uint8
	mouseState uint32

	settings     settings.Settings
	settingsFs   afero.Fs
	settingsPath string
	fit          layout.ContentFit
	mouseHidden  bool

	subtitle    mo.Option[string]
	status      string
	statusUntil time.Time
	framesSeen  int
	quit        bool

	log *logrus.Entry
}
