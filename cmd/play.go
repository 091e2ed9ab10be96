package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frame-bridge/pkg/key"
	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/log"
	"frame-bridge/pkg/sdlhost"
	"frame-bridge/pkg/settings"
	"frame-bridge/screens/player"
)

const frameInterval = time.Second / 60

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("fit", "f", "", "Content fit (contain, cover, fill, none, scale-down)")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("fit", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(layout.ContentFits, func(f layout.ContentFit, _ int) string { return f.String() }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerFit, playCmd.Flags().Lookup("fit")))

	playCmd.Flags().BoolP("loop", "l", false, "Restart from the beginning at end of stream")
	lo.Must0(viper.BindPFlag(key.PlayerLoop, playCmd.Flags().Lookup("loop")))

	playCmd.Flags().String("render-path", "", "Frame handoff path (reference or converted)")
	lo.Must0(viper.BindPFlag(key.RenderPath, playCmd.Flags().Lookup("render-path")))

	playCmd.Flags().Bool("fullscreen", false, "Open the window fullscreen")
	lo.Must0(viper.BindPFlag(key.WindowFullscreen, playCmd.Flags().Lookup("fullscreen")))

	playCmd.Flags().StringP("subtitles", "s", "", "External subtitle file or URI")
	lo.Must0(viper.BindPFlag(key.MediaSubtitles, playCmd.Flags().Lookup("subtitles")))

	playCmd.Flags().Bool("audio", true, "Play the audio track")
	lo.Must0(viper.BindPFlag(key.MediaAudio, playCmd.Flags().Lookup("audio")))
}

var playCmd = &cobra.Command{
	Use:   "play [source]",
	Short: "Play a video in a window",
	Long: `Play a video in a window. Without a source the last played one is reopened,
or the first video in the cache directory.

Keys: space pause, l loop, r restart, f fit, h cursor, esc quit. Clicking toggles pause.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.For("cmd")
	fs := afero.NewOsFs()
	store := newStore(fs)

	prefsPath := viper.GetString(key.SettingsPath)
	prefs := loadPrefs(fs, prefsPath)
	applyFlagOverrides(cmd, &prefs)

	raw, err := pickSource(args, prefs, store.Cached)
	if err != nil {
		return err
	}

	session, err := openSession(ctx, store, raw)
	if err != nil {
		return err
	}
	defer session.Close()

	prefs.LastSource = raw
	if err := settings.Save(fs, prefsPath, prefs); err != nil {
		logger.Warnf("Play: failed to save settings: %v", err)
	}

	if err := sdlhost.Init(); err != nil {
		return err
	}
	defer sdlhost.Quit()

	window, err := sdlhost.CreateWindow(sdlhost.WindowOptions{
		Title:      viper.GetString(key.WindowTitle),
		Width:      viper.GetInt32(key.WindowWidth),
		Height:     viper.GetInt32(key.WindowHeight),
		Fullscreen: viper.GetBool(key.WindowFullscreen),
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := sdlhost.CreateRenderer(window)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	screen := player.New(renderer, session, player.Options{
		Width:        lengthOrFill(key.PlayerWidth),
		Height:       lengthOrFill(key.PlayerHeight),
		IdlePoll:     viper.GetDuration(key.PlayerIdlePoll),
		Path:         player.ParseRenderPath(viper.GetString(key.RenderPath)),
		Settings:     prefs,
		SettingsFs:   fs,
		SettingsPath: prefsPath,
	})
	defer screen.Close()

	logger.Infof("Play: %s", raw)
	return sdlhost.Run(ctx, screen, frameInterval)
}

// loadPrefs reads the saved preferences, seeding them from the player.*
// config keys on first run.
func loadPrefs(fs afero.Fs, path string) settings.Settings {
	if ok, _ := afero.Exists(fs, path); ok {
		return settings.Load(fs, path)
	}
	prefs := settings.Defaults()
	prefs.Loop = viper.GetBool(key.PlayerLoop)
	prefs.MouseHidden = viper.GetBool(key.PlayerMouseHidden)
	if fit, err := layout.ParseContentFit(viper.GetString(key.PlayerFit)); err == nil {
		prefs.Fit = fit.String()
	}
	return prefs
}

// applyFlagOverrides lets explicit flags win over the saved preferences.
func applyFlagOverrides(cmd *cobra.Command, prefs *settings.Settings) {
	flags := cmd.Flags()
	if flags.Changed("loop") {
		prefs.Loop = lo.Must(flags.GetBool("loop"))
	}
	if flags.Changed("fit") {
		if fit, err := layout.ParseContentFit(lo.Must(flags.GetString("fit"))); err == nil {
			prefs.Fit = fit.String()
		}
	}
}

func lengthOrFill(name string) layout.Length {
	l, err := layout.ParseLength(viper.GetString(name))
	if err != nil {
		log.For("cmd").Warnf("Play: %v, using fill", err)
		return layout.Fill()
	}
	return l
}
