package cmd

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frame-bridge/pkg/canvas"
	"frame-bridge/pkg/key"
	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/log"
	"frame-bridge/pkg/playback"
	"frame-bridge/ui"
	"frame-bridge/widgets/videoplayer"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringP("output", "o", "snapshot.png", "PNG file to write")
	snapshotCmd.Flags().Int("width", 1280, "Image width in pixels")
	snapshotCmd.Flags().Int("height", 720, "Image height in pixels")
	snapshotCmd.Flags().IntP("frames", "n", 1, "Number of frames to let through before capturing")
	snapshotCmd.Flags().Duration("timeout", 10*time.Second, "Give up when no frame arrives in time")
	snapshotCmd.Flags().String("label", "", "Text drawn in the top-left corner")

	snapshotCmd.Flags().StringP("fit", "f", "", "Content fit, defaults to player.fit")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot source",
	Short: "Decode a video without a window and save one frame as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := snapshotOptions{
			output:  lo.Must(cmd.Flags().GetString("output")),
			width:   lo.Must(cmd.Flags().GetInt("width")),
			height:  lo.Must(cmd.Flags().GetInt("height")),
			frames:  lo.Must(cmd.Flags().GetInt("frames")),
			timeout: lo.Must(cmd.Flags().GetDuration("timeout")),
			label:   lo.Must(cmd.Flags().GetString("label")),
		}

		fs := afero.NewOsFs()
		session, err := openSession(ctx, newStore(fs), args[0])
		if err != nil {
			return err
		}
		defer session.Close()

		fit, err := layout.ParseContentFit(lo.CoalesceOrEmpty(lo.Must(cmd.Flags().GetString("fit")), viper.GetString(key.PlayerFit)))
		if err != nil {
			return err
		}

		c := canvas.New(opts.width, opts.height, color.Black)
		if path, err := ui.FindFont(ui.FontPaths); err == nil {
			if err := c.LoadFont(path, ui.SubtitleSize); err != nil {
				log.For("cmd").Debugf("Snapshot: %v", err)
			}
		}

		if err := capture(ctx, session, c, fit, opts); err != nil {
			return err
		}

		f, err := fs.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := c.EncodePNG(f); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}

		log.For("cmd").Infof("Snapshot: wrote %s", opts.output)
		return nil
	},
}

type snapshotOptions struct {
	output        string
	width, height int
	frames        int
	timeout       time.Duration
	label         string
}

// capture ticks and paints a player until enough frames went by, then
// repaints the latest one with its subtitle into c.
func capture(ctx context.Context, session *playback.Session, c *canvas.Canvas, fit layout.ContentFit, opts snapshotOptions) error {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var (
		seen     int
		subtitle mo.Option[string]
		failure  error
	)
	vp := videoplayer.New(session).
		Width(layout.Fill()).
		Height(layout.Fill()).
		ContentFit(fit).
		OnNewFrame(func() { seen++ }).
		OnSubtitleText(func(text mo.Option[string]) { subtitle = text }).
		OnError(func(err error) { failure = err })

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for seen < max(opts.frames, 1) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("only %d of %d frames after %s: %w", seen, opts.frames, opts.timeout, ctx.Err())
		case now := <-ticker.C:
			vp.Tick(now)
			vp.DrawConverted(c, c.Bounds(), now)
		}
		if failure != nil {
			return failure
		}
		if session.IsEOS() {
			break
		}
	}

	c.Clear()
	vp.DrawConverted(c, c.Bounds(), time.Now())
	if text, ok := subtitle.Get(); ok {
		c.DrawSubtitle(text)
	}
	c.DrawStatus(opts.label)
	return nil
}
