// Package cmd implements the frame-bridge command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frame-bridge/pkg/key"
	"frame-bridge/pkg/log"
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	lo.Must0(viper.BindPFlag(key.LogsLevel, rootCmd.PersistentFlags().Lookup("log-level")))

	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	lo.Must0(viper.BindPFlag(key.LogsJson, rootCmd.PersistentFlags().Lookup("log-json")))

	rootCmd.PersistentFlags().String("cache-dir", "", "Directory remote sources are downloaded into")
	lo.Must0(viper.BindPFlag(key.MediaCacheDir, rootCmd.PersistentFlags().Lookup("cache-dir")))
}

var rootCmd = &cobra.Command{
	Use:   "frame-bridge",
	Short: "Play GStreamer video inside an SDL window",
	Long: `frame-bridge decodes a video with GStreamer on its own threads and paints
the latest frame in an SDL window, paced by the UI loop.

Sources may be local paths, file:// http(s):// or rtsp:// URIs, or s3://bucket/key.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Setup(viper.GetString(key.LogsLevel), viper.GetBool(key.LogsJson))
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
