package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"frame-bridge/pkg/mediaFs"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [s3://bucket/prefix]",
	Short: "Download videos from S3 into the cache, or list the cache",
	Long: `Download every video under an S3 prefix into the cache directory. Files
already cached are kept. Without an argument the cached videos are listed.

Credentials come from AWS_DEFAULT_REGION, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore(afero.NewOsFs())

		var (
			paths []string
			err   error
		)
		if len(args) == 0 {
			paths, err = store.Cached()
		} else {
			paths, err = fetch(cmd, store, args[0])
		}
		if err != nil {
			return err
		}

		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func fetch(cmd *cobra.Command, store *mediaFs.Store, raw string) ([]string, error) {
	src, err := mediaFs.ParseSource(raw)
	if err != nil {
		return nil, err
	}
	if src.Kind != mediaFs.KindS3 {
		return nil, fmt.Errorf("fetch needs an s3:// source, got %q", raw)
	}
	return store.Sync(cmd.Context(), src.Bucket, src.Key)
}
