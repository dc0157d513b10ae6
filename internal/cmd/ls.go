package cmd

import (
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var lsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List file versions in the configured bucket",
	Long: `List file versions under an optional prefix, one line per version.

The --pattern flag filters names with doublestar glob syntax applied to the
full storage path.

Example:
  b2store ls
  b2store ls images/
  b2store ls --pattern '**/*.png'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

var lsPattern string

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().StringVar(&lsPattern, "pattern", "", "Glob pattern filter (doublestar syntax)")
}

func runLs(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	if lsPattern != "" {
		if !doublestar.ValidatePattern(lsPattern) {
			return fmt.Errorf("invalid pattern %q", lsPattern)
		}
	}

	adapter, err := newNativeAdapter(cmd.Context(), logger)
	if err != nil {
		logger.Error("adapter initialization failed", zap.Error(err))
		return err
	}

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	versions, err := adapter.ListVersions(cmd.Context(), prefix)
	if err != nil {
		return err
	}

	for _, v := range versions {
		if lsPattern != "" {
			match, err := doublestar.Match(lsPattern, v.FileName)
			if err != nil || !match {
				continue
			}
		}
		uploaded := time.UnixMilli(v.UploadTimestamp).UTC().Format(time.RFC3339)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n", uploaded, v.ContentLength, v.FileID, v.FileName)
	}
	return nil
}
