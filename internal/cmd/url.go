package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var urlCmd = &cobra.Command{
	Use:   "url [subpath]",
	Short: "Print the public download URL",
	Long: `Print the adapter's base download URL, or the URL for a sub-path.

Example:
  b2store url
  b2store url images/cover.png`,
	Args: cobra.MaximumNArgs(1),
	RunE: runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	adapter, err := newAdapter(cmd.Context(), logger)
	if err != nil {
		logger.Error("adapter initialization failed", zap.Error(err))
		return err
	}

	sub := ""
	if len(args) == 1 {
		sub = args[0]
	}
	fmt.Fprintln(cmd.OutOrStdout(), adapter.DownloadURL(sub))
	return nil
}
