package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rmCmd = &cobra.Command{
	Use:   "rm <file>",
	Short: "Delete all versions of a file",
	Long: `Delete every stored version of a file.

Example:
  b2store rm cover.png --dir images`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

var rmDir string

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().StringVar(&rmDir, "dir", "", "Target directory of the file")
}

func runRm(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	adapter, err := newAdapter(cmd.Context(), logger)
	if err != nil {
		logger.Error("adapter initialization failed", zap.Error(err))
		return err
	}

	deleted, err := adapter.Delete(cmd.Context(), args[0], rmDir)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(cmd.OutOrStdout(), "no versions found")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "deleted")
	return nil
}
