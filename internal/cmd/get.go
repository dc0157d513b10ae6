package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Download a file to stdout or a local path",
	Long: `Download a file by its storage path or its public download URL.

Example:
  b2store get images/cover.png
  b2store get https://cdn.example.com/images/cover.png -o cover.png`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getOutput string

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "Write to file instead of stdout")
}

func runGet(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	adapter, err := newAdapter(cmd.Context(), logger)
	if err != nil {
		logger.Error("adapter initialization failed", zap.Error(err))
		return err
	}

	data, err := adapter.Read(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if getOutput != "" {
		return os.WriteFile(getOutput, data, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
