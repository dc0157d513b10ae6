package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkhost/b2store/pkg/storage"
)

var putCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Upload a local file to the configured bucket",
	Long: `Upload a local file and print its public download URL.

By default the file is stored under the date-based target directory with a
collision-free name. Use --path to store it under an exact storage path
instead.

Example:
  b2store put cover.png
  b2store put cover.png --dir images
  b2store put cover.png --path images/cover.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPut,
}

var (
	putDir  string
	putPath string
)

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().StringVar(&putDir, "dir", "", "Target directory (default: date-based)")
	putCmd.Flags().StringVar(&putPath, "path", "", "Exact storage path (overrides --dir and unique naming)")
}

func runPut(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	adapter, err := newAdapter(cmd.Context(), logger)
	if err != nil {
		logger.Error("adapter initialization failed", zap.Error(err))
		return err
	}

	local := args[0]
	var url string
	if putPath != "" {
		data, err := readLocalFile(local)
		if err != nil {
			return err
		}
		url, err = adapter.SaveRaw(cmd.Context(), data, putPath)
		if err != nil {
			return err
		}
	} else {
		image := storage.Image{Name: filepath.Base(local), Path: local}
		url, err = adapter.Save(cmd.Context(), image, putDir)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}

func readLocalFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
