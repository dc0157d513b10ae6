package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials, bucket resolution, and URL derivation",
	Long: `Authorize against the provider, resolve the configured bucket, and
report the derived session and URL state as YAML.

Example:
  b2store doctor
  b2store doctor -c b2store.yaml`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorReport is the YAML shape printed by the doctor command.
type doctorReport struct {
	AccountID        string `yaml:"account_id"`
	APIURL           string `yaml:"api_url"`
	DownloadURL      string `yaml:"download_url"`
	BucketID         string `yaml:"bucket_id"`
	BucketName       string `yaml:"bucket_name"`
	BaseURL          string `yaml:"base_url"`
	KeyRestricted    bool   `yaml:"key_restricted"`
	RestrictedBucket string `yaml:"restricted_bucket,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	adapter, err := newNativeAdapter(cmd.Context(), logger)
	if err != nil {
		logger.Error("adapter initialization failed", zap.Error(err))
		return err
	}

	state := adapter.Session().State()
	report := doctorReport{
		AccountID:   state.AccountID,
		APIURL:      state.APIURL,
		DownloadURL: state.DownloadURL,
		BucketID:    adapter.Bucket().ID,
		BucketName:  adapter.Bucket().Name,
		BaseURL:     adapter.BaseURL(),
	}
	if state.Restriction != nil {
		report.KeyRestricted = true
		report.RestrictedBucket = state.Restriction.BucketName
	}

	return yaml.NewEncoder(os.Stdout).Encode(report)
}
