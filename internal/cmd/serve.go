package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local dev server that redirects content requests",
	Long: `Run a small development server that mirrors how the host platform
mounts the adapter: content requests under /file/ are redirected to the
public download URL. Bodies are never proxied.

Example:
  b2store serve --addr 127.0.0.1:8080`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := cliLogger()
	defer func() { _ = logger.Sync() }()

	adapter, err := newAdapter(cmd.Context(), logger)
	if err != nil {
		logger.Error("adapter initialization failed", zap.Error(err))
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(adapter.Serve())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	r.Get("/file/*", func(w http.ResponseWriter, req *http.Request) {
		sub := chi.URLParam(req, "*")
		http.Redirect(w, req, adapter.DownloadURL(sub), http.StatusTemporaryRedirect)
	})

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("dev server listening", zap.String("addr", serveAddr))
	return srv.ListenAndServe()
}
