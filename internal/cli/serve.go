package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/mgpai22/tilawa/internal/api"
	"github.com/mgpai22/tilawa/internal/config"
	"github.com/mgpai22/tilawa/internal/document"
	"github.com/mgpai22/tilawa/internal/translate"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP backend",
	Long: `Serve the document API used by the review dashboard: upload subtitle
files, select and merge segments, validate, export and translate.

Documents live in memory for the lifetime of the process. Translation is
enabled when an API key for the configured provider is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		IntP("port", "p", 0, "Port to listen on (default TILAWA_PORT or 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Port
	}

	translators := translatorFactory(cfg)
	if translators == nil {
		logger.Warnw("Translation disabled: no API key for provider",
			"provider", cfg.Provider,
		)
	}

	srv := api.NewServer(document.NewManager(), logger, api.Options{
		Port:           port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Concurrency:    cfg.Concurrency,
		Translators:    translators,
	})

	defer logger.Sync()
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// translatorFactory returns nil when the configured provider has no key.
func translatorFactory(c config.Config) api.TranslatorFactory {
	apiKey := c.APIKey(c.Provider)
	if apiKey == "" {
		return nil
	}
	provider := translate.Provider(c.Provider)

	return func(ctx context.Context, opts translate.Options) (translate.Translator, error) {
		if opts.Model == "" {
			opts.Model = c.Model
		}
		if opts.BatchSize == 0 {
			opts.BatchSize = c.BatchSize
		}
		return translate.Factory(ctx, provider, apiKey, opts)
	}
}
