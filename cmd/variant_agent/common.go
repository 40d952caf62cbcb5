package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-variants/internal/app"
	"github.com/jonathan/resume-variants/internal/capture"
	"github.com/jonathan/resume-variants/internal/config"
	"github.com/jonathan/resume-variants/internal/observability"
)

// flagEnv maps persistent flags onto the environment variables they override
var flagEnv = map[string]string{
	"database-url": "DATABASE_URL",
	"library":      "LIBRARY_PATH",
	"provider":     "VARIANT_PROVIDER",
}

// loadConfig reads the config file and environment. Flags set on cmd win.
func loadConfig(cmd *cobra.Command, extra map[string]string) (config.Config, error) {
	overrides := make(map[string]string)
	for flag, env := range flagEnv {
		if f := cmd.Root().PersistentFlags().Lookup(flag); f != nil && f.Changed {
			overrides[env] = f.Value.String()
		}
	}
	for env, v := range extra {
		overrides[env] = v
	}

	getenv := func(key string) string {
		if v, ok := overrides[key]; ok {
			return v
		}
		return os.Getenv(key)
	}

	cfg, err := config.Load(configPath, getenv)
	if err != nil {
		return config.Config{}, err
	}
	if model != "" {
		cfg.Model = model
	}
	if verbose {
		cfg.Verbose = true
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg, nil
}

// newApp assembles the App for one command invocation
func newApp(cmd *cobra.Command, extra map[string]string, opts ...app.Option) (*app.App, error) {
	cfg, err := loadConfig(cmd, extra)
	if err != nil {
		return nil, err
	}
	format, err := observability.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(cmd.ErrOrStderr(), format, cfg.Verbose)

	return app.New(cmd.Context(), cfg, logger, opts...)
}

// readJobDescription takes the posting from exactly one of a file, a URL or inline text
func readJobDescription(ctx context.Context, a *app.App, path, url, text string) (string, error) {
	set := 0
	for _, v := range []string{path, url, text} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return "", fmt.Errorf("exactly one of --job, --url or --text is required")
	}

	var (
		posting *capture.Posting
		err     error
	)
	switch {
	case path != "":
		posting, err = a.Capturer.FromFile(path)
	case url != "":
		posting, err = a.Capture(ctx, url)
	default:
		posting, err = a.Capturer.FromText(text)
	}
	if err != nil {
		return "", err
	}
	return posting.Text, nil
}

// writeJSON writes v indented to path, or to cmd's output when path is empty
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
