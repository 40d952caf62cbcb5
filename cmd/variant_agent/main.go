// Package main provides the variant_agent CLI: resume library management,
// draft generation and materialization, the REST API server and the MCP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "variant_agent",
	Short:         "Resume variant generator",
	Long:          "variant_agent keeps a library of master resumes and generates reviewable, job-targeted variants of them.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath  string
	databaseURL string
	libraryPath string
	provider    string
	model       string
	verbose     bool
	logFormat   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a JSON or TOML config file")
	flags.StringVar(&databaseURL, "database-url", "", "PostgreSQL URL for the resume library (env DATABASE_URL)")
	flags.StringVar(&libraryPath, "library", "", "SQLite file for the resume library (env LIBRARY_PATH)")
	flags.StringVar(&provider, "provider", "", "Suggestion provider: heuristic, gemini, openai or anthropic (env VARIANT_PROVIDER)")
	flags.StringVar(&model, "model", "", "Model name overriding the provider default")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print progress and debug logs")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
