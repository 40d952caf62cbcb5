package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-variants/internal/observability"
)

var (
	analyzeJob  string
	analyzeURL  string
	analyzeText string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract keywords and guess the job context of a posting",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to a plain-text job description")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "URL of a job posting to fetch")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Job description text")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	desc, err := readJobDescription(cmd.Context(), a, analyzeJob, analyzeURL, analyzeText)
	if err != nil {
		return err
	}

	analysis := a.Analyze(desc)
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintAnalysis(analysis.Keywords, analysis.JobContext)
	}
	return writeJSON(cmd, "", analysis)
}
