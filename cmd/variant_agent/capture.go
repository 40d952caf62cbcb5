package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var captureOutput string

var captureCmd = &cobra.Command{
	Use:   "capture <url>",
	Short: "Fetch a job posting and print its cleaned text",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&captureOutput, "out", "o", "", "Write the text to this file instead of stdout")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	posting, err := a.Capture(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if captureOutput == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), posting.Text)
		return err
	}
	if err := os.WriteFile(captureOutput, []byte(posting.Text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", captureOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Captured %s posting (%d chars) to %s\n", posting.Platform, len(posting.Text), captureOutput)
	return nil
}
