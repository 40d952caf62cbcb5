package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-variants/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	Long:  "Expose keyword extraction, context guessing, draft generation and the resume library as MCP tools on stdin/stdout.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		return mcptools.Serve(a, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
