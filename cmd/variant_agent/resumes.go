package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/observability"
	"github.com/jonathan/resume-variants/internal/schemas"
	"github.com/jonathan/resume-variants/internal/types"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "Manage the resume library",
}

var (
	listKind  string
	listBase  string
	listLimit int
	listJSON  bool
)

var resumesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a master resume from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesImport,
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resumes, newest first",
	RunE:  runResumesList,
}

var resumesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one resume as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesShow,
}

func init() {
	resumesListCmd.Flags().StringVar(&listKind, "kind", "", "Only master or variant resumes")
	resumesListCmd.Flags().StringVar(&listBase, "base", "", "Only variants of this resume")
	resumesListCmd.Flags().IntVar(&listLimit, "limit", 0, "Max resumes to list")
	resumesListCmd.Flags().BoolVar(&listJSON, "json", false, "Print JSON instead of a table")

	resumesCmd.AddCommand(resumesImportCmd, resumesListCmd, resumesShowCmd)
	rootCmd.AddCommand(resumesCmd)
}

func runResumesImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := schemas.ValidateFile(schemas.Resume, path); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume file %s: %w", path, err)
	}
	var rec types.ResumeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	if rec.Kind != types.ResumeKindMaster {
		return fmt.Errorf("only master resumes can be imported; variants are created with materialize")
	}

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	saved, err := a.CreateMaster(cmd.Context(), types.CreateResumeRequest{
		ID:       rec.ID,
		Name:     rec.Name,
		Sections: rec.Sections,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d sections)\n", saved.ID, len(saved.Sections))
	return nil
}

func runResumesList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	kind := types.ResumeKind(listKind)
	if kind != "" && kind != types.ResumeKindMaster && kind != types.ResumeKindVariant {
		return fmt.Errorf("--kind must be master or variant")
	}
	records, err := a.Library.List(cmd.Context(), library.ListFilter{Kind: kind, BaseResumeID: listBase, Limit: listLimit})
	if err != nil {
		return err
	}

	if listJSON {
		if records == nil {
			records = []types.ResumeRecord{}
		}
		return writeJSON(cmd, "", records)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintResumes(records)
	return nil
}

func runResumesShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.Library.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd, "", rec)
}
