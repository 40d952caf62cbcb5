package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-variants/internal/observability"
	"github.com/jonathan/resume-variants/internal/schemas"
	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

var (
	generateJob      string
	generateURL      string
	generateText     string
	generateBase     string
	generateSections []string
	generateName     string
	generateOutput   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a variant draft of a stored resume for a job posting",
	Long:  "Generates a reviewable VariantDraft. Review the suggestions in the JSON output, then pass it to materialize.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateJob, "job", "j", "", "Path to a plain-text job description")
	generateCmd.Flags().StringVar(&generateURL, "url", "", "URL of a job posting to fetch")
	generateCmd.Flags().StringVar(&generateText, "text", "", "Job description text")
	generateCmd.Flags().StringVarP(&generateBase, "base", "b", "", "Id of the resume to adapt (required)")
	generateCmd.Flags().StringSliceVarP(&generateSections, "sections", "s", nil, "Section kinds to adapt, comma separated")
	generateCmd.Flags().StringVarP(&generateName, "name", "n", "", "Name for the draft")
	generateCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Write the draft JSON to this file instead of stdout")

	if err := generateCmd.MarkFlagRequired("base"); err != nil {
		panic(fmt.Sprintf("failed to mark base flag as required: %v", err))
	}
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	desc, err := readJobDescription(cmd.Context(), a, generateJob, generateURL, generateText)
	if err != nil {
		return err
	}

	input := types.VariantGenerationInput{
		JobDescription:    desc,
		BaseResumeID:      generateBase,
		PresetVariantName: generateName,
	}
	for _, k := range generateSections {
		input.SectionsToAdapt = append(input.SectionsToAdapt, types.SectionKind(k))
	}

	var onProgress variants.ProgressFunc
	if verbose {
		onProgress = func(ev variants.ProgressEvent) {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ✓ %s\n", ev.Stage)
		}
	}

	draft, err := a.GenerateDraft(cmd.Context(), input, onProgress)
	if err != nil {
		return err
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := schemas.ValidateBytes(schemas.VariantDraft, data); err != nil {
		return fmt.Errorf("generated draft failed schema validation: %w", err)
	}

	if verbose {
		p := observability.NewPrinter(cmd.ErrOrStderr())
		p.PrintDraft(&draft)
		p.PrintSuggestions(draft.Suggestions)
	}
	return writeJSON(cmd, generateOutput, draft)
}
