package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-variants/internal/observability"
	"github.com/jonathan/resume-variants/internal/schemas"
	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

// allSuggestions selects every suggestion in --accept or --reject
const allSuggestions = "all"

var (
	materializeDraft          string
	materializeAccept         []string
	materializeReject         []string
	materializeIncludePending bool
	materializeOutput         string
)

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Save a reviewed draft as a new variant resume",
	Long: "Reads a VariantDraft produced by generate, applies --accept and --reject decisions on top of the " +
		"statuses in the file, and saves the resulting variant to the resume library.",
	RunE: runMaterialize,
}

func init() {
	materializeCmd.Flags().StringVarP(&materializeDraft, "draft", "d", "", "Path to VariantDraft JSON file (required)")
	materializeCmd.Flags().StringSliceVar(&materializeAccept, "accept", nil, "Suggestion ids to accept, or \"all\"")
	materializeCmd.Flags().StringSliceVar(&materializeReject, "reject", nil, "Suggestion ids to reject, or \"all\"")
	materializeCmd.Flags().BoolVar(&materializeIncludePending, "include-pending", false, "Also apply suggestions still pending")
	materializeCmd.Flags().StringVarP(&materializeOutput, "out", "o", "", "Write the variant JSON to this file instead of stdout")

	if err := materializeCmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}
	rootCmd.AddCommand(materializeCmd)
}

func runMaterialize(cmd *cobra.Command, _ []string) error {
	draft, err := loadDraft(materializeDraft)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Drafts.PutDraft(draft)
	for _, decision := range []struct {
		ids    []string
		status types.SuggestionStatus
	}{
		{materializeAccept, types.StatusAccepted},
		{materializeReject, types.StatusRejected},
	} {
		if err := applyDecision(a.Drafts, draft.ID, decision.ids, decision.status); err != nil {
			return err
		}
	}

	rec, err := a.Materialize(cmd.Context(), draft.ID, variants.MaterializeOptions{IncludePending: materializeIncludePending})
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMetrics(rec)
	}
	return writeJSON(cmd, materializeOutput, rec)
}

// loadDraft reads and schema-checks a draft file
func loadDraft(path string) (types.VariantDraft, error) {
	if err := schemas.ValidateFile(schemas.VariantDraft, path); err != nil {
		return types.VariantDraft{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.VariantDraft{}, fmt.Errorf("failed to read draft file %s: %w", path, err)
	}
	var draft types.VariantDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return types.VariantDraft{}, fmt.Errorf("failed to unmarshal draft JSON: %w", err)
	}
	if err := draft.CheckReferences(); err != nil {
		return types.VariantDraft{}, err
	}
	return draft, nil
}

type suggestionReviewer interface {
	SetSuggestionStatus(draftID, suggestionID string, status types.SuggestionStatus) (types.VariantDraft, error)
	SetAllSuggestionStatus(draftID string, status types.SuggestionStatus) (types.VariantDraft, error)
}

func applyDecision(r suggestionReviewer, draftID string, ids []string, status types.SuggestionStatus) error {
	for _, id := range ids {
		var err error
		if id == allSuggestions {
			_, err = r.SetAllSuggestionStatus(draftID, status)
		} else {
			_, err = r.SetSuggestionStatus(draftID, id, status)
		}
		if err != nil {
			return fmt.Errorf("failed to mark %s as %s: %w", id, status, err)
		}
	}
	return nil
}
