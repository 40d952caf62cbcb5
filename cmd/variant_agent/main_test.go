package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-variants/internal/types"
)

const posting = "Senior Platform Engineer\nCompany: Acme Corp\nLocation: Remote\n" +
	"Kubernetes and Terraform. Kubernetes operators, observability and Terraform modules."

const masterJSON = `{
  "id": "master-1",
  "kind": "master",
  "name": "Jane Doe",
  "sections": [
    {"id": "summary", "kind": "summary", "label": "Summary", "content": ["Backend engineer."]},
    {"id": "skills", "kind": "skills", "label": "Skills", "content": ["Go, Kubernetes"]}
  ]
}`

// resetFlags restores every flag to its default so commands can run repeatedly in one process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "LIBRARY_PATH", "VARIANT_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestVariantWorkflow(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	lib := filepath.Join(dir, "library.db")
	masterPath := filepath.Join(dir, "master.json")
	draftPath := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(masterPath, []byte(masterJSON), 0644))

	out, err := execute(t, "resumes", "import", masterPath, "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported master-1 (2 sections)")

	_, err = execute(t, "resumes", "import", masterPath, "--library", lib)
	assert.Error(t, err, "ids are unique")

	_, err = execute(t, "generate", "--library", lib, "--base", "master-1", "--text", posting,
		"--sections", "summary,skills", "--name", "Acme platform", "--out", draftPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(draftPath)
	require.NoError(t, err)
	var draft types.VariantDraft
	require.NoError(t, json.Unmarshal(raw, &draft))
	assert.Equal(t, "Acme platform", draft.Name)
	require.NotEmpty(t, draft.Suggestions)

	out, err = execute(t, "materialize", "--library", lib, "--draft", draftPath, "--accept", "all")
	require.NoError(t, err)
	var rec types.ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, types.ResumeKindVariant, rec.Kind)
	assert.Equal(t, "master-1", rec.BaseResumeID)
	assert.Equal(t, len(draft.Suggestions), rec.Metrics.SuggestionsApplied)

	out, err = execute(t, "resumes", "list", "--library", lib, "--kind", "variant", "--json")
	require.NoError(t, err)
	var variants []types.ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(out), &variants))
	require.Len(t, variants, 1)
	assert.Equal(t, rec.ID, variants[0].ID)

	out, err = execute(t, "resumes", "show", rec.ID, "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "variant"`)

	out, err = execute(t, "resumes", "list", "--library", lib)
	require.NoError(t, err)
	assert.Contains(t, out, "RESUMES (2)")
}

func TestGenerate_RequiresBase(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "generate", "--text", posting)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base")
}

func TestGenerate_UnknownBase(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "generate", "--base", "missing", "--text", posting)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base resume not found")
}

func TestAnalyzeCommand(t *testing.T) {
	isolateEnv(t)
	jobPath := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(jobPath, []byte(posting), 0644))

	out, err := execute(t, "analyze", "--job", jobPath)
	require.NoError(t, err)

	var got struct {
		Keywords   []string         `json:"keywords"`
		JobContext types.JobContext `json:"job_context"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got.Keywords, "Kubernetes")
	assert.Equal(t, "Acme Corp", got.JobContext.Company)
}

func TestAnalyzeCommand_NeedsOneSource(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")

	_, err = execute(t, "analyze", "--text", posting, "--url", "https://example.com")
	require.Error(t, err)
}

func TestImport_RejectsInvalidResume(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "x", "kind": "draft", "name": "x", "sections": []}`), 0644))

	_, err := execute(t, "resumes", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	isolateEnv(t)
	t.Setenv("LIBRARY_PATH", "/from/env.db")

	resetFlags(rootCmd)
	require.NoError(t, rootCmd.PersistentFlags().Set("library", "/from/flag.db"))
	cfg, err := loadConfig(rootCmd, map[string]string{"VARIANT_ADDR": ":9999"})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.db", cfg.LibraryPath)
	assert.Equal(t, ":9999", cfg.Addr)

	resetFlags(rootCmd)
	cfg, err = loadConfig(rootCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.LibraryPath)
}

type fakeReviewer struct {
	calls []string
	fail  bool
}

func (f *fakeReviewer) SetSuggestionStatus(_, suggestionID string, status types.SuggestionStatus) (types.VariantDraft, error) {
	if f.fail {
		return types.VariantDraft{}, errors.New("suggestion not found")
	}
	f.calls = append(f.calls, suggestionID+"="+string(status))
	return types.VariantDraft{}, nil
}

func (f *fakeReviewer) SetAllSuggestionStatus(_ string, status types.SuggestionStatus) (types.VariantDraft, error) {
	f.calls = append(f.calls, "*="+string(status))
	return types.VariantDraft{}, nil
}

func TestApplyDecision(t *testing.T) {
	r := &fakeReviewer{}
	require.NoError(t, applyDecision(r, "d1", []string{"all", "s2"}, types.StatusRejected))
	assert.Equal(t, []string{"*=rejected", "s2=rejected"}, r.calls)

	r.fail = true
	err := applyDecision(r, "d1", []string{"s9"}, types.StatusAccepted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to mark s9 as accepted")
}
