// Package mcptools exposes keyword analysis and draft generation as MCP tools over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonathan/resume-variants/internal/app"
	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/parsing"
	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

// ServerName is reported to MCP clients
const ServerName = "resume-variants"

// Tools binds tool handlers to an App
type Tools struct {
	app *app.App
}

// NewServer registers every tool on a new MCP server
func NewServer(a *app.App, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version)
	t := &Tools{app: a}

	extract := mcp.NewTool("extract_keywords",
		mcp.WithDescription("Extract the most relevant keywords from a job description"),
	)
	extract.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"job_description": map[string]any{"type": "string", "description": "Full job description text"},
			"limit":           map[string]any{"type": "integer", "description": "Max keywords to return (default: configured limit)"},
		},
		Required: []string{"job_description"},
	}
	s.AddTool(extract, t.ExtractKeywords)

	guess := mcp.NewTool("guess_job_context",
		mcp.WithDescription("Guess the title, company and location of a job description"),
	)
	guess.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"job_description": map[string]any{"type": "string", "description": "Full job description text"},
		},
		Required: []string{"job_description"},
	}
	s.AddTool(guess, t.GuessJobContext)

	generate := mcp.NewTool("generate_variant_draft",
		mcp.WithDescription("Generate a reviewable variant draft of a stored resume for a job description"),
	)
	generate.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"job_description": map[string]any{"type": "string", "description": "Full job description text"},
			"base_resume_id":  map[string]any{"type": "string", "description": "Id of the master or variant resume to adapt"},
			"sections_to_adapt": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string", "enum": sectionKindNames()},
				"description": "Section kinds to adapt (default: none)",
			},
			"preset_variant_name": map[string]any{"type": "string", "description": "Name for the draft (optional)"},
		},
		Required: []string{"job_description", "base_resume_id"},
	}
	s.AddTool(generate, t.GenerateVariantDraft)

	review := mcp.NewTool("set_suggestion_status",
		mcp.WithDescription("Accept, reject or reset a suggestion of a draft"),
	)
	review.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"draft_id":      map[string]any{"type": "string", "description": "Draft id"},
			"suggestion_id": map[string]any{"type": "string", "description": "Suggestion id, or \"*\" for every suggestion"},
			"status":        map[string]any{"type": "string", "enum": []string{"pending", "accepted", "rejected"}},
		},
		Required: []string{"draft_id", "suggestion_id", "status"},
	}
	s.AddTool(review, t.SetSuggestionStatus)

	materialize := mcp.NewTool("materialize_draft",
		mcp.WithDescription("Save a reviewed draft as a new variant resume"),
	)
	materialize.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"draft_id":        map[string]any{"type": "string", "description": "Draft id"},
			"include_pending": map[string]any{"type": "boolean", "description": "Also apply unreviewed suggestions"},
		},
		Required: []string{"draft_id"},
	}
	s.AddTool(materialize, t.MaterializeDraft)

	list := mcp.NewTool("list_resumes",
		mcp.WithDescription("List stored resumes, newest first"),
	)
	list.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"kind":           map[string]any{"type": "string", "enum": []string{"master", "variant"}},
			"base_resume_id": map[string]any{"type": "string", "description": "Only variants derived from this resume"},
			"limit":          map[string]any{"type": "integer", "description": "Max resumes to return"},
		},
	}
	s.AddTool(list, t.ListResumes)

	return s
}

// Serve runs the MCP server on stdin/stdout until the client disconnects
func Serve(a *app.App, version string) error {
	return server.ServeStdio(NewServer(a, version))
}

// ExtractKeywords handles extract_keywords
func (t *Tools) ExtractKeywords(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	desc := stringArg(args, "job_description")
	if desc == "" {
		return mcp.NewToolResultError("job_description is required"), nil
	}

	limit := t.app.Config.KeywordLimit
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	if limit <= 0 {
		limit = parsing.DefaultKeywordLimit
	}
	return jsonResult(map[string]any{"keywords": parsing.ExtractKeywords(desc, limit)})
}

// GuessJobContext handles guess_job_context
func (t *Tools) GuessJobContext(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	desc := stringArg(args, "job_description")
	if desc == "" {
		return mcp.NewToolResultError("job_description is required"), nil
	}
	return jsonResult(t.app.Analyze(desc).JobContext)
}

// GenerateVariantDraft handles generate_variant_draft
func (t *Tools) GenerateVariantDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	input := types.VariantGenerationInput{
		JobDescription:    stringArg(args, "job_description"),
		BaseResumeID:      stringArg(args, "base_resume_id"),
		PresetVariantName: stringArg(args, "preset_variant_name"),
	}
	if raw, ok := args["sections_to_adapt"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				input.SectionsToAdapt = append(input.SectionsToAdapt, types.SectionKind(s))
			}
		}
	}

	draft, err := t.app.GenerateDraft(ctx, input, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to generate draft: %v", err)), nil
	}
	return jsonResult(draft)
}

// SetSuggestionStatus handles set_suggestion_status
func (t *Tools) SetSuggestionStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	draftID := stringArg(args, "draft_id")
	suggestionID := stringArg(args, "suggestion_id")
	status := types.SuggestionStatus(stringArg(args, "status"))

	var (
		draft types.VariantDraft
		err   error
	)
	if suggestionID == "*" {
		draft, err = t.app.Drafts.SetAllSuggestionStatus(draftID, status)
	} else {
		draft, err = t.app.Drafts.SetSuggestionStatus(draftID, suggestionID, status)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update suggestion: %v", err)), nil
	}
	return jsonResult(draft)
}

// MaterializeDraft handles materialize_draft
func (t *Tools) MaterializeDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	opts := variants.MaterializeOptions{}
	if v, ok := args["include_pending"].(bool); ok {
		opts.IncludePending = v
	}

	rec, err := t.app.Materialize(ctx, stringArg(args, "draft_id"), opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to materialize draft: %v", err)), nil
	}
	return jsonResult(rec)
}

// ListResumes handles list_resumes
func (t *Tools) ListResumes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)

	filter := library.ListFilter{
		Kind:         types.ResumeKind(stringArg(args, "kind")),
		BaseResumeID: stringArg(args, "base_resume_id"),
	}
	if v, ok := args["limit"].(float64); ok && v > 0 {
		filter.Limit = int(v)
	}

	resumes, err := t.app.Library.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list resumes: %v", err)), nil
	}

	summaries := make([]resumeSummary, 0, len(resumes))
	for _, r := range resumes {
		summaries = append(summaries, resumeSummary{
			ID:           r.ID,
			Kind:         r.Kind,
			Name:         r.Name,
			BaseResumeID: r.BaseResumeID,
			CreatedAt:    r.CreatedAt.Format(time.RFC3339),
			Sections:     len(r.Sections),
		})
	}
	return jsonResult(map[string]any{"resumes": summaries, "count": len(summaries)})
}

type resumeSummary struct {
	ID           string           `json:"id"`
	Kind         types.ResumeKind `json:"kind"`
	Name         string           `json:"name"`
	BaseResumeID string           `json:"base_resume_id,omitempty"`
	CreatedAt    string           `json:"created_at"`
	Sections     int              `json:"sections"`
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func sectionKindNames() []string {
	kinds := types.SectionKinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
