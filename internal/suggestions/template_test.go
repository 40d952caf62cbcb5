package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-variants/internal/types"
)

func TestNaturalJoin(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"go"}, "go"},
		{[]string{"go", "rust"}, "go and rust"},
		{[]string{"go", "rust", "zig"}, "go, rust, and zig"},
		{[]string{"a", "b", "c", "d"}, "a, b, c, and d"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NaturalJoin(tt.in))
		})
	}
}

func TestSummaryTemplate(t *testing.T) {
	t.Run("title and company", func(t *testing.T) {
		p, ok := SummaryTemplate{}.Propose(types.ResumeSection{}, Input{
			Keywords:   []string{"Kubernetes", "AI", "Observability", "Terraform"},
			JobContext: types.JobContext{Title: "Staff Engineer", Company: "Acme Corp"},
		})
		require.True(t, ok)
		assert.Equal(t, types.ChangeAddition, p.ChangeType)
		assert.Equal(t, []string{
			"Staff Engineer candidate with hands-on depth in kubernetes, AI, and observability, ready to contribute to Acme Corp.",
		}, p.Content)
		assert.Equal(t, []string{"Kubernetes", "AI", "Observability"}, p.Keywords)
		assert.NotEmpty(t, p.Rationale)
	})

	t.Run("no context", func(t *testing.T) {
		p, ok := SummaryTemplate{}.Propose(types.ResumeSection{}, Input{Keywords: []string{"Python"}})
		require.True(t, ok)
		assert.Equal(t, []string{"Candidate with hands-on depth in python."}, p.Content)
	})

	t.Run("no keywords", func(t *testing.T) {
		_, ok := SummaryTemplate{}.Propose(types.ResumeSection{}, Input{JobContext: types.JobContext{Title: "SRE"}})
		assert.False(t, ok)
	})
}

func TestExperienceBulletsTemplate(t *testing.T) {
	t.Run("one bullet per keyword slot", func(t *testing.T) {
		p, ok := ExperienceBulletsTemplate{}.Propose(types.ResumeSection{}, Input{
			Keywords: []string{"Platform", "CI-CD"},
		})
		require.True(t, ok)
		assert.Equal(t, types.ChangeAddition, p.ChangeType)
		require.Len(t, p.Content, 2)
		assert.Contains(t, p.Content[0], "platform initiatives")
		assert.Contains(t, p.Content[1], "CI-CD improvements")
		assert.Equal(t, []string{"Platform", "CI-CD"}, p.Keywords)
	})

	t.Run("at most three bullets", func(t *testing.T) {
		p, ok := ExperienceBulletsTemplate{}.Propose(types.ResumeSection{}, Input{
			Keywords: []string{"One", "Two", "Three", "Four"},
		})
		require.True(t, ok)
		require.Len(t, p.Content, 3)
		assert.Contains(t, p.Content[2], "three practices")
	})

	t.Run("no keywords", func(t *testing.T) {
		_, ok := ExperienceBulletsTemplate{}.Propose(types.ResumeSection{}, Input{})
		assert.False(t, ok)
	})
}

func TestSkillsTemplate(t *testing.T) {
	section := types.ResumeSection{Kind: types.SectionSkills, Content: []string{"Go, kubernetes", "PostgreSQL"}}

	t.Run("skips skills already listed", func(t *testing.T) {
		p, ok := SkillsTemplate{}.Propose(section, Input{Keywords: []string{"Kubernetes", "Terraform", "Postgresql", "Kafka"}})
		require.True(t, ok)
		assert.Equal(t, []string{"Terraform, Kafka"}, p.Content)
		assert.Equal(t, []string{"Terraform", "Kafka"}, p.Keywords)
	})

	t.Run("caps at six", func(t *testing.T) {
		p, ok := SkillsTemplate{}.Propose(section, Input{Keywords: []string{"A1x", "B2x", "C3x", "D4x", "E5x", "F6x", "G7x"}})
		require.True(t, ok)
		assert.Len(t, p.Keywords, 6)
		assert.NotContains(t, p.Keywords, "G7x")
	})

	t.Run("nothing new", func(t *testing.T) {
		_, ok := SkillsTemplate{}.Propose(section, Input{Keywords: []string{"Kubernetes"}})
		assert.False(t, ok)
	})
}
