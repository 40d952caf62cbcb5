package suggestions

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-variants/internal/types"
)

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("sg-%d", n.Add(1))
	}
}

func locked() *bool {
	f := false
	return &f
}

func sampleSections() []types.ResumeSection {
	return []types.ResumeSection{
		{ID: "summary", Kind: types.SectionSummary, Content: []string{"Backend engineer."}},
		{ID: "exp-1", Kind: types.SectionExperienceBullets, Content: []string{"Built billing."}},
		{ID: "exp-1-meta", Kind: types.SectionExperienceMetadata, Content: []string{"Initech, 2019-2023"}},
		{ID: "skills", Kind: types.SectionSkills, Content: []string{"Go"}},
		{ID: "edu", Kind: types.SectionEducation, Content: []string{"BSc"}},
	}
}

var allKinds = types.SectionKinds()

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(WithIDGenerator(sequentialIDs()))

	got := b.Build(sampleSections(), allKinds, []string{"Kubernetes", "Terraform"}, types.JobContext{Title: "SRE"})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"summary", "exp-1", "skills"}, []string{got[0].SectionID, got[1].SectionID, got[2].SectionID})
	for i, s := range got {
		assert.Equal(t, fmt.Sprintf("sg-%d", i+1), s.ID)
		assert.Equal(t, types.StatusPending, s.Status)
		assert.NotEmpty(t, s.Rationale)
		assert.NotEmpty(t, s.Keywords)
	}
}

func TestBuilder_NeverTouchesProtectedSections(t *testing.T) {
	sections := sampleSections()
	for i := range sections {
		sections[i].AllowAdaptation = locked()
	}

	got := NewBuilder().Build(sections, allKinds, []string{"Kubernetes", "Terraform", "Kafka"}, types.JobContext{})

	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestBuilder_RespectsSelectedKinds(t *testing.T) {
	got := NewBuilder().Build(sampleSections(), []types.SectionKind{types.SectionSkills}, []string{"Kafka"}, types.JobContext{})

	require.Len(t, got, 1)
	assert.Equal(t, "skills", got[0].SectionID)
}

func TestBuilder_FactualSectionsGetNothing(t *testing.T) {
	kinds := []types.SectionKind{types.SectionEducation, types.SectionExperienceMetadata}

	got := NewBuilder().Build(sampleSections(), kinds, []string{"Kafka"}, types.JobContext{})

	assert.Empty(t, got)
}

func TestBuilder_NoKeywords(t *testing.T) {
	got := NewBuilder().Build(sampleSections(), allKinds, nil, types.JobContext{Title: "SRE"})

	assert.Empty(t, got)
}

type stubTemplate struct{}

func (stubTemplate) Kind() types.SectionKind { return types.SectionEducation }

func (stubTemplate) Propose(types.ResumeSection, Input) (Proposal, bool) {
	return Proposal{ChangeType: types.ChangeReplacement, Summary: "s", Content: []string{"MSc"}}, true
}

func TestBuilder_WithTemplate(t *testing.T) {
	b := NewBuilder(WithTemplate(stubTemplate{}))
	require.True(t, b.Supports(types.SectionEducation))

	got := b.Build(sampleSections(), []types.SectionKind{types.SectionEducation}, nil, types.JobContext{})

	require.Len(t, got, 1)
	assert.Equal(t, "edu", got[0].SectionID)
	assert.Equal(t, []string{}, got[0].Keywords)
}

func TestAdaptableSections(t *testing.T) {
	sections := sampleSections()
	sections[0].AllowAdaptation = locked()

	got := AdaptableSections(sections, []types.SectionKind{types.SectionSummary, types.SectionSkills})

	require.Len(t, got, 1)
	assert.Equal(t, "skills", got[0].ID)
}
