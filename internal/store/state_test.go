package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-variants/internal/types"
)

func testDraft(id string) types.VariantDraft {
	return types.VariantDraft{
		ID:           id,
		Name:         "Variant " + id,
		BaseResumeID: "m1",
		Sections:     []types.ResumeSection{{ID: "s1", Kind: types.SectionSkills, Content: []string{"Go"}}},
		Suggestions: []types.SectionSuggestion{
			{ID: "g1", SectionID: "s1", ChangeType: types.ChangeAddition, Content: []string{"Kafka"}, Status: types.StatusPending},
			{ID: "g2", SectionID: "s1", ChangeType: types.ChangeAddition, Content: []string{"Rust"}, Status: types.StatusPending},
		},
	}
}

func TestState_ZeroValue(t *testing.T) {
	var s State

	_, ok := s.Draft("x")
	assert.False(t, ok)
	assert.Empty(t, s.Drafts())
	assert.Empty(t, s.Resumes())
	assert.Zero(t, s.Len())
}

func TestState_WithDraftDoesNotChangeReceiver(t *testing.T) {
	var s0 State
	s1 := s0.WithDraft(testDraft("d1"))
	s2 := s1.WithDraft(testDraft("d2"))

	assert.Zero(t, s0.Len())
	assert.Equal(t, 1, s1.Len())
	assert.Equal(t, 2, s2.Len())
	assert.Equal(t, []string{"d1", "d2"}, []string{s2.Drafts()[0].ID, s2.Drafts()[1].ID})
}

func TestState_WithDraftReplacesKeepingOrder(t *testing.T) {
	s := State{}.WithDraft(testDraft("d1")).WithDraft(testDraft("d2"))
	renamed := testDraft("d1")
	renamed.Name = "renamed"

	s = s.WithDraft(renamed)

	drafts := s.Drafts()
	require.Len(t, drafts, 2)
	assert.Equal(t, "renamed", drafts[0].Name)
}

func TestState_DraftReturnsCopy(t *testing.T) {
	s := State{}.WithDraft(testDraft("d1"))

	d, ok := s.Draft("d1")
	require.True(t, ok)
	d.Suggestions[0].Status = types.StatusAccepted
	d.Sections[0].Content[0] = "mutated"

	again, _ := s.Draft("d1")
	assert.Equal(t, types.StatusPending, again.Suggestions[0].Status)
	assert.Equal(t, "Go", again.Sections[0].Content[0])
}

func TestState_WithSuggestionStatus(t *testing.T) {
	s0 := State{}.WithDraft(testDraft("d1"))

	s1, err := s0.WithSuggestionStatus("d1", "g2", types.StatusAccepted)
	require.NoError(t, err)

	d0, _ := s0.Draft("d1")
	d1, _ := s1.Draft("d1")
	assert.Equal(t, types.StatusPending, d0.Suggestions[1].Status)
	assert.Equal(t, types.StatusAccepted, d1.Suggestions[1].Status)
	assert.Equal(t, types.StatusPending, d1.Suggestions[0].Status)
}

func TestState_Errors(t *testing.T) {
	s := State{}.WithDraft(testDraft("d1"))

	_, err := s.WithSuggestionStatus("nope", "g1", types.StatusAccepted)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = s.WithSuggestionStatus("d1", "nope", types.StatusAccepted)
	assert.ErrorIs(t, err, ErrSuggestionNotFound)

	_, err = s.WithSuggestionStatus("d1", "g1", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.WithAllSuggestionStatus("d1", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.WithoutDraft("nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = s.Commit("nope", types.ResumeRecord{ID: "v1"})
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestState_WithAllSuggestionStatus(t *testing.T) {
	s, err := State{}.WithDraft(testDraft("d1")).WithAllSuggestionStatus("d1", types.StatusRejected)
	require.NoError(t, err)

	d, _ := s.Draft("d1")
	for _, sg := range d.Suggestions {
		assert.Equal(t, types.StatusRejected, sg.Status)
	}
}

func TestState_Commit(t *testing.T) {
	s0 := State{}.WithDraft(testDraft("d1")).WithDraft(testDraft("d2"))

	s1, err := s0.Commit("d1", types.ResumeRecord{ID: "v1", Kind: types.ResumeKindVariant, BaseResumeID: "m1"})
	require.NoError(t, err)

	_, ok := s1.Draft("d1")
	assert.False(t, ok, "committed drafts are destroyed")
	assert.Equal(t, 1, s1.Len())
	require.Len(t, s1.Resumes(), 1)
	assert.Equal(t, "v1", s1.Resumes()[0].ID)

	assert.Equal(t, 2, s0.Len())
	assert.Empty(t, s0.Resumes())
}
