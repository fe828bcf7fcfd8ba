package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveyworks/surveyqc-cli/internal/extract"
	"github.com/surveyworks/surveyqc-cli/internal/model"
)

// scriptedInvoker returns a canned result per model name.
type scriptedInvoker struct {
	results map[string]model.ModelResult
	calls   []string
}

func (s *scriptedInvoker) Invoke(ctx context.Context, content string, cfg model.ModelConfig) model.ModelResult {
	s.calls = append(s.calls, cfg.Name)
	return s.results[cfg.Name]
}

func txtArtifact(content string) extract.Artifact {
	return extract.Artifact{Name: "survey.txt", Data: []byte(content)}
}

func TestAnalyzeFileMergesModels(t *testing.T) {
	inv := &scriptedInvoker{results: map[string]model.ModelResult{
		"alpha": {ModelName: "alpha", Analysis: &model.Analysis{
			Questions: []model.QuestionRecord{
				{QuestionID: "q1", TableNumber: "Part I"},
				{QuestionID: "q2", TableNumber: "2"},
			},
			OverallAssessment: "Solid overall.",
			Recommendations:   []string{"rec-a"},
		}},
		"beta": {ModelName: "beta", Analysis: &model.Analysis{
			Questions: []model.QuestionRecord{
				{QuestionID: "q3", TableNumber: "1"},
			},
			OverallAssessment: "Needs work.",
			Recommendations:   []string{"rec-b", "rec-a"},
		}},
	}}

	a := New(inv)
	fa, err := a.AnalyzeFile(context.Background(),
		txtArtifact("Q1: something"),
		[]model.ModelConfig{{Name: "alpha"}, {Name: "beta"}},
	)
	require.NoError(t, err)

	// Models run sequentially in configured order.
	assert.Equal(t, []string{"alpha", "beta"}, inv.calls)

	// Recommendations concatenate in model order, duplicates retained.
	assert.Equal(t, []string{"rec-a", "rec-b", "rec-a"}, fa.Recommendations)

	// Questions are merged then sorted: numeric tables first.
	require.Len(t, fa.Questions, 3)
	assert.Equal(t, "q3", fa.Questions[0].QuestionID)
	assert.Equal(t, "q2", fa.Questions[1].QuestionID)
	assert.Equal(t, "q1", fa.Questions[2].QuestionID)

	// One labeled assessment block per model, blank line separated.
	assert.Equal(t, "Assessment by alpha:\nSolid overall.\n\nAssessment by beta:\nNeeds work.", fa.OverallAssessment)

	require.Len(t, fa.ModelsUsed, 2)
	assert.False(t, fa.ModelsUsed[0].Degraded())
	assert.False(t, fa.ModelsUsed[1].Degraded())
	assert.False(t, fa.Timestamp.IsZero())
}

func TestAnalyzeFileModelIsolation(t *testing.T) {
	inv := &scriptedInvoker{results: map[string]model.ModelResult{
		"broken": {ModelName: "broken", Err: "connection refused"},
		"fine": {ModelName: "fine", Analysis: &model.Analysis{
			Questions:       []model.QuestionRecord{{QuestionID: "q1", TableNumber: "1"}},
			Recommendations: []string{"keep going"},
		}},
	}}

	a := New(inv)
	fa, err := a.AnalyzeFile(context.Background(),
		txtArtifact("Q1: something"),
		[]model.ModelConfig{{Name: "broken"}, {Name: "fine"}},
	)
	require.NoError(t, err)

	// The failing model is visible but contributes nothing to the merge.
	require.Len(t, fa.ModelsUsed, 2)
	assert.True(t, fa.ModelsUsed[0].Degraded())
	assert.Equal(t, "connection refused", fa.ModelsUsed[0].Err)

	assert.Equal(t, []string{"keep going"}, fa.Recommendations)
	require.Len(t, fa.Questions, 1)
	assert.Equal(t, "q1", fa.Questions[0].QuestionID)
}

func TestAnalyzeFileEmptyContent(t *testing.T) {
	inv := &scriptedInvoker{}
	a := New(inv)

	_, err := a.AnalyzeFile(context.Background(), txtArtifact(" \n "), []model.ModelConfig{{Name: "alpha"}})
	require.Error(t, err)

	// No model is ever invoked for an unextractable file.
	assert.Empty(t, inv.calls)
}

func TestAnalyzeFilePassthroughSections(t *testing.T) {
	first := map[string]any{"instructions_present": true}
	second := map[string]any{"instructions_present": false}
	inv := &scriptedInvoker{results: map[string]model.ModelResult{
		"alpha": {ModelName: "alpha", Analysis: &model.Analysis{GeneralInstructions: first}},
		"beta":  {ModelName: "beta", Analysis: &model.Analysis{GeneralInstructions: second, PartsAnalysis: map[string]any{"part_2_has_only_definitions": true}}},
	}}

	a := New(inv)
	fa, err := a.AnalyzeFile(context.Background(),
		txtArtifact("Q1: something"),
		[]model.ModelConfig{{Name: "alpha"}, {Name: "beta"}},
	)
	require.NoError(t, err)

	// First model supplying a section wins; later models fill only gaps.
	assert.Equal(t, first, fa.GeneralInstructions)
	assert.Equal(t, map[string]any{"part_2_has_only_definitions": true}, fa.PartsAnalysis)
}

func TestSanitizeAssessment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text collapses whitespace runs",
			in:   "Good   survey\n\twith  minor issues",
			want: "Good survey with minor issues",
		},
		{
			name: "fenced text is unwrapped",
			in:   "```\nLooks fine overall\n```",
			want: "Looks fine overall",
		},
		{
			name: "whole-json assessment substitutes nested field",
			in:   `{"overall_assessment": "The nested verdict.", "recommendations": []}`,
			want: "The nested verdict.",
		},
		{
			name: "fenced json assessment substitutes nested field",
			in:   "```json\n{\"overall_assessment\": \"Fenced verdict.\"}\n```",
			want: "Fenced verdict.",
		},
		{
			name: "json object without nested field collapses",
			in:   `{"validity": "Valid"}`,
			want: `{"validity": "Valid"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizeAssessment(tt.in))
		})
	}
}
