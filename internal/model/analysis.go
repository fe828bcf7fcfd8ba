package model

import (
	"encoding/json"
	"time"
)

// Analysis is the structured evaluation a model is expected to return.
// Every key is optional: a missing key means "nothing to merge for that key",
// not an error. The general-instructions and parts analyses are opaque
// mappings passed through to the report untouched.
type Analysis struct {
	GeneralInstructions map[string]any   `json:"survey_general_instructions_analysis,omitempty"`
	PartsAnalysis       map[string]any   `json:"survey_parts_analysis,omitempty"`
	Questions           []QuestionRecord `json:"individual_question_analysis,omitempty"`
	OverallAssessment   string           `json:"overall_assessment,omitempty"`
	Recommendations     []string         `json:"recommendations,omitempty"`
}

// DecodeAnalysis converts a recovered JSON value into an Analysis.
// The value round-trips through encoding/json so unrecognized keys are
// dropped and validity strings are normalized on the way in.
func DecodeAnalysis(v any) (*Analysis, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FallbackAnalysis wraps raw model text that contained no recoverable JSON
// into the expected shape: no questions, the raw text as the assessment, and
// one recommendation flagging the missing structure.
func FallbackAnalysis(raw string) *Analysis {
	return &Analysis{
		Questions:         []QuestionRecord{},
		OverallAssessment: raw,
		Recommendations:   []string{"This model did not return structured JSON. Raw analysis: " + raw},
	}
}

// ModelResult is the outcome of one model invocation for one file. Exactly
// one of Analysis or Err is set: a degraded result carries an error
// description instead of analysis content, so one model's failure never
// discards another's success.
type ModelResult struct {
	ModelName string    `json:"model_name"`
	Analysis  *Analysis `json:"analysis,omitempty"`
	Err       string    `json:"error,omitempty"`
}

// Degraded reports whether the result carries an error instead of analysis.
func (r ModelResult) Degraded() bool {
	return r.Err != ""
}

// FileAnalysis is the merged evaluation of one uploaded file across all
// invoked models. Immutable after construction; questions are already sorted
// and assessment text already sanitized when the analyzer hands it out.
type FileAnalysis struct {
	Filename            string           `json:"filename"`
	ModelsUsed          []ModelResult    `json:"models_used"`
	GeneralInstructions map[string]any   `json:"survey_general_instructions_analysis,omitempty"`
	PartsAnalysis       map[string]any   `json:"survey_parts_analysis,omitempty"`
	Questions           []QuestionRecord `json:"individual_question_analysis"`
	Recommendations     []string         `json:"recommendations"`
	OverallAssessment   string           `json:"overall_assessment"`
	Timestamp           time.Time        `json:"timestamp"`
}

// FileError records a file that could not be analyzed at all.
type FileError struct {
	Filename string `json:"filename"`
	Err      string `json:"error"`
}

// RunResult is the outcome of one fan-out invocation: successful analyses
// keyed by filename plus per-file errors. It supersedes any previous run's
// result set; there is no incremental merge across runs.
type RunResult struct {
	RunID    string                  `json:"run_id"`
	Analyses map[string]FileAnalysis `json:"analyses"`
	Errors   []FileError             `json:"errors"`
}
