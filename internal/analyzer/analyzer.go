// Package analyzer evaluates one uploaded file: extract its content, ask each
// selected model in turn, and merge the per-model analyses into a single
// FileAnalysis.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/surveyworks/surveyqc-cli/internal/extract"
	"github.com/surveyworks/surveyqc-cli/internal/llmjson"
	"github.com/surveyworks/surveyqc-cli/internal/model"
)

// ModelInvoker asks one configured model to evaluate survey content.
type ModelInvoker interface {
	Invoke(ctx context.Context, content string, cfg model.ModelConfig) model.ModelResult
}

// Analyzer runs the per-file pipeline. Stateless; safe for concurrent use
// across files.
type Analyzer struct {
	invoker ModelInvoker
}

// New creates an Analyzer on top of the given invoker.
func New(invoker ModelInvoker) *Analyzer {
	return &Analyzer{invoker: invoker}
}

// AnalyzeFile extracts the artifact's content and invokes each model
// sequentially, merging their outputs. Models are never parallelized within
// one file; only files run in parallel. A file with no extractable content
// returns an error before any model is invoked. A single model's failure is
// recorded as a degraded entry in ModelsUsed and never discards another
// model's output.
func (a *Analyzer) AnalyzeFile(ctx context.Context, artifact extract.Artifact, models []model.ModelConfig) (*model.FileAnalysis, error) {
	content, err := extract.Content(artifact)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: extract content")
	}

	zap.L().Info("content extracted",
		zap.String("filename", artifact.Name),
		zap.Int("content_len", len(content)),
	)

	fa := &model.FileAnalysis{
		Filename:        artifact.Name,
		ModelsUsed:      make([]model.ModelResult, 0, len(models)),
		Questions:       []model.QuestionRecord{},
		Recommendations: []string{},
		Timestamp:       time.Now(),
	}

	for _, cfg := range models {
		zap.L().Info("invoking model",
			zap.String("filename", artifact.Name),
			zap.String("model", cfg.Name),
		)

		result := a.invoker.Invoke(ctx, content, cfg)
		fa.ModelsUsed = append(fa.ModelsUsed, result)
		if result.Degraded() {
			continue
		}
		mergeResult(fa, cfg.Name, result.Analysis)
	}

	model.SortQuestions(fa.Questions)
	return fa, nil
}

// mergeResult folds one model's analysis into the file-level record.
// Recommendations and questions concatenate in model order with duplicates
// retained; the assessment becomes its own labeled paragraph block; the
// general-instructions and parts sections pass through from the first model
// that supplied them.
func mergeResult(fa *model.FileAnalysis, modelName string, a *model.Analysis) {
	fa.Recommendations = append(fa.Recommendations, a.Recommendations...)
	fa.Questions = append(fa.Questions, a.Questions...)

	if a.OverallAssessment != "" {
		block := fmt.Sprintf("Assessment by %s:\n%s", modelName, sanitizeAssessment(a.OverallAssessment))
		if fa.OverallAssessment != "" {
			fa.OverallAssessment += "\n\n" + block
		} else {
			fa.OverallAssessment = block
		}
	}

	if fa.GeneralInstructions == nil && len(a.GeneralInstructions) > 0 {
		fa.GeneralInstructions = a.GeneralInstructions
	}
	if fa.PartsAnalysis == nil && len(a.PartsAnalysis) > 0 {
		fa.PartsAnalysis = a.PartsAnalysis
	}
}

// sanitizeAssessment cleans one model's assessment text: code fences are
// stripped; an assessment that is itself a whole JSON object is replaced by
// its nested overall_assessment field; anything else has internal whitespace
// runs collapsed to single spaces.
func sanitizeAssessment(text string) string {
	s := strings.TrimSpace(llmjson.StripFences(text))

	if strings.HasPrefix(s, "{") {
		if v, ok := llmjson.Recover(s); ok {
			if m, ok := v.(map[string]any); ok {
				if nested, ok := m["overall_assessment"].(string); ok && nested != "" {
					return strings.TrimSpace(nested)
				}
			}
		}
	}

	return strings.Join(strings.Fields(s), " ")
}
