// Package runner fans the per-file analyzer out across all uploaded files
// with bounded concurrency.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/surveyworks/surveyqc-cli/internal/extract"
	"github.com/surveyworks/surveyqc-cli/internal/model"
)

// maxWorkers caps the worker pool. Parallelizing across files hides provider
// latency; the cap keeps burst load on rate-limited upstreams bounded.
const maxWorkers = 4

// FileAnalyzer evaluates one file against the selected models.
type FileAnalyzer interface {
	AnalyzeFile(ctx context.Context, artifact extract.Artifact, models []model.ModelConfig) (*model.FileAnalysis, error)
}

// Runner coordinates one analysis run across files.
type Runner struct {
	analyzer FileAnalyzer
	workers  int
}

// Option configures the Runner.
type Option func(*Runner)

// WithWorkers overrides the worker pool cap.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// New creates a Runner on top of the given analyzer.
func New(analyzer FileAnalyzer, opts ...Option) *Runner {
	r := &Runner{
		analyzer: analyzer,
		workers:  maxWorkers,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run analyzes every artifact concurrently, pool size min(cap, file count).
// Each file is an independent task sharing no mutable state with its
// siblings; one file's failure (including a panic inside its task) becomes a
// per-file error entry and never cancels or corrupts the others. Completion
// order is non-deterministic; results are keyed by filename.
func (r *Runner) Run(ctx context.Context, artifacts []extract.Artifact, models []model.ModelConfig) *model.RunResult {
	result := &model.RunResult{
		RunID:    uuid.NewString(),
		Analyses: make(map[string]model.FileAnalysis, len(artifacts)),
		Errors:   []model.FileError{},
	}
	if len(artifacts) == 0 {
		return result
	}

	workers := r.workers
	if len(artifacts) < workers {
		workers = len(artifacts)
	}

	zap.L().Info("starting analysis run",
		zap.String("run_id", result.RunID),
		zap.Int("files", len(artifacts)),
		zap.Int("models", len(models)),
		zap.Int("workers", workers),
	)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, artifact := range artifacts {
		artifact := artifact
		g.Go(func() error {
			fa, err := r.analyzeSafe(ctx, artifact, models)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, model.FileError{
					Filename: artifact.Name,
					Err:      err.Error(),
				})
				return nil
			}
			result.Analyses[artifact.Name] = *fa
			return nil
		})
	}

	// Tasks never return errors; failures are collected per file.
	_ = g.Wait()

	zap.L().Info("analysis run complete",
		zap.String("run_id", result.RunID),
		zap.Int("analyzed", len(result.Analyses)),
		zap.Int("failed", len(result.Errors)),
	)

	return result
}

// analyzeSafe runs one file task and converts a panic into an error so a
// misbehaving provider response cannot take down sibling tasks.
func (r *Runner) analyzeSafe(ctx context.Context, artifact extract.Artifact, models []model.ModelConfig) (fa *model.FileAnalysis, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("file task panicked",
				zap.String("filename", artifact.Name),
				zap.Any("panic", rec),
			)
			fa = nil
			err = fmt.Errorf("runner: file task panicked: %v", rec)
		}
	}()

	return r.analyzer.AnalyzeFile(ctx, artifact, models)
}
