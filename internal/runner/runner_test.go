package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveyworks/surveyqc-cli/internal/extract"
	"github.com/surveyworks/surveyqc-cli/internal/model"
)

// fakeAnalyzer drives runner tests without touching extraction or providers.
type fakeAnalyzer struct {
	mu       sync.Mutex
	analyze  func(artifact extract.Artifact) (*model.FileAnalysis, error)
	inFlight atomic.Int32
	maxSeen  int32
}

func (f *fakeAnalyzer) AnalyzeFile(ctx context.Context, artifact extract.Artifact, models []model.ModelConfig) (*model.FileAnalysis, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	f.mu.Lock()
	if cur > f.maxSeen {
		f.maxSeen = cur
	}
	f.mu.Unlock()

	return f.analyze(artifact)
}

func artifacts(names ...string) []extract.Artifact {
	out := make([]extract.Artifact, len(names))
	for i, n := range names {
		out[i] = extract.Artifact{Name: n, Data: []byte("x")}
	}
	return out
}

func TestRunIsolatesFileFailures(t *testing.T) {
	fa := &fakeAnalyzer{analyze: func(artifact extract.Artifact) (*model.FileAnalysis, error) {
		if artifact.Name == "bad.txt" {
			return nil, eris.New("extract: no content in bad.txt")
		}
		return &model.FileAnalysis{Filename: artifact.Name, Timestamp: time.Now()}, nil
	}}

	r := New(fa)
	result := r.Run(context.Background(), artifacts("a.txt", "bad.txt", "b.txt"), nil)

	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Analyses, 2)
	assert.Contains(t, result.Analyses, "a.txt")
	assert.Contains(t, result.Analyses, "b.txt")

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad.txt", result.Errors[0].Filename)
	assert.Contains(t, result.Errors[0].Err, "no content")
}

func TestRunBoundsConcurrency(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 10)

	fa := &fakeAnalyzer{analyze: func(artifact extract.Artifact) (*model.FileAnalysis, error) {
		started <- artifact.Name
		<-release
		return &model.FileAnalysis{Filename: artifact.Name}, nil
	}}

	r := New(fa)

	names := []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9"}
	done := make(chan *model.RunResult)
	go func() {
		done <- r.Run(context.Background(), artifacts(names...), nil)
	}()

	// Exactly the pool cap starts; the rest queue behind it.
	for i := 0; i < maxWorkers; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatalf("worker %d never started", i)
		}
	}
	select {
	case name := <-started:
		t.Fatalf("more than %d tasks in flight: %s started early", maxWorkers, name)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	result := <-done

	assert.Len(t, result.Analyses, len(names))
	assert.Empty(t, result.Errors)

	fa.mu.Lock()
	defer fa.mu.Unlock()
	assert.LessOrEqual(t, fa.maxSeen, int32(maxWorkers))
}

func TestRunPoolShrinksToFileCount(t *testing.T) {
	fa := &fakeAnalyzer{analyze: func(artifact extract.Artifact) (*model.FileAnalysis, error) {
		time.Sleep(10 * time.Millisecond)
		return &model.FileAnalysis{Filename: artifact.Name}, nil
	}}

	r := New(fa)
	result := r.Run(context.Background(), artifacts("only.txt"), nil)

	assert.Len(t, result.Analyses, 1)

	fa.mu.Lock()
	defer fa.mu.Unlock()
	assert.Equal(t, int32(1), fa.maxSeen)
}

func TestRunRecoversPanickedTask(t *testing.T) {
	fa := &fakeAnalyzer{analyze: func(artifact extract.Artifact) (*model.FileAnalysis, error) {
		if artifact.Name == "boom.txt" {
			panic("unexpected response shape")
		}
		return &model.FileAnalysis{Filename: artifact.Name}, nil
	}}

	r := New(fa)
	result := r.Run(context.Background(), artifacts("ok.txt", "boom.txt"), nil)

	assert.Len(t, result.Analyses, 1)
	assert.Contains(t, result.Analyses, "ok.txt")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "boom.txt", result.Errors[0].Filename)
	assert.Contains(t, result.Errors[0].Err, "panicked")
}

func TestRunEmptyInput(t *testing.T) {
	called := false
	fa := &fakeAnalyzer{analyze: func(artifact extract.Artifact) (*model.FileAnalysis, error) {
		called = true
		return nil, nil
	}}

	r := New(fa)
	result := r.Run(context.Background(), nil, nil)

	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Analyses)
	assert.Empty(t, result.Errors)
	assert.False(t, called)
}

func TestWithWorkersOverride(t *testing.T) {
	fa := &fakeAnalyzer{analyze: func(artifact extract.Artifact) (*model.FileAnalysis, error) {
		time.Sleep(20 * time.Millisecond)
		return &model.FileAnalysis{Filename: artifact.Name}, nil
	}}

	r := New(fa, WithWorkers(1))
	result := r.Run(context.Background(), artifacts("a.txt", "b.txt", "c.txt"), nil)

	assert.Len(t, result.Analyses, 3)

	fa.mu.Lock()
	defer fa.mu.Unlock()
	assert.Equal(t, int32(1), fa.maxSeen)
}
