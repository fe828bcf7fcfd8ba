// Package report writes run results to disk for downstream consumers. The
// per-file JSON carries questions already sorted and assessment text already
// sanitized, so a renderer can consume it without further normalization.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/surveyworks/surveyqc-cli/internal/model"
)

// Writer emits analysis results as indented JSON files under a directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer targeting dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "report: create output dir")
	}
	return &Writer{dir: dir}, nil
}

// WriteRun writes one JSON file per analyzed file plus a run summary.
// Returns the paths written.
func (w *Writer) WriteRun(result *model.RunResult) ([]string, error) {
	paths := make([]string, 0, len(result.Analyses)+1)

	for filename, fa := range result.Analyses {
		path := filepath.Join(w.dir, resultFileName(filename))
		if err := writeJSON(path, fa); err != nil {
			return paths, err
		}
		zap.L().Info("report written",
			zap.String("filename", filename),
			zap.String("path", path),
		)
		paths = append(paths, path)
	}

	summaryPath := filepath.Join(w.dir, "run_summary.json")
	if err := writeJSON(summaryPath, result); err != nil {
		return paths, err
	}
	paths = append(paths, summaryPath)

	return paths, nil
}

// resultFileName derives the per-file report name from the source filename,
// dropping the source extension: survey.docx -> analysis_result_survey.json.
func resultFileName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return "analysis_result_" + base + ".json"
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal result")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "report: write file")
	}
	return nil
}
