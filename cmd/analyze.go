package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/surveyworks/surveyqc-cli/internal/analyzer"
	"github.com/surveyworks/surveyqc-cli/internal/config"
	"github.com/surveyworks/surveyqc-cli/internal/extract"
	"github.com/surveyworks/surveyqc-cli/internal/model"
	"github.com/surveyworks/surveyqc-cli/internal/provider"
	"github.com/surveyworks/surveyqc-cli/internal/report"
	"github.com/surveyworks/surveyqc-cli/internal/runner"
)

var (
	analyzeModels      []string
	analyzeTemperature float64
	analyzeOutDir      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Analyze survey files with the configured models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		models, err := selectModels(cfg, analyzeModels)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("temperature") {
			for i := range models {
				models[i].Temperature = analyzeTemperature
			}
		}

		keys, err := config.LoadKeys(cfg.Keys.File)
		if err != nil {
			return err
		}
		models = config.ApplyKeys(models, keys)

		artifacts, err := readArtifacts(args)
		if err != nil {
			return err
		}

		inv := provider.NewInvoker(
			provider.WithTimeout(time.Duration(cfg.Providers.TimeoutSecs) * time.Second),
		)
		run := runner.New(analyzer.New(inv), runner.WithWorkers(cfg.Analyze.Concurrency))
		result := run.Run(ctx, artifacts, models)

		outDir := analyzeOutDir
		if outDir == "" {
			outDir = cfg.Analyze.OutDir
		}
		writer, err := report.NewWriter(outDir)
		if err != nil {
			return err
		}
		paths, err := writer.WriteRun(result)
		if err != nil {
			return err
		}

		zap.L().Info("run finished",
			zap.String("run_id", result.RunID),
			zap.Int("analyzed", len(result.Analyses)),
			zap.Int("failed", len(result.Errors)),
			zap.Strings("reports", paths),
		)
		for _, fe := range result.Errors {
			zap.L().Warn("file failed", zap.String("filename", fe.Filename), zap.String("error", fe.Err))
		}

		if len(result.Analyses) == 0 {
			return eris.New("analyze: no files could be analyzed")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeModels, "model", nil, "model names to use (default: all configured)")
	analyzeCmd.Flags().Float64Var(&analyzeTemperature, "temperature", 0.3, "override temperature for all selected models")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out", "", "output directory for reports (default: analyze.out_dir)")
	rootCmd.AddCommand(analyzeCmd)
}

// selectModels narrows the configured roster to the requested names, keeping
// config order. No names requested means all configured models.
func selectModels(cfg *config.Config, names []string) ([]model.ModelConfig, error) {
	if len(names) == 0 {
		out := make([]model.ModelConfig, len(cfg.Models))
		copy(out, cfg.Models)
		return out, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []model.ModelConfig
	for _, m := range cfg.Models {
		if wanted[m.Name] {
			out = append(out, m)
			delete(wanted, m.Name)
		}
	}
	for n := range wanted {
		return nil, eris.Errorf("analyze: unknown model %q", n)
	}
	return out, nil
}

func readArtifacts(paths []string) ([]extract.Artifact, error) {
	artifacts := make([]extract.Artifact, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, eris.Wrapf(err, "analyze: read %s", p)
		}
		artifacts = append(artifacts, extract.Artifact{Name: filepath.Base(p), Data: data})
	}
	return artifacts, nil
}
